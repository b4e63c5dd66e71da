package nfa

import (
	"strings"
	"testing"

	"github.com/coregx/backrex/ast"
)

func TestMachine_Dump(t *testing.T) {
	m, err := Finalize[uint32](mustCompile(t, func(tr *ast.Tree) ast.NodeRef {
		return tr.AddSequence(
			tr.AddSubroutineCall(1),
			tr.AddCapture(tr.AddString("a"), ""),
		)
	}))
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	var sb strings.Builder
	m.Dump(&sb)
	dot := sb.String()

	if !strings.HasPrefix(dot, "digraph") || !strings.HasSuffix(dot, "}\n") {
		t.Fatalf("not a DOT graph:\n%s", dot)
	}
	for _, want := range []string{"doublecircle", `label="start"`, "jump", "style=dashed"} {
		if !strings.Contains(dot, want) {
			t.Errorf("dump missing %q:\n%s", want, dot)
		}
	}
	// One labeled edge per transition plus one dashed call edge.
	if got := strings.Count(dot, "taillabel"); got != m.TransitionCount() {
		t.Errorf("edge count = %d, want %d", got, m.TransitionCount())
	}
	if got := strings.Count(dot, "style=dashed"); got != 1 {
		t.Errorf("call edge count = %d, want 1", got)
	}
}

func TestCondition_String(t *testing.T) {
	tests := []struct {
		cond Condition[uint32]
		want string
	}{
		{Epsilon[uint32](), "eps"},
		{Literal[uint32]([]rune("ab"), false), `lit "ab"`},
		{CharClass[uint32](wordClass(), true, false), "class not " + wordClass().String()},
		{SimpleAssertion[uint32](ast.AssertSubjectStart), `assert \A`},
		{CaptureBegin(MakeCaptureID[uint32](2)), "begin capture(2)"},
		{CaptureEnd[uint32](), "end capture"},
		{Backreference(MakeCaptureID[uint32](0), false), "backref capture(0)"},
		{ZeroWidth[uint32](KindPushAtomic), "PushAtomic"},
		{Rewind[uint32](3), "rewind 3"},
		{CaptureTest(MakeCaptureID[uint32](1), true), "test not CaptureTest"},
		{Mark(MakeMarkerID[uint32](0)), "mark marker(0)"},
	}
	for _, tt := range tests {
		if got := tt.cond.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
