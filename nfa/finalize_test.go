package nfa

import (
	"errors"
	"testing"

	"github.com/coregx/backrex/ast"
	"github.com/coregx/backrex/charclass"
)

func charclassDigit() charclass.Set {
	return charclass.New(charclass.Range{Lo: '0', Hi: '9'})
}

// datePattern builds a tree exercising captures, names, alternation and
// repetition: (?<y>\d{4})-(?<m>\d{2})(?:-(?<d>\d{2}))?
func datePattern(tr *ast.Tree) ast.NodeRef {
	digit := charclassDigit()
	year := tr.AddCapture(tr.AddRepetition(tr.AddCharClass(digit, false, false), 4, 4, ast.Greedy), "y")
	month := tr.AddCapture(tr.AddRepetition(tr.AddCharClass(digit, false, false), 2, 2, ast.Greedy), "m")
	day := tr.AddCapture(tr.AddRepetition(tr.AddCharClass(digit, false, false), 2, 2, ast.Greedy), "d")
	tail := tr.AddRepetition(tr.AddSequence(tr.AddString("-"), day), 0, 1, ast.Greedy)
	return tr.AddSequence(year, tr.AddString("-"), month, tail)
}

func TestFinalize_Machine(t *testing.T) {
	b := mustCompile(t, datePattern)
	states, transitions := b.StateCount(), b.TransitionCount()

	m, err := Finalize[uint32](b)
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	if m.StateCount() != states || m.TransitionCount() != transitions {
		t.Fatalf("machine counts = (%d, %d), builder had (%d, %d)",
			m.StateCount(), m.TransitionCount(), states, transitions)
	}
	if m.StartState().IsNone() || m.EndState().IsNone() {
		t.Fatal("start/end lost in finalization")
	}
	if m.CaptureCount() != 3 {
		t.Fatalf("CaptureCount() = %d, want 3", m.CaptureCount())
	}
	names := m.NamedCaptures()
	for _, want := range []string{"y", "m", "d"} {
		if names.Lookup(want).IsNone() {
			t.Errorf("name %q lost in finalization", want)
		}
	}
}

// Finalizing the same half-compiled automaton at two widths must give
// machines identical up to handle width.
func TestFinalize_WidthIsomorphism(t *testing.T) {
	wide, err := Finalize[uint32](mustCompile(t, datePattern))
	if err != nil {
		t.Fatalf("Finalize[uint32]() error: %v", err)
	}
	narrow, err := Finalize[uint16](mustCompile(t, datePattern))
	if err != nil {
		t.Fatalf("Finalize[uint16]() error: %v", err)
	}

	if wide.StateCount() != narrow.StateCount() || wide.TransitionCount() != narrow.TransitionCount() {
		t.Fatalf("counts diverge: (%d, %d) vs (%d, %d)",
			wide.StateCount(), wide.TransitionCount(), narrow.StateCount(), narrow.TransitionCount())
	}
	if wide.StartState().Index() != narrow.StartState().Index() {
		t.Fatal("start states diverge")
	}
	for s := 0; s < wide.StateCount(); s++ {
		wts := wide.Transitions(MakeStateID[uint32](s))
		nts := narrow.Transitions(MakeStateID[uint16](s))
		if len(wts) != len(nts) {
			t.Fatalf("state %d: %d vs %d transitions", s, len(wts), len(nts))
		}
		for i := range wts {
			w, n := wts[i], nts[i]
			if w.Cond.Kind != n.Cond.Kind || w.Target.Index() != n.Target.Index() {
				t.Fatalf("state %d transition %d: (%v -> %d) vs (%v -> %d)",
					s, i, w.Cond.Kind, w.Target.Index(), n.Cond.Kind, n.Target.Index())
			}
			if w.Cond.Capture.Index() != n.Cond.Capture.Index() && !(w.Cond.Capture.IsNone() && n.Cond.Capture.IsNone()) {
				t.Fatalf("state %d transition %d: capture handles diverge", s, i)
			}
		}
	}
}

func TestFinalize_TransitionOrderPreserved(t *testing.T) {
	b := mustCompile(t, func(tr *ast.Tree) ast.NodeRef {
		return tr.AddAlternative(tr.AddString("a"), tr.AddString("b"), tr.AddString("c"))
	})
	m, err := Finalize[uint32](b)
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	ts := m.Transitions(m.StartState())
	if len(ts) != 3 {
		t.Fatalf("start transitions = %d, want 3", len(ts))
	}
	for i, want := range []string{"a", "b", "c"} {
		if string(ts[i].Cond.Runes) != want {
			t.Errorf("transition %d = %q, want %q", i, string(ts[i].Cond.Runes), want)
		}
	}
}

func TestFitsIn(t *testing.T) {
	small := NewBuilder()
	s0 := small.CreateState()
	s1 := small.CreateState()
	small.CreateTransition(s0, s1, Epsilon[uint32]())
	small.SetStarts(s0, s1)

	if !FitsIn[uint8](small) {
		t.Error("two states should fit uint8")
	}

	big := NewBuilder()
	for i := 0; i < 300; i++ {
		big.CreateState()
	}
	if FitsIn[uint8](big) {
		t.Error("300 states should not fit uint8")
	}
	if !FitsIn[uint16](big) {
		t.Error("300 states should fit uint16")
	}
}

func TestFinalize_MisfitPanics(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 300; i++ {
		b.CreateState()
	}
	b.SetStarts(MakeStateID[uint32](0), MakeStateID[uint32](1))

	defer func() {
		if recover() == nil {
			t.Error("Finalize at too-narrow width should panic")
		}
	}()
	_, _ = Finalize[uint8](b)
}

func TestFinalize_ValidateError(t *testing.T) {
	b := NewBuilder()
	b.CreateState()

	_, err := Finalize[uint32](b)
	var berr *BuildError
	if !errors.As(err, &berr) {
		t.Fatalf("Finalize() = %v, want *BuildError", err)
	}
}

func TestMachine_InvalidHandles(t *testing.T) {
	m, err := Finalize[uint32](mustCompile(t, datePattern))
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if m.Transitions(NoState[uint32]()) != nil {
		t.Error("Transitions of sentinel should be nil")
	}
	if m.MarkerName(NoMarker[uint32]()) != "" {
		t.Error("MarkerName of sentinel should be empty")
	}
}
