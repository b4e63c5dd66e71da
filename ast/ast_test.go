package ast

import (
	"testing"

	"github.com/coregx/backrex/charclass"
)

func TestTree_AppendOnly(t *testing.T) {
	tr := NewTree()
	if tr.Len() != 0 {
		t.Fatalf("new tree Len() = %d, want 0", tr.Len())
	}
	if !tr.Root().IsNone() {
		t.Fatal("new tree should have no root")
	}

	a := tr.AddString("a")
	b := tr.AddString("b")
	seq := tr.AddSequence(a, b)
	tr.SetRoot(seq)

	if tr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tr.Len())
	}
	if tr.Root() != seq {
		t.Fatalf("Root() = %v, want %v", tr.Root(), seq)
	}

	n := tr.Node(seq)
	if n.Kind() != KindSequence {
		t.Fatalf("Kind() = %v, want %v", n.Kind(), KindSequence)
	}
	if cs := n.Children(); len(cs) != 2 || cs[0] != a || cs[1] != b {
		t.Fatalf("Children() = %v, want [%v %v]", cs, a, b)
	}
}

func TestTree_NodeInvalidRef(t *testing.T) {
	tr := NewTree()
	tr.AddString("x")
	if tr.Node(None) != nil {
		t.Error("Node(None) should be nil")
	}
	if tr.Node(NodeRef(99)) != nil {
		t.Error("Node(out of range) should be nil")
	}
}

func TestTree_LiteralCopiesRunes(t *testing.T) {
	tr := NewTree()
	rs := []rune{'a', 'b'}
	ref := tr.AddLiteral(rs, true)
	rs[0] = 'z'

	n := tr.Node(ref)
	if got := n.Runes(); string(got) != "ab" {
		t.Errorf("Runes() = %q, want %q", string(got), "ab")
	}
	if !n.FoldCase() {
		t.Error("FoldCase() = false, want true")
	}
}

func TestTree_NodeAccessors(t *testing.T) {
	tr := NewTree()
	word := charclass.New(charclass.Range{Lo: 'a', Hi: 'z'})

	t.Run("repetition", func(t *testing.T) {
		lit := tr.AddString("a")
		rep := tr.AddRepetition(lit, 2, Unbounded, Lazy)
		n := tr.Node(rep)
		min, max := n.Bounds()
		if min != 2 || max != Unbounded {
			t.Errorf("Bounds() = (%d, %d), want (2, Unbounded)", min, max)
		}
		if n.Quantifier() != Lazy {
			t.Errorf("Quantifier() = %v, want Lazy", n.Quantifier())
		}
		if n.Child() != lit {
			t.Errorf("Child() = %v, want %v", n.Child(), lit)
		}
	})

	t.Run("capture", func(t *testing.T) {
		lit := tr.AddString("a")
		grp := tr.AddCapture(lit, "year")
		n := tr.Node(grp)
		if n.Kind() != KindGroup || !n.Capturing() || n.Name() != "year" {
			t.Errorf("capture = kind %v capturing %v name %q", n.Kind(), n.Capturing(), n.Name())
		}
	})

	t.Run("non-capturing group", func(t *testing.T) {
		lit := tr.AddString("a")
		grp := tr.AddGroup(lit)
		if n := tr.Node(grp); n.Capturing() {
			t.Error("AddGroup should not capture")
		}
	})

	t.Run("class assertion sense", func(t *testing.T) {
		b := tr.Node(tr.AddClassAssertion(word, true))
		if b.Negate() {
			t.Error("\\b-like assertion should not be negated")
		}
		nb := tr.Node(tr.AddClassAssertion(word, false))
		if !nb.Negate() {
			t.Error("\\B-like assertion should be negated")
		}
	})

	t.Run("lookbehind", func(t *testing.T) {
		lit := tr.AddString("ab")
		lb := tr.Node(tr.AddLookbehind(lit, true, 2))
		if !lb.Behind() || !lb.Negate() || lb.Width() != 2 {
			t.Errorf("lookbehind = behind %v negate %v width %d", lb.Behind(), lb.Negate(), lb.Width())
		}
		la := tr.Node(tr.AddLookahead(lit, false))
		if la.Behind() || la.Negate() {
			t.Errorf("lookahead = behind %v negate %v", la.Behind(), la.Negate())
		}
	})

	t.Run("backreferences", func(t *testing.T) {
		n := tr.Node(tr.AddBackreference(2, true))
		if n.Group() != 2 || !n.FoldCase() || n.Name() != "" {
			t.Errorf("numbered backref = group %d fold %v name %q", n.Group(), n.FoldCase(), n.Name())
		}
		m := tr.Node(tr.AddNamedBackreference("x", false))
		if m.Group() != 0 || m.Name() != "x" {
			t.Errorf("named backref = group %d name %q", m.Group(), m.Name())
		}
	})

	t.Run("conditional", func(t *testing.T) {
		yes := tr.AddString("y")
		cond := tr.AddConditional(CondCaptureTest, 1, "", yes, None)
		n := tr.Node(cond)
		if n.CondKind() != CondCaptureTest || n.Group() != 1 {
			t.Errorf("conditional = kind %v group %d", n.CondKind(), n.Group())
		}
		gotYes, gotNo := n.Branches()
		if gotYes != yes || !gotNo.IsNone() {
			t.Errorf("Branches() = (%v, %v), want (%v, None)", gotYes, gotNo, yes)
		}
	})

	t.Run("define", func(t *testing.T) {
		body := tr.AddCapture(tr.AddString("a"), "f")
		def := tr.Node(tr.AddDefine(body))
		if def.Kind() != KindConditional || def.CondKind() != CondDefine {
			t.Errorf("define = kind %v condkind %v", def.Kind(), def.CondKind())
		}
	})

	t.Run("verb", func(t *testing.T) {
		n := tr.Node(tr.AddVerb(VerbMark, "hot"))
		if n.Verb() != VerbMark || n.Marker() != "hot" {
			t.Errorf("verb = %v marker %q", n.Verb(), n.Marker())
		}
	})
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindLiteral, "Literal"},
		{KindAlternative, "Alternative"},
		{KindResetMatchStart, "ResetMatchStart"},
		{Kind(200), "Unknown(200)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestAnalyze(t *testing.T) {
	t.Run("empty tree", func(t *testing.T) {
		if got := Analyze(NewTree()); got.CaptureCount != 0 {
			t.Errorf("CaptureCount = %d, want 0", got.CaptureCount)
		}
	})

	t.Run("counts capturing groups only", func(t *testing.T) {
		tr := NewTree()
		cap1 := tr.AddCapture(tr.AddString("a"), "")
		plain := tr.AddGroup(tr.AddString("b"))
		cap2 := tr.AddCapture(tr.AddString("c"), "x")
		tr.SetRoot(tr.AddSequence(cap1, plain, cap2))

		if got := Analyze(tr); got.CaptureCount != 2 {
			t.Errorf("CaptureCount = %d, want 2", got.CaptureCount)
		}
	})

	t.Run("walks conditionals and lookarounds", func(t *testing.T) {
		tr := NewTree()
		inCond := tr.AddCapture(tr.AddString("y"), "")
		look := tr.AddLookahead(tr.AddCapture(tr.AddString("p"), ""), false)
		cond := tr.AddAssertionConditional(look, inCond, None)
		def := tr.AddDefine(tr.AddCapture(tr.AddString("d"), "f"))
		tr.SetRoot(tr.AddSequence(cond, def))

		if got := Analyze(tr); got.CaptureCount != 3 {
			t.Errorf("CaptureCount = %d, want 3", got.CaptureCount)
		}
	})

	t.Run("shared node counted once", func(t *testing.T) {
		tr := NewTree()
		cap := tr.AddCapture(tr.AddString("a"), "")
		tr.SetRoot(tr.AddSequence(cap, cap))

		if got := Analyze(tr); got.CaptureCount != 1 {
			t.Errorf("CaptureCount = %d, want 1", got.CaptureCount)
		}
	})
}
