package nfa

import (
	"errors"
	"testing"
)

func TestBuilder_StatesAndTransitions(t *testing.T) {
	b := NewBuilder()
	s0 := b.CreateState()
	s1 := b.CreateState()
	s2 := b.CreateState()

	if s0.Index() != 0 || s1.Index() != 1 || s2.Index() != 2 {
		t.Fatalf("state handles = %v %v %v, want dense ascending indices", s0, s1, s2)
	}
	if b.StateCount() != 3 {
		t.Fatalf("StateCount() = %d, want 3", b.StateCount())
	}

	t0 := b.CreateTransition(s0, s1, Literal[uint32]([]rune("a"), false))
	t1 := b.CreateTransition(s0, s2, Epsilon[uint32]())
	t2 := b.CreateTransition(s1, s2, Epsilon[uint32]())

	// Insertion order per source state is the backtracking priority order.
	got := b.TransitionsOf(s0)
	if len(got) != 2 || got[0] != t0 || got[1] != t1 {
		t.Fatalf("TransitionsOf(s0) = %v, want [%v %v]", got, t0, t1)
	}
	if ts := b.TransitionsOf(s2); len(ts) != 0 {
		t.Fatalf("TransitionsOf(s2) = %v, want empty", ts)
	}
	if b.TransitionCount() != 3 {
		t.Fatalf("TransitionCount() = %d, want 3", b.TransitionCount())
	}

	if tr := b.Transition(t2); tr.Target != s2 {
		t.Errorf("Transition(t2).Target = %v, want %v", tr.Target, s2)
	}
	if b.Transition(NoTransition[uint32]()) != nil {
		t.Error("Transition of the sentinel should be nil")
	}
}

func TestBuilder_TransitionPatching(t *testing.T) {
	b := NewBuilder()
	s0 := b.CreateState()
	s1 := b.CreateState()
	callee := b.CreateState()

	id := b.CreateTransition(s0, s1, Jump(NoCapture[uint32](), NoState[uint32](), s1))

	tr := b.Transition(id)
	tr.Cond.Capture = MakeCaptureID[uint32](0)
	tr.Cond.Target = callee

	patched := b.Transition(id)
	if patched.Cond.Target != callee || patched.Cond.Capture.Index() != 0 {
		t.Fatalf("patch did not stick: %+v", patched.Cond)
	}
}

func TestBuilder_NameTable(t *testing.T) {
	b := NewBuilder()
	b.SetNameTable([]string{"z", "a", "z", "m"})

	names := b.Names()
	if names.NameCount() != 3 {
		t.Fatalf("NameCount() = %d, want 3 after dedup", names.NameCount())
	}
	// Sorted table: a < m < z.
	if names.Lookup("a").Index() != 0 || names.Lookup("m").Index() != 1 || names.Lookup("z").Index() != 2 {
		t.Errorf("lookup indices = %v %v %v", names.Lookup("a"), names.Lookup("m"), names.Lookup("z"))
	}

	b.RegisterCapture(MakeCaptureID[uint32](0), names.Lookup("m"))
	if b.CaptureCount() != 1 {
		t.Errorf("CaptureCount() = %d, want 1", b.CaptureCount())
	}
}

func TestBuilder_MarkerTable(t *testing.T) {
	b := NewBuilder()
	b.SetMarkerNames([]string{"late", "early", "late"})

	if b.MarkerCount() != 2 {
		t.Fatalf("MarkerCount() = %d, want 2", b.MarkerCount())
	}
	early := b.LookupMarker("early")
	if early.IsNone() || b.MarkerName(early) != "early" {
		t.Errorf("LookupMarker round trip broken: %v -> %q", early, b.MarkerName(early))
	}
	if !b.LookupMarker("never").IsNone() {
		t.Error("unknown marker should not resolve")
	}
	if b.MarkerName(NoMarker[uint32]()) != "" {
		t.Error("MarkerName of sentinel should be empty")
	}
}

func TestBuilder_Validate(t *testing.T) {
	t.Run("start not set", func(t *testing.T) {
		b := NewBuilder()
		b.CreateState()
		var berr *BuildError
		if err := b.Validate(); !errors.As(err, &berr) {
			t.Fatalf("Validate() = %v, want *BuildError", err)
		}
	})

	t.Run("well-formed", func(t *testing.T) {
		b := NewBuilder()
		s0 := b.CreateState()
		s1 := b.CreateState()
		b.CreateTransition(s0, s1, Epsilon[uint32]())
		b.SetStarts(s0, s1)
		if err := b.Validate(); err != nil {
			t.Fatalf("Validate() = %v, want nil", err)
		}
	})

	t.Run("dangling jump callee", func(t *testing.T) {
		b := NewBuilder()
		s0 := b.CreateState()
		s1 := b.CreateState()
		b.CreateTransition(s0, s1, Jump(MakeCaptureID[uint32](0), NoState[uint32](), s1))
		b.SetStarts(s0, s1)
		var berr *BuildError
		if err := b.Validate(); !errors.As(err, &berr) {
			t.Fatalf("Validate() = %v, want *BuildError", err)
		}
	})
}

func TestCondition_IsEpsilon(t *testing.T) {
	if !Epsilon[uint32]().IsEpsilon() {
		t.Error("Epsilon should be epsilon")
	}
	if Literal[uint32]([]rune("a"), false).IsEpsilon() {
		t.Error("non-empty literal is not epsilon")
	}
	if ZeroWidth[uint32](KindPushAtomic).IsEpsilon() {
		t.Error("push_atomic is zero-width but not epsilon")
	}
}
