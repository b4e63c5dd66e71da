package nfa

import (
	"fmt"

	"github.com/coregx/backrex/ast"
	"github.com/coregx/backrex/charclass"
)

// ConditionKind identifies what a matcher must do to traverse a transition.
// The set is closed: every dispatch site switches exhaustively over it.
type ConditionKind uint8

const (
	// KindLiteral consumes an exact codepoint sequence. An empty sequence is
	// the epsilon transition: it consumes nothing and always succeeds.
	KindLiteral ConditionKind = iota

	// KindCharClass consumes one codepoint contained in (or, negated, outside
	// of) a range set.
	KindCharClass

	// KindSimpleAssertion succeeds iff a structural condition holds at the
	// current position (start/end of subject or line, ...). Zero-width.
	KindSimpleAssertion

	// KindClassAssertion is a generalized word boundary: previous-in-class
	// XOR next-in-class must equal the boundary sense. Zero-width.
	KindClassAssertion

	// KindCaptureBegin records the current position as the open bound of a
	// capture. Zero-width.
	KindCaptureBegin

	// KindCaptureEnd records the current position as the close bound of the
	// most recently opened capture and marks it matched. Zero-width.
	KindCaptureEnd

	// KindBackreference consumes the text bound to an already-closed capture.
	KindBackreference

	// KindNamedBackreference consumes the text of whichever capture sharing
	// the name closed most recently.
	KindNamedBackreference

	// KindJump is a subroutine call: push Return on the call stack and
	// continue from Target, the callee group's entry state. Zero-width.
	KindJump

	// KindResetMatchStart redefines the reported match start (\K). Zero-width.
	KindResetMatchStart

	// KindPushAtomic opens an atomic bracket. Zero-width.
	KindPushAtomic

	// KindPopAtomic discards every choice point created since the matching
	// KindPushAtomic. Zero-width.
	KindPopAtomic

	// KindPushCheckpoint saves the input cursor before a lookaround body.
	// Zero-width.
	KindPushCheckpoint

	// KindRestoreCheckpoint restores the cursor saved by the matching
	// KindPushCheckpoint. Zero-width.
	KindRestoreCheckpoint

	// KindPushPosition saves the cursor entering a repetition body. Zero-width.
	KindPushPosition

	// KindCheckInfiniteLoop pops the position saved by KindPushPosition and
	// is traversable only if the cursor advanced since. Zero-width.
	KindCheckInfiniteLoop

	// KindRewind moves the cursor backward by Count codepoints (fixed-width
	// look-behind). Zero-width.
	KindRewind

	// KindAnyRecursion tests whether execution is inside any subroutine call.
	KindAnyRecursion

	// KindRecursion tests whether execution is inside a call to a specific group.
	KindRecursion

	// KindNamedRecursion tests whether execution is inside a call to any group
	// with a given name.
	KindNamedRecursion

	// KindCaptureTest tests whether a capture has closed at least once.
	KindCaptureTest

	// KindNamedCaptureTest tests whether any capture with a given name has
	// closed at least once.
	KindNamedCaptureTest

	// KindMark records a marker as most recently encountered. Zero-width.
	KindMark
)

// String returns a human-readable representation of the ConditionKind.
func (k ConditionKind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"
	case KindCharClass:
		return "CharClass"
	case KindSimpleAssertion:
		return "SimpleAssertion"
	case KindClassAssertion:
		return "ClassAssertion"
	case KindCaptureBegin:
		return "CaptureBegin"
	case KindCaptureEnd:
		return "CaptureEnd"
	case KindBackreference:
		return "Backreference"
	case KindNamedBackreference:
		return "NamedBackreference"
	case KindJump:
		return "Jump"
	case KindResetMatchStart:
		return "ResetMatchStart"
	case KindPushAtomic:
		return "PushAtomic"
	case KindPopAtomic:
		return "PopAtomic"
	case KindPushCheckpoint:
		return "PushCheckpoint"
	case KindRestoreCheckpoint:
		return "RestoreCheckpoint"
	case KindPushPosition:
		return "PushPosition"
	case KindCheckInfiniteLoop:
		return "CheckInfiniteLoop"
	case KindRewind:
		return "Rewind"
	case KindAnyRecursion:
		return "AnyRecursion"
	case KindRecursion:
		return "Recursion"
	case KindNamedRecursion:
		return "NamedRecursion"
	case KindCaptureTest:
		return "CaptureTest"
	case KindNamedCaptureTest:
		return "NamedCaptureTest"
	case KindMark:
		return "Mark"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Condition describes what traversing a transition means to the matcher.
// It is one flat record: the Kind tag determines which fields are meaningful.
// Handle fields of kinds that do not use them hold the invalid sentinel.
type Condition[S Size] struct {
	Kind ConditionKind

	// Runes is the codepoint sequence of a Literal. Empty means epsilon.
	Runes []rune

	// Class is the range set of a CharClass or ClassAssertion.
	Class charclass.Set

	// Assert is the structural condition of a SimpleAssertion.
	Assert ast.Assertion

	// Capture is the referenced group of capture, backreference, jump,
	// recursion-test and capture-test conditions.
	Capture CaptureID[S]

	// Name is the referenced name of named backreference, named recursion
	// and named capture-test conditions.
	Name NameID[S]

	// Marker is the marker recorded by a Mark condition.
	Marker MarkerID[S]

	// Target is the callee entry state of a Jump. Patched after emission
	// when the callee is a forward reference.
	Target StateID[S]

	// Return is the state a Jump resumes at when the callee's end state is
	// reached. Always the transition's own target.
	Return StateID[S]

	// Count is the codepoint count of a Rewind.
	Count int

	// FoldCase makes literals, classes and backreferences case-insensitive.
	FoldCase bool

	// Negate inverts class containment, flips a ClassAssertion to \B sense,
	// and negates the recursion/capture predicate kinds (the "no" branch of
	// a conditional tests the negated predicate).
	Negate bool
}

// blank returns a condition of the given kind with all handles invalid.
func blank[S Size](kind ConditionKind) Condition[S] {
	return Condition[S]{
		Kind:    kind,
		Capture: NoCapture[S](),
		Name:    NoName[S](),
		Marker:  NoMarker[S](),
		Target:  NoState[S](),
		Return:  NoState[S](),
	}
}

// ZeroWidth builds a condition for the payload-free zero-width kinds
// (atomic/checkpoint/position brackets and ResetMatchStart).
func ZeroWidth[S Size](kind ConditionKind) Condition[S] {
	return blank[S](kind)
}

// Epsilon builds the always-succeeding zero-width condition: an empty literal.
func Epsilon[S Size]() Condition[S] {
	return blank[S](KindLiteral)
}

// Literal builds a condition consuming the given codepoint sequence.
func Literal[S Size](runes []rune, foldCase bool) Condition[S] {
	c := blank[S](KindLiteral)
	c.Runes = runes
	c.FoldCase = foldCase
	return c
}

// CharClass builds a condition consuming one codepoint from a range set.
func CharClass[S Size](class charclass.Set, negate, foldCase bool) Condition[S] {
	c := blank[S](KindCharClass)
	c.Class = class
	c.Negate = negate
	c.FoldCase = foldCase
	return c
}

// SimpleAssertion builds a zero-width structural assertion condition.
func SimpleAssertion[S Size](a ast.Assertion) Condition[S] {
	c := blank[S](KindSimpleAssertion)
	c.Assert = a
	return c
}

// ClassAssertion builds a generalized word-boundary condition. boundary true
// demands a class boundary at the position (\b); false demands the absence
// of one (\B).
func ClassAssertion[S Size](class charclass.Set, boundary bool) Condition[S] {
	c := blank[S](KindClassAssertion)
	c.Class = class
	c.Negate = !boundary
	return c
}

// CaptureBegin builds the open-bound recording condition for a capture.
func CaptureBegin[S Size](capture CaptureID[S]) Condition[S] {
	c := blank[S](KindCaptureBegin)
	c.Capture = capture
	return c
}

// CaptureEnd builds the close-bound recording condition. It carries no
// capture handle: it closes the most recently opened capture scope.
func CaptureEnd[S Size]() Condition[S] {
	return blank[S](KindCaptureEnd)
}

// Backreference builds a numbered backreference condition.
func Backreference[S Size](capture CaptureID[S], foldCase bool) Condition[S] {
	c := blank[S](KindBackreference)
	c.Capture = capture
	c.FoldCase = foldCase
	return c
}

// NamedBackreference builds a named backreference condition.
func NamedBackreference[S Size](name NameID[S], foldCase bool) Condition[S] {
	c := blank[S](KindNamedBackreference)
	c.Name = name
	c.FoldCase = foldCase
	return c
}

// Jump builds a subroutine call condition. target may be the invalid
// sentinel when the callee is a forward reference still to be patched.
func Jump[S Size](capture CaptureID[S], target, ret StateID[S]) Condition[S] {
	c := blank[S](KindJump)
	c.Capture = capture
	c.Target = target
	c.Return = ret
	return c
}

// Rewind builds a cursor rewind condition for fixed-width look-behind.
func Rewind[S Size](count int) Condition[S] {
	c := blank[S](KindRewind)
	c.Count = count
	return c
}

// AnyRecursion builds the "inside any subroutine call" predicate.
func AnyRecursion[S Size](negate bool) Condition[S] {
	c := blank[S](KindAnyRecursion)
	c.Negate = negate
	return c
}

// Recursion builds the "inside a call to this group" predicate.
func Recursion[S Size](capture CaptureID[S], negate bool) Condition[S] {
	c := blank[S](KindRecursion)
	c.Capture = capture
	c.Negate = negate
	return c
}

// NamedRecursion builds the "inside a call to a group with this name" predicate.
func NamedRecursion[S Size](name NameID[S], negate bool) Condition[S] {
	c := blank[S](KindNamedRecursion)
	c.Name = name
	c.Negate = negate
	return c
}

// CaptureTest builds the "capture has closed" predicate.
func CaptureTest[S Size](capture CaptureID[S], negate bool) Condition[S] {
	c := blank[S](KindCaptureTest)
	c.Capture = capture
	c.Negate = negate
	return c
}

// NamedCaptureTest builds the "any capture with this name has closed" predicate.
func NamedCaptureTest[S Size](name NameID[S], negate bool) Condition[S] {
	c := blank[S](KindNamedCaptureTest)
	c.Name = name
	c.Negate = negate
	return c
}

// Mark builds a marker recording condition.
func Mark[S Size](marker MarkerID[S]) Condition[S] {
	c := blank[S](KindMark)
	c.Marker = marker
	return c
}

// IsEpsilon reports whether the condition is the empty literal.
func (c Condition[S]) IsEpsilon() bool {
	return c.Kind == KindLiteral && len(c.Runes) == 0
}

// String returns a compact human-readable representation of the condition.
func (c Condition[S]) String() string {
	switch c.Kind {
	case KindLiteral:
		if len(c.Runes) == 0 {
			return "eps"
		}
		return fmt.Sprintf("lit %q", string(c.Runes))
	case KindCharClass:
		if c.Negate {
			return "class not " + c.Class.String()
		}
		return "class " + c.Class.String()
	case KindSimpleAssertion:
		return "assert " + c.Assert.String()
	case KindClassAssertion:
		if c.Negate {
			return "not-boundary " + c.Class.String()
		}
		return "boundary " + c.Class.String()
	case KindCaptureBegin:
		return fmt.Sprintf("begin %s", c.Capture)
	case KindCaptureEnd:
		return "end capture"
	case KindBackreference:
		return fmt.Sprintf("backref %s", c.Capture)
	case KindNamedBackreference:
		return fmt.Sprintf("backref %s", c.Name)
	case KindJump:
		return fmt.Sprintf("jump %s -> %s ret %s", c.Capture, c.Target, c.Return)
	case KindMark:
		return fmt.Sprintf("mark %s", c.Marker)
	case KindRewind:
		return fmt.Sprintf("rewind %d", c.Count)
	case KindAnyRecursion, KindRecursion, KindNamedRecursion,
		KindCaptureTest, KindNamedCaptureTest:
		if c.Negate {
			return "test not " + c.Kind.String()
		}
		return "test " + c.Kind.String()
	default:
		return c.Kind.String()
	}
}

// Transition is a directed edge: traverse it by satisfying Cond, then
// continue at Target. A state's transitions are tried in insertion order;
// that order encodes alternation preference and greediness.
type Transition[S Size] struct {
	Cond   Condition[S]
	Target StateID[S]
}

// convertCondition re-indexes every handle a condition carries.
func convertCondition[To, From Size](c Condition[From]) Condition[To] {
	return Condition[To]{
		Kind:     c.Kind,
		Runes:    c.Runes,
		Class:    c.Class,
		Assert:   c.Assert,
		Capture:  ConvertCapture[To](c.Capture),
		Name:     ConvertName[To](c.Name),
		Marker:   ConvertMarker[To](c.Marker),
		Target:   ConvertState[To](c.Target),
		Return:   ConvertState[To](c.Return),
		Count:    c.Count,
		FoldCase: c.FoldCase,
		Negate:   c.Negate,
	}
}

// convertTransition re-indexes a transition and its condition.
func convertTransition[To, From Size](t Transition[From]) Transition[To] {
	return Transition[To]{
		Cond:   convertCondition[To](t.Cond),
		Target: ConvertState[To](t.Target),
	}
}
