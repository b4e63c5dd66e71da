// Package ast defines the syntax tree contract between the regex parser and
// the automaton compiler.
//
// The parser owns construction: it appends typed nodes into a Tree arena and
// hands the compiler the tree plus an Analysis. The compiler reads nodes only
// through Tree.Node and never mutates them. Node is a single flat record with
// a Kind tag; which fields are meaningful depends on the kind.
package ast

import (
	"fmt"
)

// NodeRef identifies a node within a Tree.
type NodeRef uint32

// None is the invalid/absent node reference.
const None NodeRef = 0xFFFFFFFF

// IsNone reports whether the reference is absent.
func (r NodeRef) IsNone() bool {
	return r == None
}

// Kind identifies the type of an AST node and determines which fields are valid.
type Kind uint8

const (
	// KindError marks a subtree the parser already reported as invalid.
	// The compiler skips it silently.
	KindError Kind = iota

	// KindFeature marks a recognized but unsupported construct.
	// Like KindError it compiles to nothing.
	KindFeature

	// KindLiteral is a codepoint sequence.
	KindLiteral

	// KindCharClass is a single-codepoint class match.
	KindCharClass

	// KindSequence matches its children one after another.
	KindSequence

	// KindAlternative matches any one of its children, preferring earlier ones.
	KindAlternative

	// KindRepetition is a {min,max} quantifier over one child.
	KindRepetition

	// KindGroup is a subexpression, optionally capturing and optionally named.
	KindGroup

	// KindAtomicGroup is a (?>...) group: no backtracking into it once matched.
	KindAtomicGroup

	// KindSimpleAssertion is a zero-width structural assertion (^, $, \A, ...).
	KindSimpleAssertion

	// KindClassAssertion is a generalized word-boundary assertion (\b, \B).
	KindClassAssertion

	// KindLookaround is a look-ahead or look-behind assertion.
	KindLookaround

	// KindBackreference consumes the text last bound to a capture group.
	KindBackreference

	// KindSubroutineCall re-enters a capture group's pattern, possibly recursively.
	KindSubroutineCall

	// KindConditional is a (?(cond)yes|no) sub-pattern.
	KindConditional

	// KindVerb is a backtracking-control verb: (*FAIL), (*MARK:name), (*ACCEPT).
	KindVerb

	// KindResetMatchStart is \K.
	KindResetMatchStart
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindError:
		return "Error"
	case KindFeature:
		return "Feature"
	case KindLiteral:
		return "Literal"
	case KindCharClass:
		return "CharClass"
	case KindSequence:
		return "Sequence"
	case KindAlternative:
		return "Alternative"
	case KindRepetition:
		return "Repetition"
	case KindGroup:
		return "Group"
	case KindAtomicGroup:
		return "AtomicGroup"
	case KindSimpleAssertion:
		return "SimpleAssertion"
	case KindClassAssertion:
		return "ClassAssertion"
	case KindLookaround:
		return "Lookaround"
	case KindBackreference:
		return "Backreference"
	case KindSubroutineCall:
		return "SubroutineCall"
	case KindConditional:
		return "Conditional"
	case KindVerb:
		return "Verb"
	case KindResetMatchStart:
		return "ResetMatchStart"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Assertion identifies a simple zero-width assertion.
type Assertion uint8

const (
	// AssertSubjectStart is \A: the very start of the subject.
	AssertSubjectStart Assertion = iota

	// AssertSubjectEnd is \z: the very end of the subject.
	AssertSubjectEnd

	// AssertSubjectEndOrNewline is \Z: end of subject or before a final newline.
	AssertSubjectEndOrNewline

	// AssertLineStart is ^ in multiline mode.
	AssertLineStart

	// AssertLineEnd is $ in multiline mode.
	AssertLineEnd

	// AssertPriorMatchEnd is \G: where the previous match ended.
	AssertPriorMatchEnd
)

// String returns a human-readable representation of the Assertion.
func (a Assertion) String() string {
	switch a {
	case AssertSubjectStart:
		return `\A`
	case AssertSubjectEnd:
		return `\z`
	case AssertSubjectEndOrNewline:
		return `\Z`
	case AssertLineStart:
		return "^"
	case AssertLineEnd:
		return "$"
	case AssertPriorMatchEnd:
		return `\G`
	default:
		return fmt.Sprintf("Assertion(%d)", a)
	}
}

// Quantifier selects the backtracking preference of a repetition.
type Quantifier uint8

const (
	// Greedy prefers repeating over exiting.
	Greedy Quantifier = iota

	// Lazy prefers exiting over repeating.
	Lazy

	// Possessive repeats greedily and never gives anything back.
	Possessive
)

// Verb identifies a backtracking-control verb.
type Verb uint8

const (
	// VerbFail forces the current match attempt to fail.
	VerbFail Verb = iota

	// VerbMark records a named marker at the current position.
	VerbMark

	// VerbAccept forces immediate overall match success.
	VerbAccept
)

// CondKind identifies what a conditional sub-pattern tests.
type CondKind uint8

const (
	// CondCaptureTest tests whether a capture group has matched.
	// Group or Name on the conditional node selects it.
	CondCaptureTest CondKind = iota

	// CondRecursionTest tests whether execution is inside a subroutine call.
	// Group/Name select a specific group; both unset means "any call".
	CondRecursionTest

	// CondDefine marks a definition-only conditional: the yes branch is never
	// entered at this position, its groups exist only as subroutine targets.
	CondDefine

	// CondAssertion gates the branches on a lookaround node (Cond field).
	CondAssertion
)

// Unbounded is the Max value of a repetition with no upper bound.
const Unbounded = -1
