package nfa

import "fmt"

// Size constrains the index width of an automaton. The builder always works
// at uint32; Finalize converts into whichever width the caller selected.
type Size interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// none is the invalid sentinel for a given width: the maximum representable
// value, which is therefore never a usable index.
func none[S Size]() S {
	var z S
	return ^z
}

// StateID identifies a state in an automaton of index width S.
// The zero value is state 0; use NoState for the invalid sentinel.
type StateID[S Size] struct {
	v S
}

// MakeStateID builds a StateID from a raw index.
func MakeStateID[S Size](i int) StateID[S] {
	return StateID[S]{v: S(i)}
}

// NoState returns the invalid state sentinel.
func NoState[S Size]() StateID[S] {
	return StateID[S]{v: none[S]()}
}

// IsNone reports whether the handle is the invalid sentinel.
func (h StateID[S]) IsNone() bool { return h.v == none[S]() }

// Index returns the raw index. Only meaningful when !IsNone().
func (h StateID[S]) Index() int { return int(h.v) }

// String returns a human-readable representation of the handle.
func (h StateID[S]) String() string {
	if h.IsNone() {
		return "state(none)"
	}
	return fmt.Sprintf("state(%d)", h.v)
}

// TransitionID identifies a transition owned by a Builder.
type TransitionID[S Size] struct {
	v S
}

// MakeTransitionID builds a TransitionID from a raw index.
func MakeTransitionID[S Size](i int) TransitionID[S] {
	return TransitionID[S]{v: S(i)}
}

// NoTransition returns the invalid transition sentinel.
func NoTransition[S Size]() TransitionID[S] {
	return TransitionID[S]{v: none[S]()}
}

// IsNone reports whether the handle is the invalid sentinel.
func (h TransitionID[S]) IsNone() bool { return h.v == none[S]() }

// Index returns the raw index. Only meaningful when !IsNone().
func (h TransitionID[S]) Index() int { return int(h.v) }

// String returns a human-readable representation of the handle.
func (h TransitionID[S]) String() string {
	if h.IsNone() {
		return "transition(none)"
	}
	return fmt.Sprintf("transition(%d)", h.v)
}

// CaptureID identifies a capturing group by its dense 0-based index, assigned
// in the order groups are first compiled.
type CaptureID[S Size] struct {
	v S
}

// MakeCaptureID builds a CaptureID from a raw index.
func MakeCaptureID[S Size](i int) CaptureID[S] {
	return CaptureID[S]{v: S(i)}
}

// NoCapture returns the invalid capture sentinel.
func NoCapture[S Size]() CaptureID[S] {
	return CaptureID[S]{v: none[S]()}
}

// IsNone reports whether the handle is the invalid sentinel.
func (h CaptureID[S]) IsNone() bool { return h.v == none[S]() }

// Index returns the raw index. Only meaningful when !IsNone().
func (h CaptureID[S]) Index() int { return int(h.v) }

// String returns a human-readable representation of the handle.
func (h CaptureID[S]) String() string {
	if h.IsNone() {
		return "capture(none)"
	}
	return fmt.Sprintf("capture(%d)", h.v)
}

// NameID identifies a unique capture name in the sorted name table. Several
// captures may share one name when they sit in mutually exclusive branches.
type NameID[S Size] struct {
	v S
}

// MakeNameID builds a NameID from a raw index.
func MakeNameID[S Size](i int) NameID[S] {
	return NameID[S]{v: S(i)}
}

// NoName returns the invalid name sentinel. Unnamed captures map to it.
func NoName[S Size]() NameID[S] {
	return NameID[S]{v: none[S]()}
}

// IsNone reports whether the handle is the invalid sentinel.
func (h NameID[S]) IsNone() bool { return h.v == none[S]() }

// Index returns the raw index. Only meaningful when !IsNone().
func (h NameID[S]) Index() int { return int(h.v) }

// String returns a human-readable representation of the handle.
func (h NameID[S]) String() string {
	if h.IsNone() {
		return "name(none)"
	}
	return fmt.Sprintf("name(%d)", h.v)
}

// MarkerID identifies a backtracking-verb marker name: its index in the
// sorted, deduplicated marker table.
type MarkerID[S Size] struct {
	v S
}

// MakeMarkerID builds a MarkerID from a raw index.
func MakeMarkerID[S Size](i int) MarkerID[S] {
	return MarkerID[S]{v: S(i)}
}

// NoMarker returns the invalid marker sentinel.
func NoMarker[S Size]() MarkerID[S] {
	return MarkerID[S]{v: none[S]()}
}

// IsNone reports whether the handle is the invalid sentinel.
func (h MarkerID[S]) IsNone() bool { return h.v == none[S]() }

// Index returns the raw index. Only meaningful when !IsNone().
func (h MarkerID[S]) Index() int { return int(h.v) }

// String returns a human-readable representation of the handle.
func (h MarkerID[S]) String() string {
	if h.IsNone() {
		return "marker(none)"
	}
	return fmt.Sprintf("marker(%d)", h.v)
}

// convertIndex narrows or widens a raw index, remapping the sentinel.
// A valid value that does not fit the target width (or would collide with
// its sentinel) is a programming error: callers must check FitsIn first.
func convertIndex[To, From Size](v From) To {
	if v == none[From]() {
		return none[To]()
	}
	to := To(v)
	if From(to) != v || to == none[To]() {
		panic(fmt.Sprintf("nfa: index %d does not fit target width", uint64(v)))
	}
	return to
}

// ConvertState converts a state handle to another index width.
func ConvertState[To, From Size](h StateID[From]) StateID[To] {
	return StateID[To]{v: convertIndex[To](h.v)}
}

// ConvertTransition converts a transition handle to another index width.
func ConvertTransition[To, From Size](h TransitionID[From]) TransitionID[To] {
	return TransitionID[To]{v: convertIndex[To](h.v)}
}

// ConvertCapture converts a capture handle to another index width.
func ConvertCapture[To, From Size](h CaptureID[From]) CaptureID[To] {
	return CaptureID[To]{v: convertIndex[To](h.v)}
}

// ConvertName converts a name handle to another index width.
func ConvertName[To, From Size](h NameID[From]) NameID[To] {
	return NameID[To]{v: convertIndex[To](h.v)}
}

// ConvertMarker converts a marker handle to another index width.
func ConvertMarker[To, From Size](h MarkerID[From]) MarkerID[To] {
	return MarkerID[To]{v: convertIndex[To](h.v)}
}
