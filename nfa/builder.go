package nfa

import (
	"fmt"
	"sort"
)

// builderState is a state under construction: just the ordered list of its
// transitions. Order is load-bearing — a backtracking matcher tries a
// state's transitions in exactly this order, so alternation preference and
// greediness are encoded here and nowhere else.
type builderState struct {
	transitions []TransitionID[uint32]
}

// Builder is the half-compiled automaton: a growable state/transition arena
// plus the named-capture registry and marker table. It is mutation-only
// during compilation and consumed by Finalize. All indices are uint32;
// handles are arena indices and stay valid across growth.
type Builder struct {
	states      []builderState
	transitions []Transition[uint32]
	names       *CaptureNames[uint32]
	markers     []string
	start, end  StateID[uint32]
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		names: newCaptureNames[uint32](nil),
		start: NoState[uint32](),
		end:   NoState[uint32](),
	}
}

// CreateState appends a state with an empty transition range and returns
// its handle.
func (b *Builder) CreateState() StateID[uint32] {
	id := MakeStateID[uint32](len(b.states))
	b.states = append(b.states, builderState{})
	return id
}

// CreateTransition appends a transition from one state to another and
// returns its handle. The transition is tried after every transition
// previously created from the same source state.
func (b *Builder) CreateTransition(from, to StateID[uint32], cond Condition[uint32]) TransitionID[uint32] {
	id := MakeTransitionID[uint32](len(b.transitions))
	b.transitions = append(b.transitions, Transition[uint32]{Cond: cond, Target: to})
	b.states[from.Index()].transitions = append(b.states[from.Index()].transitions, id)
	return id
}

// Transition returns a mutable reference to a transition, used to patch
// deferred subroutine jump targets. The pointer is valid until the next
// CreateTransition call. Returns nil for an invalid handle.
func (b *Builder) Transition(id TransitionID[uint32]) *Transition[uint32] {
	if id.IsNone() || id.Index() >= len(b.transitions) {
		return nil
	}
	return &b.transitions[id.Index()]
}

// TransitionsOf returns the ordered transition handles of a state.
// The returned slice must not be modified.
func (b *Builder) TransitionsOf(s StateID[uint32]) []TransitionID[uint32] {
	if s.IsNone() || s.Index() >= len(b.states) {
		return nil
	}
	return b.states[s.Index()].transitions
}

// SetStarts designates the automaton's start and end states.
func (b *Builder) SetStarts(start, end StateID[uint32]) {
	b.start = start
	b.end = end
}

// Start returns the designated start state.
func (b *Builder) Start() StateID[uint32] { return b.start }

// End returns the designated end state.
func (b *Builder) End() StateID[uint32] { return b.end }

// SetNameTable installs the capture name table. Names are sorted and
// deduplicated; NameIDs issued afterwards index the normalized table, so
// the table must be installed before any Lookup or RegisterCapture call.
func (b *Builder) SetNameTable(names []string) {
	b.names = newCaptureNames[uint32](sortUnique(names))
}

// Names returns the named-capture registry.
func (b *Builder) Names() *CaptureNames[uint32] { return b.names }

// RegisterCapture records a capture in the registry. Captures must be
// registered in ascending index order; name is the invalid sentinel for
// unnamed groups.
func (b *Builder) RegisterCapture(capture CaptureID[uint32], name NameID[uint32]) {
	b.names.register(capture, name)
}

// SetMarkerNames installs the marker table. Names are sorted and
// deduplicated; a MarkerID is an index into the normalized table.
func (b *Builder) SetMarkerNames(names []string) {
	b.markers = sortUnique(names)
}

// LookupMarker resolves a marker name by binary search, or returns the
// invalid sentinel if the name is not in the table.
func (b *Builder) LookupMarker(name string) MarkerID[uint32] {
	i := sort.SearchStrings(b.markers, name)
	if i < len(b.markers) && b.markers[i] == name {
		return MakeMarkerID[uint32](i)
	}
	return NoMarker[uint32]()
}

// MarkerName returns the name for a marker handle.
func (b *Builder) MarkerName(id MarkerID[uint32]) string {
	if id.IsNone() || id.Index() >= len(b.markers) {
		return ""
	}
	return b.markers[id.Index()]
}

// StateCount returns the number of states created so far.
func (b *Builder) StateCount() int { return len(b.states) }

// TransitionCount returns the number of transitions created so far.
func (b *Builder) TransitionCount() int { return len(b.transitions) }

// CaptureCount returns the number of registered captures.
func (b *Builder) CaptureCount() int { return b.names.CaptureCount() }

// MarkerCount returns the number of marker names.
func (b *Builder) MarkerCount() int { return len(b.markers) }

// Validate checks that the automaton is well-formed: start and end are set
// and every transition target (including jump callee targets) is in bounds.
func (b *Builder) Validate() error {
	if b.start.IsNone() {
		return &BuildError{Message: "start state not set", State: NoState[uint32]()}
	}
	if b.end.IsNone() {
		return &BuildError{Message: "end state not set", State: NoState[uint32]()}
	}
	for s := range b.states {
		for _, id := range b.states[s].transitions {
			t := b.Transition(id)
			if t.Target.IsNone() || t.Target.Index() >= len(b.states) {
				return &BuildError{
					Message: fmt.Sprintf("transition %d has invalid target %s", id.Index(), t.Target),
					State:   MakeStateID[uint32](s),
				}
			}
			if t.Cond.Kind == KindJump {
				if t.Cond.Target.IsNone() || t.Cond.Target.Index() >= len(b.states) {
					return &BuildError{
						Message: fmt.Sprintf("jump transition %d has invalid callee %s", id.Index(), t.Cond.Target),
						State:   MakeStateID[uint32](s),
					}
				}
			}
		}
	}
	return nil
}

// sortUnique returns a sorted copy of names with duplicates removed.
func sortUnique(names []string) []string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	unique := sorted[:0]
	for _, n := range sorted {
		if len(unique) == 0 || unique[len(unique)-1] != n {
			unique = append(unique, n)
		}
	}
	return unique
}
