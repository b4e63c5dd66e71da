package nfa

// stateRange is a finalized state: a half-open [first, pastLast) range into
// the machine's flat transition array.
type stateRange[S Size] struct {
	first, pastLast S
}

// Machine is the finalized automaton: the same logical content as the
// Builder it was derived from, flattened into one contiguous transition
// array with per-state index ranges, at the index width S chosen by the
// caller. It is immutable after construction and safe for unsynchronized
// concurrent reads by any number of matcher instances.
type Machine[S Size] struct {
	states      []stateRange[S]
	transitions []Transition[S]
	start, end  StateID[S]
	names       *CaptureNames[S]
	markers     []string
}

// StartState returns the state matching begins at.
func (m *Machine[S]) StartState() StateID[S] { return m.start }

// EndState returns the state whose reach means overall success.
func (m *Machine[S]) EndState() StateID[S] { return m.end }

// Transitions returns a state's transitions in priority order.
// The returned slice aliases the machine and must not be modified.
func (m *Machine[S]) Transitions(s StateID[S]) []Transition[S] {
	if s.IsNone() || s.Index() >= len(m.states) {
		return nil
	}
	r := m.states[s.Index()]
	return m.transitions[r.first:r.pastLast]
}

// NamedCaptures returns the named-capture registry.
func (m *Machine[S]) NamedCaptures() *CaptureNames[S] { return m.names }

// MarkerName returns the name for a marker handle.
func (m *Machine[S]) MarkerName(id MarkerID[S]) string {
	if id.IsNone() || id.Index() >= len(m.markers) {
		return ""
	}
	return m.markers[id.Index()]
}

// MarkerCount returns the number of marker names.
func (m *Machine[S]) MarkerCount() int { return len(m.markers) }

// StateCount returns the number of states.
func (m *Machine[S]) StateCount() int { return len(m.states) }

// TransitionCount returns the total number of transitions.
func (m *Machine[S]) TransitionCount() int { return len(m.transitions) }

// CaptureCount returns the number of capturing groups.
func (m *Machine[S]) CaptureCount() int { return m.names.CaptureCount() }
