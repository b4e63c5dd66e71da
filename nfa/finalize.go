package nfa

import "fmt"

// FitsIn reports whether the builder's state, transition, capture, name and
// marker counts are all representable at index width S. One value per width
// is reserved as the invalid sentinel, so a count must stay strictly below it.
func FitsIn[S Size](b *Builder) bool {
	limit := uint64(none[S]())
	return uint64(b.StateCount()) < limit &&
		uint64(b.TransitionCount()) < limit &&
		uint64(b.CaptureCount()) < limit &&
		uint64(b.Names().NameCount()) < limit &&
		uint64(b.MarkerCount()) < limit
}

// Finalize consumes a builder and produces the immutable machine at index
// width S: one linear pass over the states, appending each state's
// transitions (converted to S) to the flat array and recording the array
// length before and after as the state's range. Every handle valid in the
// builder refers to the same logical entity in the machine.
//
// Selecting a width the builder's counts do not fit is a programming error
// and panics; check FitsIn first when the width is not statically known.
// The builder must not be used after Finalize returns.
func Finalize[S Size](b *Builder) (*Machine[S], error) {
	if !FitsIn[S](b) {
		panic(fmt.Sprintf("nfa: automaton with %d states / %d transitions does not fit target index width",
			b.StateCount(), b.TransitionCount()))
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	m := &Machine[S]{
		states:      make([]stateRange[S], len(b.states)),
		transitions: make([]Transition[S], 0, len(b.transitions)),
		start:       ConvertState[S](b.start),
		end:         ConvertState[S](b.end),
		names:       convertCaptureNames[S](b.names),
		markers:     b.markers,
	}
	for i := range b.states {
		first := S(len(m.transitions))
		for _, id := range b.states[i].transitions {
			m.transitions = append(m.transitions, convertTransition[S](b.transitions[id.Index()]))
		}
		m.states[i] = stateRange[S]{first: first, pastLast: S(len(m.transitions))}
	}
	return m, nil
}
