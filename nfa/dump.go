package nfa

import (
	"fmt"
	"io"
)

// Dump writes the machine as a Graphviz DOT graph: one node per state, one
// labeled edge per transition in priority order. Purely diagnostic; the
// matcher contract is the accessor API, not this text.
func (m *Machine[S]) Dump(w io.Writer) {
	fmt.Fprintf(w, "digraph automaton {\n")
	fmt.Fprintf(w, "  rankdir=LR;\n")
	fmt.Fprintf(w, "  n%d [shape=circle, label=\"start\"];\n", m.start.Index())
	fmt.Fprintf(w, "  n%d [shape=doublecircle, label=\"end\"];\n", m.end.Index())
	for s := 0; s < len(m.states); s++ {
		id := MakeStateID[S](s)
		if id != m.start && id != m.end {
			fmt.Fprintf(w, "  n%d [shape=circle, label=\"%d\"];\n", s, s)
		}
		for i, t := range m.Transitions(id) {
			fmt.Fprintf(w, "  n%d -> n%d [label=%q, taillabel=\"%d\"];\n",
				s, t.Target.Index(), t.Cond.String(), i)
			if t.Cond.Kind == KindJump && !t.Cond.Target.IsNone() {
				fmt.Fprintf(w, "  n%d -> n%d [style=dashed, label=\"call\"];\n",
					s, t.Cond.Target.Index())
			}
		}
	}
	fmt.Fprintf(w, "}\n")
}
