package ast

// Analysis carries facts the parser precomputes for the compiler.
type Analysis struct {
	// CaptureCount is the number of capturing groups in the tree.
	// Capture indices are dense in [0, CaptureCount).
	CaptureCount int
}

// Analyze walks the tree and produces its Analysis. Parsers that track
// capture counts during parsing can fill the struct directly instead.
func Analyze(t *Tree) Analysis {
	var a Analysis
	if t == nil || t.Root().IsNone() {
		return a
	}
	seen := make(map[NodeRef]bool)
	var walk func(ref NodeRef)
	walk = func(ref NodeRef) {
		n := t.Node(ref)
		if n == nil || seen[ref] {
			return
		}
		seen[ref] = true
		if n.Kind() == KindGroup && n.Capturing() {
			a.CaptureCount++
		}
		for _, c := range n.Children() {
			walk(c)
		}
		walk(n.Child())
		walk(n.Cond())
		yes, no := n.Branches()
		walk(yes)
		walk(no)
	}
	walk(t.Root())
	return a
}
