package nfa

import "sort"

// CaptureNames maps capture-group names to the captures bearing them, and
// back. A name may be shared by several numbered groups when they occur in
// mutually exclusive alternation branches, so a NameID resolves to a sorted
// list of captures. Unnamed captures map to the invalid NameID.
type CaptureNames[S Size] struct {
	// names is the sorted table of unique capture names. A NameID is an
	// index into it, resolved by binary search.
	names []string

	// byName holds, per name, the ascending list of captures bearing it.
	byName [][]CaptureID[S]

	// nameOf is the inverse: per capture, its NameID or the invalid sentinel.
	nameOf []NameID[S]
}

// newCaptureNames builds an empty registry over a sorted unique name table.
func newCaptureNames[S Size](sortedNames []string) *CaptureNames[S] {
	return &CaptureNames[S]{
		names:  sortedNames,
		byName: make([][]CaptureID[S], len(sortedNames)),
	}
}

// register appends a capture to the registry. Captures must be registered in
// ascending index order; name may be the invalid sentinel for unnamed groups.
func (r *CaptureNames[S]) register(capture CaptureID[S], name NameID[S]) {
	for len(r.nameOf) <= capture.Index() {
		r.nameOf = append(r.nameOf, NoName[S]())
	}
	r.nameOf[capture.Index()] = name
	if !name.IsNone() {
		r.byName[name.Index()] = append(r.byName[name.Index()], capture)
	}
}

// Lookup resolves a name to its NameID by binary search, or the invalid
// sentinel if the name was never declared by a capture group.
func (r *CaptureNames[S]) Lookup(name string) NameID[S] {
	i := sort.SearchStrings(r.names, name)
	if i < len(r.names) && r.names[i] == name {
		return MakeNameID[S](i)
	}
	return NoName[S]()
}

// Name returns the string for a NameID.
func (r *CaptureNames[S]) Name(id NameID[S]) string {
	if id.IsNone() || id.Index() >= len(r.names) {
		return ""
	}
	return r.names[id.Index()]
}

// CapturesFor returns the ascending captures bearing a name.
// The returned slice must not be modified.
func (r *CaptureNames[S]) CapturesFor(id NameID[S]) []CaptureID[S] {
	if id.IsNone() || id.Index() >= len(r.byName) {
		return nil
	}
	return r.byName[id.Index()]
}

// NameFor returns the NameID of a capture, or the invalid sentinel for
// unnamed captures.
func (r *CaptureNames[S]) NameFor(capture CaptureID[S]) NameID[S] {
	if capture.IsNone() || capture.Index() >= len(r.nameOf) {
		return NoName[S]()
	}
	return r.nameOf[capture.Index()]
}

// NameCount returns the number of unique names.
func (r *CaptureNames[S]) NameCount() int { return len(r.names) }

// CaptureCount returns the number of registered captures.
func (r *CaptureNames[S]) CaptureCount() int { return len(r.nameOf) }

// convertCaptureNames re-indexes every handle in the registry.
func convertCaptureNames[To, From Size](r *CaptureNames[From]) *CaptureNames[To] {
	out := &CaptureNames[To]{
		names:  r.names,
		byName: make([][]CaptureID[To], len(r.byName)),
		nameOf: make([]NameID[To], len(r.nameOf)),
	}
	for i, caps := range r.byName {
		cs := make([]CaptureID[To], len(caps))
		for j, c := range caps {
			cs[j] = ConvertCapture[To](c)
		}
		out.byName[i] = cs
	}
	for i, n := range r.nameOf {
		out.nameOf[i] = ConvertName[To](n)
	}
	return out
}
