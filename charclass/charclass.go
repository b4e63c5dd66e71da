// Package charclass provides normalized codepoint range sets for character
// classes. A Set is the payload of a character-class transition: the matcher
// asks it whether a codepoint is contained, optionally after case folding.
//
// Sets are plain range data. Unicode property lookup (\p{...}) is the
// parser's concern and happens before a Set reaches this package.
package charclass

import (
	"fmt"
	"sort"
	"strings"
)

// Range is an inclusive codepoint range [Lo, Hi].
type Range struct {
	Lo, Hi rune
}

// Set is a sorted, non-overlapping sequence of codepoint ranges.
// The zero value is the empty set.
type Set struct {
	ranges []Range
}

// New builds a Set from arbitrary ranges: they are sorted, deduplicated and
// merged, so Contains can binary-search. Ranges with Hi < Lo are dropped.
func New(ranges ...Range) Set {
	rs := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Hi >= r.Lo {
			rs = append(rs, r)
		}
	}
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Lo != rs[j].Lo {
			return rs[i].Lo < rs[j].Lo
		}
		return rs[i].Hi < rs[j].Hi
	})

	merged := rs[:0]
	for _, r := range rs {
		if n := len(merged); n > 0 && r.Lo <= merged[n-1].Hi+1 {
			if r.Hi > merged[n-1].Hi {
				merged[n-1].Hi = r.Hi
			}
			continue
		}
		merged = append(merged, r)
	}
	return Set{ranges: merged}
}

// Single builds a Set containing exactly one codepoint.
func Single(r rune) Set {
	return Set{ranges: []Range{{Lo: r, Hi: r}}}
}

// Contains reports whether the codepoint is in the set.
func (s Set) Contains(cp rune) bool {
	lo, hi := 0, len(s.ranges)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case cp < s.ranges[mid].Lo:
			hi = mid
		case cp > s.ranges[mid].Hi:
			lo = mid + 1
		default:
			return true
		}
	}
	return false
}

// IsEmpty reports whether the set contains no codepoints.
func (s Set) IsEmpty() bool {
	return len(s.ranges) == 0
}

// Ranges returns the normalized ranges in ascending order.
// The returned slice must not be modified.
func (s Set) Ranges() []Range {
	return s.ranges
}

// Len returns the number of normalized ranges.
func (s Set) Len() int {
	return len(s.ranges)
}

// Equal reports whether two sets contain exactly the same codepoints.
// Both sets are normalized, so this is a structural comparison.
func (s Set) Equal(o Set) bool {
	if len(s.ranges) != len(o.ranges) {
		return false
	}
	for i, r := range s.ranges {
		if o.ranges[i] != r {
			return false
		}
	}
	return true
}

// String returns a compact representation like [a-z0-9_].
func (s Set) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range s.ranges {
		if r.Lo == r.Hi {
			fmt.Fprintf(&b, "%q", r.Lo)
		} else {
			fmt.Fprintf(&b, "%q-%q", r.Lo, r.Hi)
		}
	}
	b.WriteByte(']')
	return b.String()
}
