// Package span holds half-open character ranges and the overlap predicate used
// to map character spans back onto tokens.
package span

import "fmt"

// Span is a half-open [Begin, End) range of character offsets.
type Span struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

func (s Span) String() string {
	return fmt.Sprintf("%d %d", s.Begin, s.End)
}

// Len returns the number of characters covered.
func (s Span) Len() int {
	return s.End - s.Begin
}

// Covers reports whether o lies inside s, the test used to pick the tokens of
// an entity when encoding chains.
func (s Span) Covers(o Span) bool {
	return s.Begin <= o.Begin && o.Begin < o.End && o.End <= s.End
}

// Overlap reports whether two spans nest or overlap with one of them starting
// first. It checks the four boundary cases only: A within B, B within A, A
// left-overlapping B and B left-overlapping A. Empty intervals never overlap.
func Overlap(aBegin, aEnd, bBegin, bEnd int) bool {
	switch {
	case aBegin <= bBegin && bBegin < bEnd && bEnd <= aEnd:
		return true
	case bBegin <= aBegin && aBegin < aEnd && aEnd <= bEnd:
		return true
	case aBegin <= bBegin && bBegin < aEnd && aEnd <= bEnd:
		return true
	case bBegin <= aBegin && aBegin < bEnd && bEnd <= aEnd:
		return true
	}
	return false
}
