package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlapCases(t *testing.T) {
	cases := []struct {
		name           string
		a1, a2, b1, b2 int
		want           bool
	}{
		{"b within a", 0, 10, 2, 5, true},
		{"a within b", 2, 5, 0, 10, true},
		{"a left of b", 0, 5, 3, 8, true},
		{"b left of a", 3, 8, 0, 5, true},
		{"equal", 4, 9, 4, 9, true},
		{"touching", 0, 5, 5, 8, false},
		{"disjoint", 0, 2, 6, 8, false},
		{"empty b", 0, 10, 3, 3, false},
		{"empty a", 3, 3, 0, 10, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlap(tc.a1, tc.a2, tc.b1, tc.b2))
		})
	}
}

func TestOverlapSymmetric(t *testing.T) {
	for a1 := 0; a1 < 6; a1++ {
		for a2 := a1; a2 < 6; a2++ {
			for b1 := 0; b1 < 6; b1++ {
				for b2 := b1; b2 < 6; b2++ {
					assert.Equal(t, Overlap(a1, a2, b1, b2), Overlap(b1, b2, a1, a2),
						"a=[%d,%d) b=[%d,%d)", a1, a2, b1, b2)
				}
			}
		}
	}
}

func TestCovers(t *testing.T) {
	s := Span{Begin: 7, End: 20}
	assert.True(t, s.Covers(Span{7, 13}))
	assert.True(t, s.Covers(Span{14, 20}))
	assert.False(t, s.Covers(Span{14, 21}))
	assert.False(t, s.Covers(Span{10, 10}))
	assert.Equal(t, 13, s.Len())
	assert.Equal(t, "7 20", s.String())
}
