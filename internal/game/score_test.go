package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		guess     string
		reference string
		want      Feedback
	}{
		{"identical", "R,B,Y,G", "R,B,Y,G", Feedback{4, 0}},
		{"disjoint", "R,R,B,B", "Y,Y,G,G", Feedback{0, 0}},
		{"all partial", "R,B,Y,G", "G,Y,B,R", Feedback{0, 4}},
		{"repeats in reference", "R,B,B,Y", "R,R,B,Y", Feedback{3, 0}},
		{"one partial after exacts", "R,B,Y,Y", "R,R,B,Y", Feedback{2, 1}},
		{"guess floods one color", "B,B,B,B", "R,R,B,Y", Feedback{1, 0}},
		{"exact wins over earlier partial", "B,B", "R,B", Feedback{1, 0}},
		{"multiplicity bounded by reference", "R,R,R,B", "B,R,Y,Y", Feedback{1, 1}},
		{"single slot miss", "R", "B", Feedback{0, 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			got, err := Score(ParseCode(c.guess), ParseCode(c.reference))
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestScoreLengthMismatch(t *testing.T) {
	t.Parallel()
	_, err := Score(ParseCode("R,B"), ParseCode("R,B,Y"))
	require.ErrorIs(t, err, ErrInvalidLength)
	assert.Panics(t, func() { MustScore(ParseCode("R"), Code{}) })
}

// Every pair of codes over a small domain, repeats included.
func TestScoreProperties(t *testing.T) {
	t.Parallel()
	palette := []Color{"R", "B", "Y", "G"}
	const length = 3
	all := GenerateAll(palette, length, true)
	require.Len(t, all, 64)

	for _, a := range all {
		self := MustScore(a, a)
		require.Equal(t, Feedback{Exact: length}, self, "score(%v,%v)", a, a)
		require.True(t, self.Solved(length))
		for _, b := range all {
			ab := MustScore(a, b)
			ba := MustScore(b, a)
			require.Equal(t, ab, ba, "symmetry %v / %v", a, b)
			require.GreaterOrEqual(t, ab.Exact, 0)
			require.GreaterOrEqual(t, ab.Partial, 0)
			require.LessOrEqual(t, ab.Exact+ab.Partial, length, "%v / %v", a, b)
			if !a.Equal(b) {
				require.False(t, ab.Solved(length))
			}
		}
	}
}
