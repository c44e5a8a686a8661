package solver

import (
	"math/rand/v2"
	"slices"

	"github.com/robalobadob/codebreaker/internal/game"
)

// BeginMoves builds the opening probes.
//
// The palette is shuffled and split into consecutive pairs. Each pair
// yields one probe holding the first color in length/2 slots and the second
// color in the rest, in shuffled order, so len(palette)/2 probes come back.
// With an odd palette the last shuffled color is never probed; the
// elimination phase still finds it.
func BeginMoves(palette []game.Color, length int, rng *rand.Rand) []game.Code {
	shuffled := slices.Clone(palette)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	half := length / 2
	pairs := len(shuffled) / 2
	probes := make([]game.Code, 0, pairs)
	for i := 0; i < pairs; i++ {
		probe := make(game.Code, length)
		for j := range probe {
			if j < half {
				probe[j] = shuffled[2*i]
			} else {
				probe[j] = shuffled[2*i+1]
			}
		}
		rng.Shuffle(len(probe), func(a, b int) { probe[a], probe[b] = probe[b], probe[a] })
		probes = append(probes, probe)
	}
	return probes
}
