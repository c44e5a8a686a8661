// internal/game/score.go
//
// Feedback scoring shared by human games and the solver.
//   - Pass 1 counts exact matches and consumes both slots.
//   - Pass 2 pairs each unconsumed guess slot with an unconsumed reference
//     slot of the same color, counting partials.
//
// The result is symmetric: Score(a, b) == Score(b, a).

package game

import "fmt"

// Score compares guess against reference and returns the exact/partial counts.
//
// Pass 1 marks every position where the colors agree as exact and consumes
// both slots. Pass 2 walks the remaining guess slots and pairs each with an
// unconsumed reference slot of the same color, counting one partial per pair.
// A slot is never paired twice, so repeated colors are counted once per unit
// of overlap. Score(a, b) == Score(b, a).
func Score(guess, reference Code) (Feedback, error) {
	n := len(guess)
	if len(reference) != n {
		return Feedback{}, fmt.Errorf("%w: %d vs %d", ErrInvalidLength, n, len(reference))
	}

	var fb Feedback
	usedGuess := make([]bool, n)
	usedRef := make([]bool, n)

	// Pass 1: exact matches.
	for i := 0; i < n; i++ {
		if guess[i] == reference[i] {
			fb.Exact++
			usedGuess[i], usedRef[i] = true, true
		}
	}

	// Pass 2: partial matches among unconsumed slots.
	for i := 0; i < n; i++ {
		if usedGuess[i] {
			continue
		}
		for j := 0; j < n; j++ {
			if !usedRef[j] && guess[i] == reference[j] {
				fb.Partial++
				usedGuess[i], usedRef[j] = true, true
				break
			}
		}
	}
	return fb, nil
}

// MustScore is Score for callers that have already matched lengths.
func MustScore(guess, reference Code) Feedback {
	fb, err := Score(guess, reference)
	if err != nil {
		panic(err)
	}
	return fb
}
