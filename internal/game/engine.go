// internal/game/engine.go
//
// Game engine for a single human-played Codebreaker session.
// Responsibilities:
//   - Create new games from a validated Config (random or fixed secret).
//   - Validate and apply guesses (length, palette, repetition policy).
//   - Score guesses with Score and record the move history.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - The solver in internal/solver plays the same rules without a Game.
//   - IDs are uuids so they can be stored as primary keys.
package game

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// States reported by Game.State.
const (
	StatePlaying = "playing"
	StateWon     = "won"
	StateLost    = "lost"
)

// New constructs a new game.
// If secret is empty, a random one is drawn from rng.
func New(cfg Config, secret Code, rng *rand.Rand) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		var err error
		if secret, err = GenerateCode(cfg, rng); err != nil {
			return nil, err
		}
	} else if err := cfg.CheckCode(secret); err != nil {
		return nil, err
	}
	return &Game{
		ID:     uuid.NewString(),
		Secret: secret.Clone(),
		Config: cfg,
		Moves:  []Move{},
	}, nil
}

// ApplyGuess validates and scores a guess, mutating the game state.
// Returns the feedback, the new state, or an error.
//
// State transitions:
//   - Feedback (L, 0) → Finished = true, Won = true.
//   - Else if the number of moves reaches MaxTries → Finished = true (loss).
func (g *Game) ApplyGuess(guess Code) (Feedback, string, error) {
	if g.Finished {
		return Feedback{}, g.State(), ErrGameFinished
	}
	if err := g.Config.CheckCode(guess); err != nil {
		return Feedback{}, g.State(), err
	}

	fb, err := Score(guess, g.Secret)
	if err != nil {
		return Feedback{}, g.State(), err
	}
	g.Moves = append(g.Moves, Move{Guess: guess.Clone(), Feedback: fb})

	if fb.Solved(g.Config.CodeLength) {
		g.Finished, g.Won = true, true
	} else if len(g.Moves) >= g.Config.MaxTries {
		g.Finished = true
	}
	return fb, g.State(), nil
}

// State reports a coarse string representation of the current game state.
func (g *Game) State() string {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}
