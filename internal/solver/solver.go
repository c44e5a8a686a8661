// internal/solver/solver.go
//
// Automatic Codebreaker solver.
// Responsibilities:
//   - Opening phase: play BeginMoves probes until the secret's colors are
//     all accounted for (exact+partial totals reach the code length).
//   - Elimination phase: walk the possibility space from the end, discard
//     every candidate that contradicts a recorded move, guess the first one
//     that fits, repeat.
//   - Report the outcome: solved, out of tries, or exhausted.
//
// Notes:
//   - The secret is a Solve argument; nothing is shared between solves.
//   - A Solver owns its *rand.Rand and is not safe for concurrent use.
//     Run independent solves on independent Solvers.
//   - Cost per guess is O(history × pool); fine for the classic 6×4 board.
package solver

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/robalobadob/codebreaker/internal/game"
)

var (
	// ErrExhausted means the candidate pool ran dry before the code was found.
	// With a legal secret this cannot happen; it signals a broken invariant.
	ErrExhausted = errors.New("candidate pool exhausted")
	// ErrNoMoves means a result was requested although no guess was played.
	ErrNoMoves = errors.New("no moves played")
)

// Outcome is how a solve ended.
type Outcome string

const (
	OutcomeSolved     Outcome = "solved"
	OutcomeOutOfTries Outcome = "out_of_tries"
	OutcomeExhausted  Outcome = "exhausted"
)

// Result describes a finished solve.
type Result struct {
	Solved       bool        `json:"solved" yaml:"solved"` // LastGuess equals the secret
	Outcome      Outcome     `json:"outcome" yaml:"outcome"`
	LastGuess    game.Code   `json:"lastGuess" yaml:"lastGuess"`
	TriesUsed    int         `json:"tries" yaml:"tries"`
	OpeningMoves int         `json:"openingMoves" yaml:"openingMoves"`
	Moves        []game.Move `json:"moves" yaml:"moves"`
}

// SpaceSource hands out possibility spaces. Each call must return a slice
// the solver may shrink in place; the codes themselves are never mutated.
type SpaceSource interface {
	Space(cfg game.Config) ([]game.Code, error)
}

type generated struct{}

func (generated) Space(cfg game.Config) ([]game.Code, error) {
	return game.GenerateAllChecked(cfg.Palette, cfg.CodeLength, cfg.AllowRepetition)
}

// Option configures a Solver.
type Option func(*Solver)

// WithSpace replaces the default on-demand enumeration, e.g. with a SpaceCache.
func WithSpace(src SpaceSource) Option {
	return func(s *Solver) {
		if src != nil {
			s.space = src
		}
	}
}

// Solver plays one configuration against any number of secrets.
type Solver struct {
	cfg   game.Config
	rng   *rand.Rand
	space SpaceSource

	onDiscard func(game.Code) // test hook, sees every eliminated candidate
}

// New validates cfg and returns a Solver drawing randomness from rng.
func New(cfg game.Config, rng *rand.Rand, opts ...Option) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", game.ErrInvalidConfiguration)
	}
	s := &Solver{cfg: cfg, rng: rng, space: generated{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Solve is the one-shot form of New(cfg, rng).Solve(secret).
func Solve(secret game.Code, cfg game.Config, rng *rand.Rand) (Result, error) {
	s, err := New(cfg, rng)
	if err != nil {
		return Result{}, err
	}
	return s.Solve(secret)
}

// Config returns the rules the solver plays by.
func (s *Solver) Config() game.Config { return s.cfg }

// run is the per-solve state: history, tries and the solved flag.
type run struct {
	secret game.Code
	length int
	moves  []game.Move
	tries  int
	solved bool
}

func (r *run) play(guess game.Code) game.Feedback {
	fb := game.MustScore(guess, r.secret)
	r.moves = append(r.moves, game.Move{Guess: guess.Clone(), Feedback: fb})
	r.tries++
	if fb.Solved(r.length) {
		r.solved = true
	}
	return fb
}

// Solve finds secret and reports how it went.
//
// An exhausted pool returns the result together with ErrExhausted so it
// cannot be mistaken for a normal loss.
func (s *Solver) Solve(secret game.Code) (Result, error) {
	if err := s.cfg.CheckCode(secret); err != nil {
		return Result{}, err
	}
	r := &run{secret: secret, length: s.cfg.CodeLength}

	// Opening phase.
	found := 0
	for _, probe := range BeginMoves(s.cfg.Palette, s.cfg.CodeLength, s.rng) {
		if r.tries >= s.cfg.MaxTries {
			break
		}
		fb := r.play(probe)
		if r.solved {
			break
		}
		found += fb.Exact + fb.Partial
		if found >= s.cfg.CodeLength {
			break
		}
	}
	opening := r.tries

	// Elimination phase.
	exhausted := false
	if !r.solved && r.tries < s.cfg.MaxTries {
		pool, err := s.space.Space(s.cfg)
		if err != nil {
			return Result{}, err
		}
		for !r.solved && r.tries < s.cfg.MaxTries {
			guess, ok := nextCandidate(&pool, r.moves, s.onDiscard)
			if !ok {
				exhausted = true
				break
			}
			r.play(guess)
		}
	}

	if r.tries == 0 {
		return Result{}, ErrNoMoves
	}
	last := r.moves[r.tries-1].Guess
	res := Result{
		Solved:       last.Equal(secret),
		Outcome:      OutcomeOutOfTries,
		LastGuess:    last,
		TriesUsed:    r.tries,
		OpeningMoves: opening,
		Moves:        r.moves,
	}
	switch {
	case r.solved:
		res.Outcome = OutcomeSolved
	case exhausted:
		res.Outcome = OutcomeExhausted
		return res, fmt.Errorf("%w after %d tries", ErrExhausted, r.tries)
	}
	return res, nil
}

// Consistent reports whether candidate would have produced every recorded
// feedback had it been the secret.
func Consistent(candidate game.Code, history []game.Move) bool {
	for _, m := range history {
		fb, err := game.Score(m.Guess, candidate)
		if err != nil || fb != m.Feedback {
			return false
		}
	}
	return true
}

// NextCandidate pops codes off the end of *pool until one is consistent with
// history and returns it. Every inconsistent code it passes is dropped for
// good; the returned code is removed as well. ok is false once the pool is empty.
func NextCandidate(pool *[]game.Code, history []game.Move) (game.Code, bool) {
	return nextCandidate(pool, history, nil)
}

func nextCandidate(pool *[]game.Code, history []game.Move, onDiscard func(game.Code)) (game.Code, bool) {
	p := *pool
	defer func() { *pool = p }()
	for len(p) > 0 {
		last := len(p) - 1
		c := p[last]
		p[last] = nil
		p = p[:last]
		if Consistent(c, history) {
			return c, true
		}
		if onDiscard != nil {
			onDiscard(c)
		}
	}
	return nil, false
}
