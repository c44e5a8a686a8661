package solver

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/codebreaker/internal/game"
)

var classic = game.Config{
	Palette:         []game.Color{"RED", "BLUE", "YELLOW", "GREEN", "PURPLE", "BLACK"},
	CodeLength:      4,
	MaxTries:        10,
	AllowRepetition: true,
}

// classicMaxTries is the worst case observed over every classic secret.
// A higher count means the opening or the elimination order regressed.
const classicMaxTries = 9

func seeded(i int) *rand.Rand {
	return rand.New(rand.NewPCG(42, uint64(i)))
}

func TestBeginMovesShape(t *testing.T) {
	t.Parallel()
	probes := BeginMoves(classic.Palette, 4, seeded(1))
	require.Len(t, probes, 3)

	covered := map[game.Color]int{}
	for _, p := range probes {
		require.Len(t, p, 4)
		counts := map[game.Color]int{}
		for _, c := range p {
			counts[c]++
		}
		require.Len(t, counts, 2, p.String())
		for c, n := range counts {
			assert.Equal(t, 2, n, p.String())
			covered[c]++
		}
	}
	assert.Len(t, covered, 6, "every color probed exactly once")
	for c, n := range covered {
		assert.Equal(t, 1, n, string(c))
	}
}

func TestBeginMovesOddPaletteAndLength(t *testing.T) {
	t.Parallel()
	palette := []game.Color{"A", "B", "C", "D", "E"}
	probes := BeginMoves(palette, 5, seeded(2))
	require.Len(t, probes, 2)

	covered := map[game.Color]bool{}
	for _, p := range probes {
		counts := map[game.Color]int{}
		for _, c := range p {
			counts[c]++
			covered[c] = true
		}
		var sizes []int
		for _, n := range counts {
			sizes = append(sizes, n)
		}
		assert.ElementsMatch(t, []int{2, 3}, sizes, p.String())
	}
	// One color of an odd palette is never probed.
	assert.Len(t, covered, 4)

	single := BeginMoves(palette, 1, seeded(3))
	require.Len(t, single, 2)
	for _, p := range single {
		assert.Len(t, p, 1)
	}
}

func TestBeginMovesDeterministic(t *testing.T) {
	t.Parallel()
	assert.Equal(t, BeginMoves(classic.Palette, 4, seeded(9)), BeginMoves(classic.Palette, 4, seeded(9)))
	// The caller's palette is left alone.
	assert.Equal(t, game.Color("RED"), classic.Palette[0])
}

func TestSolveEveryClassicSecret(t *testing.T) {
	t.Parallel()
	all := game.GenerateAll(classic.Palette, classic.CodeLength, classic.AllowRepetition)
	require.Len(t, all, 1296)

	maxTries := 0
	for i, secret := range all {
		res, err := Solve(secret, classic, seeded(i))
		require.NoError(t, err, secret.String())
		require.True(t, res.Solved, "secret %v: %+v", secret, res)
		require.Equal(t, OutcomeSolved, res.Outcome)
		require.Equal(t, secret, res.LastGuess)
		require.LessOrEqual(t, res.TriesUsed, classic.MaxTries)
		require.Len(t, res.Moves, res.TriesUsed)
		require.LessOrEqual(t, res.OpeningMoves, 3)
		require.True(t, res.Moves[len(res.Moves)-1].Feedback.Solved(classic.CodeLength))
		if res.TriesUsed > maxTries {
			maxTries = res.TriesUsed
		}
	}
	assert.LessOrEqual(t, maxTries, classicMaxTries)
}

func TestSecretNeverDiscarded(t *testing.T) {
	t.Parallel()
	domains := []game.Config{
		{Palette: classic.Palette[:3], CodeLength: 3, MaxTries: 20, AllowRepetition: true},
		{Palette: classic.Palette[:4], CodeLength: 3, MaxTries: 20, AllowRepetition: true},
		{Palette: classic.Palette[:5], CodeLength: 3, MaxTries: 20, AllowRepetition: false},
		{Palette: classic.Palette[:4], CodeLength: 4, MaxTries: 20, AllowRepetition: false},
		{Palette: classic.Palette[:2], CodeLength: 1, MaxTries: 20, AllowRepetition: true},
	}
	for _, cfg := range domains {
		name := fmt.Sprintf("P%d_L%d_rep%t", len(cfg.Palette), cfg.CodeLength, cfg.AllowRepetition)
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for i, secret := range game.GenerateAll(cfg.Palette, cfg.CodeLength, cfg.AllowRepetition) {
				s, err := New(cfg, seeded(i))
				require.NoError(t, err)
				s.onDiscard = func(c game.Code) {
					require.False(t, c.Equal(secret), "secret %v discarded", secret)
				}
				res, err := s.Solve(secret)
				require.NoError(t, err)
				require.True(t, res.Solved, secret.String())
				assert.Equal(t, res.Solved, res.Outcome == OutcomeSolved)
			}
		})
	}
}

func TestSolveDeterministic(t *testing.T) {
	t.Parallel()
	secret := game.ParseCode("RED,RED,BLUE,YELLOW")
	a, err := Solve(secret, classic, seeded(5))
	require.NoError(t, err)
	b, err := Solve(secret, classic, seeded(5))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSolveInOpening(t *testing.T) {
	t.Parallel()
	secret := BeginMoves(classic.Palette, classic.CodeLength, seeded(11))[0]
	res, err := Solve(secret, classic, seeded(11))
	require.NoError(t, err)
	assert.True(t, res.Solved)
	assert.Equal(t, 1, res.TriesUsed)
	assert.Equal(t, 1, res.OpeningMoves)
}

func TestSolveOutOfTries(t *testing.T) {
	t.Parallel()
	cfg := classic
	cfg.MaxTries = 1
	// Probes hold two colors each, so a four-color secret is never a probe.
	res, err := Solve(game.ParseCode("RED,BLUE,YELLOW,GREEN"), cfg, seeded(1))
	require.NoError(t, err)
	assert.False(t, res.Solved)
	assert.Equal(t, OutcomeOutOfTries, res.Outcome)
	assert.Equal(t, 1, res.TriesUsed)
	assert.Len(t, res.Moves, 1)
}

type fixedSpace []game.Code

func (f fixedSpace) Space(game.Config) ([]game.Code, error) {
	return append([]game.Code(nil), f...), nil
}

func TestSolveExhausted(t *testing.T) {
	t.Parallel()
	secret := game.ParseCode("RED,BLUE,YELLOW,GREEN")
	decoy := fixedSpace{game.ParseCode("BLACK,BLACK,BLACK,BLACK")}
	s, err := New(classic, seeded(1), WithSpace(decoy))
	require.NoError(t, err)

	res, err := s.Solve(secret)
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.False(t, res.Solved)
	assert.NotZero(t, res.TriesUsed)
}

func TestSolveNoMoves(t *testing.T) {
	t.Parallel()
	// A one-color palette yields no probes; an empty space yields no guesses.
	s := &Solver{
		cfg:   game.Config{Palette: []game.Color{"RED"}, CodeLength: 1, MaxTries: 3, AllowRepetition: true},
		rng:   seeded(1),
		space: fixedSpace{},
	}
	res, err := s.Solve(game.Code{"RED"})
	require.ErrorIs(t, err, ErrNoMoves)
	assert.Zero(t, res.TriesUsed)
	assert.Nil(t, res.Moves)
}

func TestSolveRejectsInput(t *testing.T) {
	t.Parallel()
	_, err := Solve(game.ParseCode("RED,BLUE"), classic, seeded(1))
	require.ErrorIs(t, err, game.ErrInvalidCode)

	bad := game.Config{
		Palette:    classic.Palette[:4],
		CodeLength: 5,
		MaxTries:   10,
	}
	_, err = New(bad, seeded(1))
	require.ErrorIs(t, err, game.ErrInvalidConfiguration)

	_, err = New(classic, nil)
	require.ErrorIs(t, err, game.ErrInvalidConfiguration)
}

func TestNextCandidate(t *testing.T) {
	t.Parallel()
	pool := game.GenerateAll([]game.Color{"R", "B"}, 2, true) // RR BR RB BB
	history := []game.Move{{Guess: game.ParseCode("R,R"), Feedback: game.Feedback{Exact: 1}}}

	c, ok := NextCandidate(&pool, history)
	require.True(t, ok)
	assert.Equal(t, game.ParseCode("R,B"), c, "BB discarded, RB taken")
	assert.Equal(t, []game.Code{game.ParseCode("R,R"), game.ParseCode("B,R")}, pool)

	c, ok = NextCandidate(&pool, history)
	require.True(t, ok)
	assert.Equal(t, game.ParseCode("B,R"), c)

	_, ok = NextCandidate(&pool, history)
	assert.False(t, ok)
	assert.Empty(t, pool)
}

func TestConsistent(t *testing.T) {
	t.Parallel()
	history := []game.Move{{Guess: game.ParseCode("R,B,B,Y"), Feedback: game.Feedback{Exact: 3}}}
	assert.True(t, Consistent(game.ParseCode("R,R,B,Y"), history))
	assert.False(t, Consistent(game.ParseCode("R,B,B,Y"), history))
	assert.False(t, Consistent(game.ParseCode("R,R,B"), history))
	assert.True(t, Consistent(game.ParseCode("R"), nil))
}

func TestSpaceCache(t *testing.T) {
	t.Parallel()
	cache, err := NewSpaceCache(2)
	require.NoError(t, err)

	a, err := cache.Space(classic)
	require.NoError(t, err)
	require.Len(t, a, 1296)
	a = a[:10]
	a[0] = nil

	b, err := cache.Space(classic)
	require.NoError(t, err)
	require.Len(t, b, 1296)
	assert.NotNil(t, b[0])
	assert.Equal(t, 1, cache.Len())

	small := classic
	small.CodeLength = 2
	_, err = cache.Space(small)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	secret := game.ParseCode("PURPLE,BLACK,RED,RED")
	plain, err := Solve(secret, classic, seeded(3))
	require.NoError(t, err)
	s, err := New(classic, seeded(3), WithSpace(cache))
	require.NoError(t, err)
	cached, err := s.Solve(secret)
	require.NoError(t, err)
	assert.Equal(t, plain, cached)
}
