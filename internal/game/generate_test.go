package game

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixColors = []Color{"RED", "BLUE", "YELLOW", "GREEN", "PURPLE", "BLACK"}

func pow(b, e int) int {
	out := 1
	for i := 0; i < e; i++ {
		out *= b
	}
	return out
}

func fallingFactorial(n, k int) int {
	out := 1
	for i := 0; i < k; i++ {
		out *= n - i
	}
	return out
}

func TestGenerateAllCounts(t *testing.T) {
	t.Parallel()
	for p := 2; p <= 6; p++ {
		for l := 1; l <= 5; l++ {
			palette := sixColors[:p]
			withRep := GenerateAll(palette, l, true)
			assert.Len(t, withRep, pow(p, l), "P=%d L=%d repetition", p, l)

			noRep := GenerateAll(palette, l, false)
			if l > p {
				assert.Empty(t, noRep, "P=%d L=%d", p, l)
			} else {
				assert.Len(t, noRep, fallingFactorial(p, l), "P=%d L=%d", p, l)
			}
		}
	}
}

func TestGenerateAllOrderAndUniqueness(t *testing.T) {
	t.Parallel()
	palette := []Color{"R", "B", "Y"}
	all := GenerateAll(palette, 2, true)
	// Position 0 is the least significant digit.
	require.Equal(t, Code{"R", "R"}, all[0])
	require.Equal(t, Code{"B", "R"}, all[1])
	require.Equal(t, Code{"Y", "R"}, all[2])
	require.Equal(t, Code{"R", "B"}, all[3])
	require.Equal(t, Code{"Y", "Y"}, all[8])

	seen := map[string]struct{}{}
	for _, c := range GenerateAll(sixColors, 3, false) {
		_, dup := seen[c.String()]
		require.False(t, dup, c.String())
		seen[c.String()] = struct{}{}
		require.NoError(t, Config{Palette: sixColors, CodeLength: 3, MaxTries: 1}.CheckCode(c))
	}
}

func TestGenerateAllFreshSlices(t *testing.T) {
	t.Parallel()
	a := GenerateAll(sixColors, 2, true)
	b := GenerateAll(sixColors, 2, true)
	a[0][0] = "WHITE"
	assert.Equal(t, Color("RED"), b[0][0])
	assert.Len(t, b, 36)
}

func TestGenerateAllChecked(t *testing.T) {
	t.Parallel()
	_, err := GenerateAllChecked(sixColors, 12, true)
	require.ErrorIs(t, err, ErrSpaceTooLarge)

	all, err := GenerateAllChecked(sixColors, 4, true)
	require.NoError(t, err)
	assert.Len(t, all, 1296)
	assert.Equal(t, -1, SpaceSize(6, 12))
	assert.Equal(t, 1296, SpaceSize(6, 4))
}

func TestGenerateAllRefusesHugeSpaces(t *testing.T) {
	t.Parallel()
	wide := make([]Color, 64)
	for i := range wide {
		wide[i] = Color(fmt.Sprintf("C%d", i))
	}
	// 64^11 = 2^66 overflows int.
	assert.NotPanics(t, func() {
		assert.Nil(t, GenerateAll(wide, 11, true))
	})
	assert.Nil(t, GenerateAll(sixColors, 12, true))
}

func TestGenerateCode(t *testing.T) {
	t.Parallel()
	cfg := Config{Palette: sixColors, CodeLength: 4, MaxTries: 10, AllowRepetition: true}

	a, err := GenerateCode(cfg, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	b, err := GenerateCode(cfg, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	assert.Equal(t, a, b, "same seed, same code")
	require.NoError(t, cfg.CheckCode(a))

	cfg.AllowRepetition = false
	cfg.CodeLength = 6
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		code, err := GenerateCode(cfg, rng)
		require.NoError(t, err)
		require.NoError(t, cfg.CheckCode(code), code.String())
	}
}

func TestGenerateCodeRejectsConfig(t *testing.T) {
	t.Parallel()
	cfg := Config{Palette: sixColors[:4], CodeLength: 5, MaxTries: 10, AllowRepetition: false}
	code, err := GenerateCode(cfg, rand.New(rand.NewPCG(1, 1)))
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Nil(t, code)
}
