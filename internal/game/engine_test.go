package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Palette:         []Color{"R", "B", "Y", "G", "P", "K"},
		CodeLength:      4,
		MaxTries:        3,
		AllowRepetition: true,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()
	ok := testConfig()
	require.NoError(t, ok.Validate())

	cases := map[string]func(c *Config){
		"short palette":    func(c *Config) { c.Palette = c.Palette[:1] },
		"duplicate color":  func(c *Config) { c.Palette = []Color{"R", "B", "R"} },
		"empty color":      func(c *Config) { c.Palette = []Color{"R", ""} },
		"zero length":      func(c *Config) { c.CodeLength = 0 },
		"zero tries":       func(c *Config) { c.MaxTries = 0 },
		"length > palette": func(c *Config) { c.Palette = c.Palette[:4]; c.CodeLength = 5; c.AllowRepetition = false },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := testConfig()
			mutate(&c)
			require.ErrorIs(t, c.Validate(), ErrInvalidConfiguration)
		})
	}

	// The same length is fine once repetition is allowed.
	c := testConfig()
	c.Palette = c.Palette[:4]
	c.CodeLength = 5
	assert.NoError(t, c.Validate())
}

func TestCheckCode(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	require.NoError(t, cfg.CheckCode(ParseCode("R,R,B,Y")))
	require.ErrorIs(t, cfg.CheckCode(ParseCode("R,R,B")), ErrInvalidCode)
	require.ErrorIs(t, cfg.CheckCode(ParseCode("R,R,B,W")), ErrInvalidCode)

	cfg.AllowRepetition = false
	require.ErrorIs(t, cfg.CheckCode(ParseCode("R,R,B,Y")), ErrInvalidCode)
	require.NoError(t, cfg.CheckCode(ParseCode("R,G,B,Y")))
}

func TestParseCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Code{"RED", "BLUE"}, ParseCode(" red, Blue ,"))
	assert.Empty(t, ParseCode(""))
	assert.Equal(t, "RED,BLUE", ParseCode("red,blue").String())
}

func TestGameWin(t *testing.T) {
	t.Parallel()
	g, err := New(testConfig(), ParseCode("R,R,B,Y"), nil)
	require.NoError(t, err)
	require.NotEmpty(t, g.ID)
	assert.Equal(t, StatePlaying, g.State())

	fb, state, err := g.ApplyGuess(ParseCode("R,B,Y,Y"))
	require.NoError(t, err)
	assert.Equal(t, Feedback{2, 1}, fb)
	assert.Equal(t, StatePlaying, state)

	fb, state, err = g.ApplyGuess(ParseCode("R,R,B,Y"))
	require.NoError(t, err)
	assert.True(t, fb.Solved(4))
	assert.Equal(t, StateWon, state)
	assert.Len(t, g.Moves, 2)

	_, _, err = g.ApplyGuess(ParseCode("R,R,B,Y"))
	require.ErrorIs(t, err, ErrGameFinished)
}

func TestGameLoss(t *testing.T) {
	t.Parallel()
	g, err := New(testConfig(), ParseCode("K,K,K,K"), nil)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, _, err = g.ApplyGuess(ParseCode("R,R,R,R"))
		require.NoError(t, err)
	}
	assert.True(t, g.Finished)
	assert.False(t, g.Won)
	assert.Equal(t, StateLost, g.State())
}

func TestGameRejectsBadInput(t *testing.T) {
	t.Parallel()
	_, err := New(testConfig(), ParseCode("R,R,B,W"), nil)
	require.ErrorIs(t, err, ErrInvalidCode)

	g, err := New(testConfig(), nil, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)
	require.NoError(t, g.Config.CheckCode(g.Secret))

	_, state, err := g.ApplyGuess(ParseCode("R,B"))
	require.ErrorIs(t, err, ErrInvalidCode)
	assert.Equal(t, StatePlaying, state)
	assert.Empty(t, g.Moves)
}
