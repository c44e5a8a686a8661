package palette

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/codebreaker/internal/game"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	p, err := Default()
	require.NoError(t, err)
	assert.Equal(t, []game.Color{"RED", "BLUE", "YELLOW", "GREEN", "PURPLE", "BLACK"}, p)

	p[0] = "WHITE"
	again, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, game.Color("RED"), again[0])
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "colors.txt")
	require.NoError(t, os.WriteFile(path, []byte("# pegs\n red\n\nwhite\nDark-Blue\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []game.Color{"RED", "WHITE", "DARK-BLUE"}, p)

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	t.Parallel()
	p, err := Parse("red, blue ,green")
	require.NoError(t, err)
	assert.Equal(t, []game.Color{"RED", "BLUE", "GREEN"}, p)

	_, err = Parse(" , ")
	require.ErrorIs(t, err, ErrEmpty)

	_, err = Parse("red,bl ue")
	require.Error(t, err)
}
