// internal/palette/palette.go
//
// Provides the color palette for the game.
//
// Responsibilities:
//   - Load a palette from a file (PALETTE_FILE) or fall back to the embedded default.
//   - Normalize color names (trimmed, upper case) and drop blank/comment lines.
//
// Palette files:
//   One color name per line, '#' starts a comment line.
//   Names may contain letters, digits, '_' and '-'.
//
// The embedded default is RED, BLUE, YELLOW, GREEN, PURPLE, BLACK and is read
// once (sync.Once).

package palette

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/codebreaker/assets"
	"github.com/robalobadob/codebreaker/internal/game"
)

var ErrEmpty = errors.New("palette: no colors")

var (
	defaultOnce sync.Once
	defaultList []game.Color
	defaultErr  error
)

// Default returns a copy of the embedded palette.
func Default() ([]game.Color, error) {
	defaultOnce.Do(func() {
		lines, err := assets.PaletteList()
		if err != nil {
			defaultErr = err
			return
		}
		defaultList, defaultErr = normalize(lines)
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]game.Color(nil), defaultList...), nil
}

// Load reads the palette at path, or the embedded default when path is empty.
func Load(path string) ([]game.Color, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	out, err := normalize(lines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Parse splits a comma-separated list such as "red,blue,green".
func Parse(s string) ([]game.Color, error) {
	return normalize(strings.Split(s, ","))
}

// normalize trims, upper-cases and validates color names.
func normalize(lines []string) ([]game.Color, error) {
	var out []game.Color
	for _, line := range lines {
		name := strings.ToUpper(strings.TrimSpace(line))
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		if !validName(name) {
			return nil, fmt.Errorf("palette: invalid color name %q", name)
		}
		out = append(out, game.Color(name))
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

// validName reports whether s uses only A–Z, 0–9, '_' and '-'.
func validName(s string) bool {
	for _, r := range s {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-') {
			return false
		}
	}
	return true
}
