// internal/game/types.go
//
// Core type definitions for the Codebreaker game.
// Defines:
//   - Color/Code: a palette symbol and a fixed-length sequence of them.
//   - Feedback:   exact/partial match counts for one guess.
//   - Move:       an immutable (guess, feedback) record.
//   - Config:     palette, code length, tries budget and repetition policy.
//   - Game:       state for a single human-played session.

package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidLength        = errors.New("codes differ in length")
	ErrInvalidCode          = errors.New("invalid code")
	ErrSpaceTooLarge        = errors.New("possibility space too large")
	ErrGameFinished         = errors.New("game finished")
)

// Color is one symbol of the palette, e.g. "RED".
type Color string

// Code is an ordered sequence of colors: a guess or a secret.
type Code []Color

// Equal reports whether c and o hold the same colors in the same order.
func (c Code) Equal(o Code) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no storage with c.
func (c Code) Clone() Code {
	out := make(Code, len(c))
	copy(out, c)
	return out
}

func (c Code) String() string {
	parts := make([]string, len(c))
	for i, col := range c {
		parts[i] = string(col)
	}
	return strings.Join(parts, ",")
}

// ParseCode splits a comma-separated list of color names, e.g. "RED,RED,BLUE,YELLOW".
func ParseCode(s string) Code {
	var out Code
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			out = append(out, Color(p))
		}
	}
	return out
}

// Feedback is the result of scoring a guess against a reference code.
type Feedback struct {
	Exact   int `json:"exact" yaml:"exact"`
	Partial int `json:"partial" yaml:"partial"`
}

// Solved reports whether f is the winning feedback for codes of the given length.
func (f Feedback) Solved(length int) bool {
	return f.Exact == length && f.Partial == 0
}

func (f Feedback) String() string {
	return fmt.Sprintf("%d,%d", f.Exact, f.Partial)
}

// Move records one guess and the feedback it received.
type Move struct {
	Guess    Code     `json:"guess" yaml:"guess"`
	Feedback Feedback `json:"feedback" yaml:"feedback"`
}

// Config holds the rules of one game.
type Config struct {
	Palette         []Color `json:"palette"`
	CodeLength      int     `json:"codeLength"`
	MaxTries        int     `json:"maxTries"`
	AllowRepetition bool    `json:"allowRepetition"`
}

// Validate rejects configurations that cannot produce a playable game.
// Every entry point that generates or enumerates codes calls it first.
func (c Config) Validate() error {
	if len(c.Palette) < 2 {
		return fmt.Errorf("%w: palette needs at least 2 colors, got %d", ErrInvalidConfiguration, len(c.Palette))
	}
	seen := make(map[Color]struct{}, len(c.Palette))
	for _, col := range c.Palette {
		if col == "" {
			return fmt.Errorf("%w: empty color in palette", ErrInvalidConfiguration)
		}
		if _, dup := seen[col]; dup {
			return fmt.Errorf("%w: duplicate color %q in palette", ErrInvalidConfiguration, col)
		}
		seen[col] = struct{}{}
	}
	if c.CodeLength < 1 {
		return fmt.Errorf("%w: code length must be positive, got %d", ErrInvalidConfiguration, c.CodeLength)
	}
	if c.MaxTries < 1 {
		return fmt.Errorf("%w: max tries must be positive, got %d", ErrInvalidConfiguration, c.MaxTries)
	}
	if !c.AllowRepetition && c.CodeLength > len(c.Palette) {
		return fmt.Errorf("%w: code length %d exceeds %d colors without repetition",
			ErrInvalidConfiguration, c.CodeLength, len(c.Palette))
	}
	return nil
}

// CheckCode reports whether code is a legal secret or guess under c.
func (c Config) CheckCode(code Code) error {
	if len(code) != c.CodeLength {
		return fmt.Errorf("%w: want %d colors, got %d", ErrInvalidCode, c.CodeLength, len(code))
	}
	inPalette := make(map[Color]struct{}, len(c.Palette))
	for _, col := range c.Palette {
		inPalette[col] = struct{}{}
	}
	used := make(map[Color]struct{}, len(code))
	for _, col := range code {
		if _, ok := inPalette[col]; !ok {
			return fmt.Errorf("%w: unknown color %q", ErrInvalidCode, col)
		}
		if _, dup := used[col]; dup && !c.AllowRepetition {
			return fmt.Errorf("%w: color %q repeated", ErrInvalidCode, col)
		}
		used[col] = struct{}{}
	}
	return nil
}

// Game holds the state of a single human-played session.
type Game struct {
	ID       string // Unique game identifier (uuid).
	Secret   Code   // The hidden code.
	Config   Config // Rules the game was started with.
	Moves    []Move // Guesses made so far, in order.
	Finished bool   // True once the game is over (won or lost).
	Won      bool   // True if the game was finished with a win.
}
