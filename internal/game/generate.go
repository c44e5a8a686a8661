// internal/game/generate.go
//
// Code generation and enumeration.
//   - GenerateCode:  one random code drawn with an injected generator.
//   - GenerateAll:   every code for a palette/length/repetition policy,
//                    enumerated as mixed-radix numbers in base len(palette).
//
// Randomness always comes from the caller's *rand.Rand so that a seed
// reproduces a run exactly.

package game

import (
	"fmt"
	"math/rand/v2"
)

// MaxSpaceSize bounds GenerateAll and GenerateAllChecked. 6 colors × 8 slots is ~1.7M codes;
// anything past this is not something the linear solver should attempt.
const MaxSpaceSize = 1 << 22

// GenerateCode returns a random code for cfg.
// Without repetition each slot draws from the colors not used so far.
func GenerateCode(cfg Config, rng *rand.Rand) (Code, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	code := make(Code, 0, cfg.CodeLength)
	used := make(map[Color]struct{}, cfg.CodeLength)
	for len(code) < cfg.CodeLength {
		avail := make([]Color, 0, len(cfg.Palette))
		for _, c := range cfg.Palette {
			if _, ok := used[c]; ok && !cfg.AllowRepetition {
				continue
			}
			avail = append(avail, c)
		}
		pick := avail[rng.IntN(len(avail))]
		used[pick] = struct{}{}
		code = append(code, pick)
	}
	return code, nil
}

// SpaceSize returns len(palette)^length, or -1 if it exceeds MaxSpaceSize.
func SpaceSize(paletteSize, length int) int {
	total := 1
	for i := 0; i < length; i++ {
		total *= paletteSize
		if total > MaxSpaceSize {
			return -1
		}
	}
	return total
}

// GenerateAllChecked is GenerateAll with a size guard.
func GenerateAllChecked(palette []Color, length int, allowRepetition bool) ([]Code, error) {
	if SpaceSize(len(palette), length) < 0 {
		return nil, fmt.Errorf("%w: %d^%d codes", ErrSpaceTooLarge, len(palette), length)
	}
	return GenerateAll(palette, length, allowRepetition), nil
}

// GenerateAll enumerates every code of the given length over palette.
//
// Index i maps to the code whose position p holds palette[(i / P^p) % P],
// so position 0 is the least significant digit. Without repetition only
// codes with pairwise distinct colors are kept, which yields nothing when
// length > len(palette). Spaces larger than MaxSpaceSize give nil. The
// returned slice is freshly allocated and may be shrunk in place by the caller.
func GenerateAll(palette []Color, length int, allowRepetition bool) []Code {
	p := len(palette)
	if p == 0 || length < 1 {
		return nil
	}
	if !allowRepetition && length > p {
		return []Code{}
	}
	total := SpaceSize(p, length)
	if total < 0 {
		return nil
	}

	out := make([]Code, 0, total)
	digits := make([]int, length)
	for i := 0; i < total; i++ {
		rem := i
		for pos := 0; pos < length; pos++ {
			digits[pos] = rem % p
			rem /= p
		}
		if !allowRepetition && !distinct(digits, p) {
			continue
		}
		code := make(Code, length)
		for pos, d := range digits {
			code[pos] = palette[d]
		}
		out = append(out, code)
	}
	return out
}

// distinct reports whether no digit repeats.
func distinct(digits []int, radix int) bool {
	seen := make([]bool, radix)
	for _, d := range digits {
		if seen[d] {
			return false
		}
		seen[d] = true
	}
	return true
}
