package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/codebreaker/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// CodeIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % spaceLen.
func CodeIndex(date time.Time, salt string, spaceLen int) int {
	if spaceLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(spaceLen))
}

// Secret picks the day's code out of space.
func Secret(date time.Time, salt string, space []game.Code) (int, game.Code) {
	if len(space) == 0 {
		return 0, nil
	}
	idx := CodeIndex(date, salt, len(space))
	return idx, space[idx]
}
