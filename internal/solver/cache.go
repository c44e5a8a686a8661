package solver

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/robalobadob/codebreaker/internal/game"
)

// SpaceCache keeps recently used possibility spaces so repeated solves of
// the same configuration skip the enumeration. Safe for concurrent use.
type SpaceCache struct {
	cache *lru.Cache
}

// NewSpaceCache holds up to size distinct configurations.
func NewSpaceCache(size int) (*SpaceCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("space cache: %w", err)
	}
	return &SpaceCache{cache: c}, nil
}

// Space returns a private copy of the space for cfg. The outer slice is
// fresh; the codes are shared with the cache and must not be modified.
func (sc *SpaceCache) Space(cfg game.Config) ([]game.Code, error) {
	key := spaceKey(cfg)
	if v, ok := sc.cache.Get(key); ok {
		return clonePool(v.([]game.Code)), nil
	}
	all, err := game.GenerateAllChecked(cfg.Palette, cfg.CodeLength, cfg.AllowRepetition)
	if err != nil {
		return nil, err
	}
	sc.cache.Add(key, all)
	return clonePool(all), nil
}

// Len reports how many configurations are cached.
func (sc *SpaceCache) Len() int { return sc.cache.Len() }

func spaceKey(cfg game.Config) string {
	names := make([]string, len(cfg.Palette))
	for i, c := range cfg.Palette {
		names[i] = string(c)
	}
	return fmt.Sprintf("%s|%d|%t", strings.Join(names, ","), cfg.CodeLength, cfg.AllowRepetition)
}

func clonePool(src []game.Code) []game.Code {
	out := make([]game.Code, len(src))
	copy(out, src)
	return out
}
