// internal/store/memory.go
//
// In-memory implementation of the Store interface for game sessions.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex; Update runs the mutation under the write lock,
//     so two guesses on the same game never interleave.
//   - Get hands out a copy, never the stored pointer.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/codebreaker/internal/game"
)

var ErrNotFound = errors.New("game not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or replaces a game.
	Save(ctx context.Context, g *game.Game) error

	// Get returns a snapshot of a game, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Update applies fn to the stored game atomically. The error from fn is
	// returned as is; the game keeps whatever fn changed before failing.
	Update(ctx context.Context, id string, fn func(g *game.Game) error) error
}

type memory struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Game)}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return snapshot(g), nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(g *game.Game) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return ErrNotFound
	}
	return fn(g)
}

func snapshot(g *game.Game) *game.Game {
	cp := *g
	cp.Secret = g.Secret.Clone()
	cp.Moves = append([]game.Move(nil), g.Moves...)
	return &cp
}
