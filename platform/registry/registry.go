// Package registry maps game ids to live engine instances and serializes
// access to each one. The engine assumes non-reentrancy, so every command
// for a game goes through With, which holds that game's lock for the whole
// operation; auction deadline timers use the same path and therefore close
// race-free against late bids.
package registry

import (
	"errors"
	"sync"

	"github.com/DedS3t/monopoly-engine/pkg/engine"
)

var ErrNotFound = errors.New("registry: game not running")

type entry struct {
	mu   sync.Mutex
	game *engine.Game
}

// Registry is safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	games map[string]*entry
}

func New() *Registry {
	return &Registry{games: make(map[string]*entry)}
}

// Put registers a running game.
func (r *Registry) Put(game *engine.Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[game.ID()] = &entry{game: game}
}

// Remove drops a finished or abandoned game.
func (r *Registry) Remove(gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, gameID)
}

// With runs fn with exclusive access to the game. Exactly one command per
// game executes at a time; commands for different games do not block each
// other.
func (r *Registry) With(gameID string, fn func(*engine.Game) error) error {
	r.mu.Lock()
	e, ok := r.games[gameID]
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.game)
}
