// internal/store/memory.go
//
// In-memory registry of live games.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Callers only ever see copies; the registry owns every Game.
//   - Critical sections are O(1) map work; no I/O happens under the lock.
package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordle-registry/internal/game"
)

// WordPicker supplies the target for a new game.
// Implemented by words.Source and daily.Picker.
type WordPicker interface {
	Pick() (string, error)
}

// Registry is the single owner of all games in the process.
type Registry struct {
	mu    sync.RWMutex          // guards games
	games map[string]*game.Game // keyed by Game.ID

	now   func() time.Time
	newID func() string
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithIDGenerator overrides game identity generation.
func WithIDGenerator(newID func() string) Option {
	return func(r *Registry) { r.newID = newID }
}

// NewRegistry constructs an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		games: make(map[string]*game.Game),
		now:   func() time.Time { return time.Now().UTC().Round(0) },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create picks a target from picker, inserts a new game and returns it.
// Nothing is inserted when the picker fails.
func (r *Registry) Create(picker WordPicker) (game.Game, error) {
	target, err := picker.Pick()
	if err != nil {
		return game.Game{}, fmt.Errorf("create game: %w", err)
	}
	if target == "" {
		return game.Game{}, fmt.Errorf("create game: %w", game.ErrEmptyVocabulary)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.newID()
	for _, taken := r.games[id]; taken; _, taken = r.games[id] {
		id = r.newID()
	}
	g := game.New(id, target, r.now())
	r.games[id] = g
	return g.Clone(), nil
}

// Get returns a copy of the game, or false if the id is unknown.
func (r *Registry) Get(id string) (game.Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok {
		return game.Game{}, false
	}
	return g.Clone(), true
}

// Mutate runs fn with exclusive access to one game and returns a copy of the
// result. fn must leave the game untouched when it returns an error.
func (r *Registry) Mutate(id string, fn func(*game.Game) error) (game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return game.Game{}, fmt.Errorf("%w: %s", game.ErrNotFound, id)
	}
	if err := fn(g); err != nil {
		return g.Clone(), err
	}
	return g.Clone(), nil
}

// List returns every game, newest first.
func (r *Registry) List() []game.Game {
	out := r.copyAll()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Snapshot returns every game, oldest first, for persistence.
func (r *Registry) Snapshot() []game.Game {
	out := r.copyAll()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Registry) copyAll() []game.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]game.Game, 0, len(r.games))
	for _, g := range r.games {
		out = append(out, g.Clone())
	}
	return out
}

// Restore replaces the registry contents with games and returns how many were
// kept. Games without an id or target are skipped; a later duplicate id wins.
func (r *Registry) Restore(games []game.Game) int {
	next := make(map[string]*game.Game, len(games))
	for i := range games {
		g := games[i].Clone()
		if g.ID == "" || g.Target == "" {
			continue
		}
		next[g.ID] = &g
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.games = next
	return len(next)
}

// Len returns the number of games.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
