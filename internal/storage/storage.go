// internal/storage/storage.go
//
// Persistence gateway for the game registry.
// Responsibilities:
//   - Define the Gateway contract (Save full snapshot / Load full snapshot).
//   - Define the persisted record shape shared by every backend.
//   - Backfill a missing creation time on load.
//   - Open the configured backend (file, sqlite, redis, memory).
//
// Every backend error wraps game.ErrPersistence so callers can classify it.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robalobadob/wordle-registry/internal/game"
)

var (
	// ErrNoState reports that nothing has been saved yet.
	ErrNoState = errors.New("storage: no saved state")
	// ErrCorrupt reports saved state that cannot be decoded.
	ErrCorrupt = errors.New("storage: saved state is corrupt")
)

// Snapshot is the full registry contents, oldest game first.
type Snapshot struct {
	Games []game.Game
}

// Gateway saves and loads registry snapshots.
type Gateway interface {
	// Save replaces the stored state with snap.
	Save(ctx context.Context, snap Snapshot) error
	// Load returns the stored state, or ErrNoState if there is none.
	Load(ctx context.Context) (Snapshot, error)
	// Close releases any connection the backend holds.
	Close() error
}

// document is the persisted form: {"games":[...]}.
type document struct {
	Games []record `json:"games" yaml:"games"`
}

// record is one persisted game. Created is a pointer so a legacy document
// without the field can be told apart from one with a zero time.
type record struct {
	ID      string     `json:"id" yaml:"id"`
	Word    string     `json:"word" yaml:"word"`
	Guesses []string   `json:"guesses" yaml:"guesses"`
	Created *time.Time `json:"created,omitempty" yaml:"created,omitempty"`
}

func toDocument(snap Snapshot) document {
	doc := document{Games: make([]record, 0, len(snap.Games))}
	for _, g := range snap.Games {
		created := g.CreatedAt
		guesses := g.Guesses
		if guesses == nil {
			guesses = []string{}
		}
		doc.Games = append(doc.Games, record{ID: g.ID, Word: g.Target, Guesses: guesses, Created: &created})
	}
	return doc
}

// toSnapshot converts records back to games, stamping now on any record
// that has no creation time.
func toSnapshot(doc document, now time.Time) Snapshot {
	snap := Snapshot{Games: make([]game.Game, 0, len(doc.Games))}
	for _, rec := range doc.Games {
		created := now
		if rec.Created != nil {
			created = *rec.Created
		}
		guesses := rec.Guesses
		if guesses == nil {
			guesses = []string{}
		}
		snap.Games = append(snap.Games, game.Game{
			ID:        rec.ID,
			Target:    strings.ToLower(rec.Word),
			Guesses:   guesses,
			CreatedAt: created,
		})
	}
	return snap
}

func defaultNow() time.Time { return time.Now().UTC().Round(0) }

// persistErr wraps err as a persistence failure with context.
func persistErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", game.ErrPersistence, op, err)
}

// Config selects and configures a backend.
type Config struct {
	Backend        string // file | sqlite | redis | memory
	Path           string // file path or sqlite database path
	RedisAddr      string
	RedisNamespace string
}

// Backends lists the accepted Config.Backend values.
var Backends = []string{"file", "sqlite", "redis", "memory"}

// Open constructs the configured backend.
func Open(ctx context.Context, cfg Config) (Gateway, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileGateway(cfg.Path), nil
	case "sqlite":
		return OpenSQLite(ctx, cfg.Path)
	case "redis":
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisNamespace)
	case "memory":
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q (want one of %s)", cfg.Backend, strings.Join(Backends, ", "))
	}
}

// Discard is an ephemeral gateway: saves are dropped and loads find nothing.
type Discard struct{}

func (Discard) Save(context.Context, Snapshot) error   { return nil }
func (Discard) Load(context.Context) (Snapshot, error) { return Snapshot{}, ErrNoState }
func (Discard) Close() error                           { return nil }
