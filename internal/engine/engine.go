// internal/engine/engine.go
//
// Orchestration core: the four operations the HTTP layer and CLI consume.
// Responsibilities:
//   - Create games from the word source (random) or the daily picker.
//   - Validate and apply guesses under the registry write lock.
//   - Persist the full registry after every mutation, outside the lock.
//   - Build read-only views (GameView / GameSummary) for callers.
//
// Notes:
//   - Persistence is best effort: a failed save is logged at error level and the
//     in-memory registry stays authoritative. The next mutation saves the full
//     snapshot again, which doubles as the retry.
//   - One writer at a time. A mutation that finds a save in flight marks the
//     registry dirty and returns; the writer saves again with a fresh snapshot,
//     so a later save never writes an older snapshot over a newer one and a
//     slow gateway never queues guesses behind each other.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-registry/internal/daily"
	"github.com/robalobadob/wordle-registry/internal/game"
	"github.com/robalobadob/wordle-registry/internal/storage"
	"github.com/robalobadob/wordle-registry/internal/store"
)

// Vocabulary is what the engine needs from the word source.
type Vocabulary interface {
	store.WordPicker
	IsAllowed(word string) bool
	Answers() []string
	Stats() (answers int, allowed int)
}

// Engine wires the registry, word source and gateway together.
type Engine struct {
	registry *store.Registry
	words    Vocabulary
	gateway  storage.Gateway
	log      zerolog.Logger
	salt     string

	saveMu       sync.Mutex
	saveIdle     *sync.Cond // signalled when saving goes false
	saving       bool       // a writer owns the gateway
	dirty        bool       // registry changed since the writer's last snapshot
	saveFailures int        // consecutive failed saves

	obsMu     sync.RWMutex
	observers []func(GameView)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the component logger (default: zerolog.Nop()).
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithDailySalt sets the key mixed into the daily word choice.
func WithDailySalt(salt string) Option {
	return func(e *Engine) { e.salt = salt }
}

// New constructs an Engine. All three collaborators are required.
func New(registry *store.Registry, words Vocabulary, gateway storage.Gateway, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		words:    words,
		gateway:  gateway,
		log:      zerolog.Nop(),
		salt:     "local_dev_salt",
	}
	e.saveIdle = sync.NewCond(&e.saveMu)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Subscribe registers fn to receive the view of every game after a guess is
// accepted. fn runs synchronously on the submitting goroutine and must not block.
// Guesses on one game submitted concurrently may be observed out of order;
// GuessesUsed only grows, so observers keep the highest.
func (e *Engine) Subscribe(fn func(GameView)) {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	e.observers = append(e.observers, fn)
}

func (e *Engine) notify(v GameView) {
	e.obsMu.RLock()
	defer e.obsMu.RUnlock()
	for _, fn := range e.observers {
		fn(v)
	}
}

// CreateGame starts a game with a uniformly random answer and returns its id.
func (e *Engine) CreateGame(ctx context.Context) (string, error) {
	return e.create(ctx, e.words, "random")
}

// CreateDailyGame starts a game whose answer is the daily word for date.
func (e *Engine) CreateDailyGame(ctx context.Context, date time.Time) (string, error) {
	p := daily.Picker{Answers: e.words.Answers(), Salt: e.salt, Date: date}
	return e.create(ctx, p, "daily")
}

func (e *Engine) create(ctx context.Context, picker store.WordPicker, mode string) (string, error) {
	g, err := e.registry.Create(picker)
	if err != nil {
		e.log.Warn().Err(err).Str("mode", mode).Msg("create game")
		return "", err
	}
	e.log.Info().Str("gameId", g.ID).Str("mode", mode).Msg("game created")
	e.persist(context.WithoutCancel(ctx))
	return g.ID, nil
}

// SubmitGuess validates word against game id and appends it.
//
// Checks run in order: unknown game, finished game, wrong length, not a word.
// A rejected guess leaves the game untouched and nothing is saved.
func (e *Engine) SubmitGuess(ctx context.Context, id, word string) (GameView, error) {
	word = strings.ToLower(strings.TrimSpace(word))

	g, err := e.registry.Mutate(id, func(g *game.Game) error {
		if g.IsComplete() {
			return fmt.Errorf("%w: %s", game.ErrGameAlreadyComplete, game.ShortID(g.ID))
		}
		if got, want := utf8.RuneCountInString(word), utf8.RuneCountInString(g.Target); got != want {
			return fmt.Errorf("%w: got %d letters, want %d", game.ErrInvalidGuessLength, got, want)
		}
		if !game.IsAlpha(word) || !e.words.IsAllowed(word) {
			return fmt.Errorf("%w: %q", game.ErrNotAWord, word)
		}
		g.AddGuess(word)
		return nil
	})
	if err != nil {
		if !errors.Is(err, game.ErrNotFound) {
			e.log.Debug().Err(err).Str("gameId", id).Msg("guess rejected")
		}
		return GameView{}, err
	}

	v := NewGameView(g)
	e.log.Info().
		Str("gameId", g.ID).
		Int("guesses", len(g.Guesses)).
		Str("state", v.State).
		Msg("guess accepted")

	e.persist(context.WithoutCancel(ctx))
	e.notify(v)
	return v, nil
}

// GetGame returns the current view of a game.
func (e *Engine) GetGame(id string) (GameView, bool) {
	g, ok := e.registry.Get(id)
	if !ok {
		return GameView{}, false
	}
	return NewGameView(g), true
}

// ListGames returns every game, newest first.
func (e *Engine) ListGames() []GameSummary {
	games := e.registry.List()
	out := make([]GameSummary, 0, len(games))
	for _, g := range games {
		out = append(out, NewGameSummary(g))
	}
	return out
}

// WordStats reports the vocabulary sizes (answers, allowed).
func (e *Engine) WordStats() (answers int, allowed int) { return e.words.Stats() }

// Restore loads the saved snapshot into the registry and returns how many
// games were restored. Nothing saved yet is not an error. A corrupt snapshot is
// logged and the registry starts empty; the next save replaces it.
func (e *Engine) Restore(ctx context.Context) (int, error) {
	snap, err := e.gateway.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNoState):
		e.log.Info().Msg("no saved games; starting empty")
		return 0, nil
	case errors.Is(err, storage.ErrCorrupt):
		e.log.Warn().Err(err).Msg("saved games unreadable; starting empty")
		return 0, nil
	case err != nil:
		return 0, err
	}
	n := e.registry.Restore(snap.Games)
	if skipped := len(snap.Games) - n; skipped > 0 {
		e.log.Warn().Int("skipped", skipped).Msg("dropped invalid or duplicate saved games")
	}
	e.log.Info().Int("games", n).Msg("registry restored")
	return n, nil
}

// Flush waits for any in-flight save, then saves the current registry and
// reports the outcome. Used at shutdown.
func (e *Engine) Flush(ctx context.Context) error {
	e.saveMu.Lock()
	for e.saving {
		e.saveIdle.Wait()
	}
	e.saving = true
	e.saveMu.Unlock()
	return e.lead(ctx)
}

// persist requests a save after a mutation. If a writer is already running it
// only marks the registry dirty; otherwise the caller becomes the writer for
// one save and hands any later changes to a background drain.
func (e *Engine) persist(ctx context.Context) {
	e.saveMu.Lock()
	e.dirty = true
	if e.saving {
		e.saveMu.Unlock()
		return
	}
	e.saving = true
	e.saveMu.Unlock()
	_ = e.lead(ctx)
}

// lead runs one save as the writer, then releases the writer role or passes
// it to a drain goroutine if the registry changed meanwhile.
func (e *Engine) lead(ctx context.Context) error {
	err := e.saveOnce(ctx)
	if e.release() {
		go e.drain(context.WithoutCancel(ctx))
	}
	return err
}

func (e *Engine) drain(ctx context.Context) {
	for {
		_ = e.saveOnce(ctx)
		if !e.release() {
			return
		}
	}
}

// release gives up the writer role unless the registry is dirty, in which
// case the caller keeps it and must save again.
func (e *Engine) release() bool {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	if e.dirty {
		return true
	}
	e.saving = false
	e.saveIdle.Broadcast()
	return false
}

// saveOnce snapshots the registry and saves it. Only the writer calls it.
func (e *Engine) saveOnce(ctx context.Context) error {
	e.saveMu.Lock()
	e.dirty = false
	e.saveMu.Unlock()

	snap := storage.Snapshot{Games: e.registry.Snapshot()}
	err := e.gateway.Save(ctx, snap)

	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	if err != nil {
		e.saveFailures++
		e.log.Error().Err(err).
			Int("games", len(snap.Games)).
			Int("consecutiveFailures", e.saveFailures).
			Msg("persist registry failed; in-memory state kept")
		return err
	}
	if e.saveFailures > 0 {
		e.log.Info().Int("afterFailures", e.saveFailures).Msg("persist registry recovered")
		e.saveFailures = 0
	}
	return nil
}
