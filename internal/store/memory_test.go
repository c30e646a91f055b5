package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-registry/internal/game"
)

type fixedPicker struct {
	word string
	err  error
}

func (p fixedPicker) Pick() (string, error) { return p.word, p.err }

// steppingClock returns t0, t0+1m, t0+2m, ...
func steppingClock(t0 time.Time) func() time.Time {
	var mu sync.Mutex
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return t0.Add(time.Duration(n-1) * time.Minute)
	}
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("game-%03d", n)
	}
}

func TestCreateAndGet(t *testing.T) {
	r := NewRegistry()
	g, err := r.Create(fixedPicker{word: "FINAL"})
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "final", g.Target)
	assert.False(t, g.CreatedAt.IsZero())
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get(g.ID)
	require.True(t, ok)
	assert.Equal(t, g, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestCreateEmptyVocabulary(t *testing.T) {
	r := NewRegistry()

	_, err := r.Create(fixedPicker{err: game.ErrEmptyVocabulary})
	assert.ErrorIs(t, err, game.ErrEmptyVocabulary)

	_, err = r.Create(fixedPicker{})
	assert.ErrorIs(t, err, game.ErrEmptyVocabulary)

	assert.Equal(t, 0, r.Len())
}

func TestCreateRetriesIDCollision(t *testing.T) {
	ids := []string{"dup", "dup", "fresh"}
	i := 0
	r := NewRegistry(WithIDGenerator(func() string { i++; return ids[i-1] }))

	a, err := r.Create(fixedPicker{word: "crane"})
	require.NoError(t, err)
	b, err := r.Create(fixedPicker{word: "final"})
	require.NoError(t, err)
	assert.Equal(t, "dup", a.ID)
	assert.Equal(t, "fresh", b.ID)
}

func TestGetReturnsCopy(t *testing.T) {
	r := NewRegistry()
	g, err := r.Create(fixedPicker{word: "final"})
	require.NoError(t, err)

	cp, _ := r.Get(g.ID)
	cp.Guesses = append(cp.Guesses, "crane")

	again, _ := r.Get(g.ID)
	assert.Empty(t, again.Guesses)
}

func TestMutate(t *testing.T) {
	r := NewRegistry()
	g, err := r.Create(fixedPicker{word: "final"})
	require.NoError(t, err)

	t.Run("appends", func(t *testing.T) {
		out, err := r.Mutate(g.ID, func(g *game.Game) error {
			g.AddGuess("crane")
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"crane"}, out.Guesses)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := r.Mutate("missing", func(*game.Game) error { return nil })
		assert.ErrorIs(t, err, game.ErrNotFound)
	})

	t.Run("fn error propagates", func(t *testing.T) {
		boom := errors.New("boom")
		out, err := r.Mutate(g.ID, func(*game.Game) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"crane"}, out.Guesses)
	})
}

func TestListNewestFirstAndSnapshotOldestFirst(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r := NewRegistry(WithClock(steppingClock(t0)), WithIDGenerator(sequentialIDs()))
	for _, w := range []string{"crane", "final", "pilot"} {
		_, err := r.Create(fixedPicker{word: w})
		require.NoError(t, err)
	}

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"game-003", "game-002", "game-001"}, []string{list[0].ID, list[1].ID, list[2].ID})

	snap := r.Snapshot()
	assert.Equal(t, []string{"game-001", "game-002", "game-003"}, []string{snap[0].ID, snap[1].ID, snap[2].ID})
}

func TestListTiesBreakByID(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r := NewRegistry(WithClock(func() time.Time { return t0 }), WithIDGenerator(sequentialIDs()))
	for i := 0; i < 3; i++ {
		_, err := r.Create(fixedPicker{word: "crane"})
		require.NoError(t, err)
	}
	list := r.List()
	assert.Equal(t, "game-001", list[0].ID)
	assert.Equal(t, "game-003", list[2].ID)
}

func TestRestore(t *testing.T) {
	r := NewRegistry()
	_, err := r.Create(fixedPicker{word: "crane"})
	require.NoError(t, err)

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	n := r.Restore([]game.Game{
		{ID: "a", Target: "final", Guesses: []string{"crane"}, CreatedAt: created},
		{ID: "", Target: "final"},
		{ID: "b", Target: ""},
		{ID: "a", Target: "pilot", CreatedAt: created},
	})
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, r.Len())

	g, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "pilot", g.Target)
}

func TestConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	ids := make([]string, 8)
	for i := range ids {
		g, err := r.Create(fixedPicker{word: "final"})
		require.NoError(t, err)
		ids[i] = g.ID
	}

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(2)
		id := ids[i%len(ids)]
		go func() {
			defer wg.Done()
			_, _ = r.Mutate(id, func(g *game.Game) error {
				g.AddGuess("crane")
				return nil
			})
		}()
		go func() {
			defer wg.Done()
			_, _ = r.Get(id)
			_ = r.List()
		}()
	}
	wg.Wait()

	for _, id := range ids {
		g, ok := r.Get(id)
		require.True(t, ok)
		assert.Len(t, g.Guesses, game.MaxGuesses)
	}
}
