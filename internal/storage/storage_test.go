package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-registry/internal/game"
)

var (
	t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	t1 = time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC)
)

func sampleSnapshot() Snapshot {
	return Snapshot{Games: []game.Game{
		{ID: "g1", Target: "final", Guesses: []string{"crane", "pilot"}, CreatedAt: t0},
		{ID: "g2", Target: "husky", Guesses: []string{}, CreatedAt: t1},
	}}
}

// roundTrip exercises the contract shared by every persistent backend.
func roundTrip(t *testing.T, gw Gateway) {
	t.Helper()
	ctx := context.Background()

	_, err := gw.Load(ctx)
	require.ErrorIs(t, err, ErrNoState)

	require.NoError(t, gw.Save(ctx, sampleSnapshot()))
	got, err := gw.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Games, 2)
	assert.Equal(t, "g1", got.Games[0].ID)
	assert.Equal(t, "final", got.Games[0].Target)
	assert.Equal(t, []string{"crane", "pilot"}, got.Games[0].Guesses)
	assert.True(t, t0.Equal(got.Games[0].CreatedAt))
	assert.Equal(t, "g2", got.Games[1].ID)
	assert.Equal(t, []string{}, got.Games[1].Guesses)

	// a second save replaces, it does not append
	require.NoError(t, gw.Save(ctx, Snapshot{Games: sampleSnapshot().Games[:1]}))
	got, err = gw.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Games, 1)
}

func TestFileGatewayJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "save_data.json")
	roundTrip(t, NewFileGateway(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"games"`)
	assert.Contains(t, string(b), `"word": "final"`)
}

func TestFileGatewayYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save_data.yaml")
	roundTrip(t, NewFileGateway(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "word: final")
}

func TestFileGatewayNoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	gw := NewFileGateway(filepath.Join(dir, "save.json"))
	require.NoError(t, gw.Save(context.Background(), sampleSnapshot()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "save.json", entries[0].Name())
}

func TestFileGatewayCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileGateway(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.ErrorIs(t, err, game.ErrPersistence)
}

func TestFileGatewayLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	legacy := `{"games":[{"id":"old","word":"CRANE","guesses":["pilot"]},{"id":"bare","word":"final"}]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	gw := NewFileGateway(path)
	gw.now = func() time.Time { return t1 }
	got, err := gw.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Games, 2)
	assert.Equal(t, "crane", got.Games[0].Target)
	assert.Equal(t, t1, got.Games[0].CreatedAt)
	assert.Equal(t, []string{}, got.Games[1].Guesses)
}

func TestFileGatewaySaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	// parent "directory" is a regular file
	err := NewFileGateway(filepath.Join(blocker, "save.json")).Save(context.Background(), sampleSnapshot())
	assert.ErrorIs(t, err, game.ErrPersistence)
}

func TestSQLiteGateway(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "wordle.db")
	gw, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = gw.Close() })

	roundTrip(t, gw)
}

func TestSQLiteMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordle.db")
	ctx := context.Background()

	gw, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, gw.Save(ctx, sampleSnapshot()))
	require.NoError(t, gw.Close())

	gw, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer gw.Close()

	got, err := gw.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Games, 2)
}

func TestSQLiteGatewayNullCreatedAt(t *testing.T) {
	ctx := context.Background()
	gw, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "wordle.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = gw.Close() })

	_, err = gw.db.ExecContext(ctx,
		`INSERT INTO games (id, position, word, guesses, created_at) VALUES
			('old', 0, 'CRANE', '["pilot"]', NULL),
			('new', 1, 'final', '[]', ?)`, t0.Format(time.RFC3339Nano))
	require.NoError(t, err)

	gw.now = func() time.Time { return t1 }
	got, err := gw.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Games, 2)
	assert.Equal(t, "old", got.Games[0].ID)
	assert.Equal(t, "crane", got.Games[0].Target)
	assert.Equal(t, t1, got.Games[0].CreatedAt, "missing created_at is backfilled")
	assert.Equal(t, []string{"pilot"}, got.Games[0].Guesses)
	assert.Equal(t, t0, got.Games[1].CreatedAt)
}

func TestRedisGateway(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	gw := NewRedisGateway(client, "test")
	t.Cleanup(func() { _ = gw.Close() })

	roundTrip(t, gw)
	assert.True(t, mr.Exists("wordle:test:snapshot"))
}

func TestRedisGatewayCorrupt(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set(SnapshotKey(""), "nope"))

	gw, err := OpenRedis(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	defer gw.Close()

	_, err = gw.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRedisGatewayUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	gw, err := OpenRedis(context.Background(), mr.Addr(), "x")
	require.NoError(t, err)
	defer gw.Close()

	mr.Close()
	err = gw.Save(context.Background(), sampleSnapshot())
	assert.ErrorIs(t, err, game.ErrPersistence)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	gw, err := Open(ctx, Config{Path: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileGateway{}, gw)

	gw, err = Open(ctx, Config{Backend: "memory"})
	require.NoError(t, err)
	require.NoError(t, gw.Save(ctx, sampleSnapshot()))
	_, err = gw.Load(ctx)
	assert.ErrorIs(t, err, ErrNoState)

	_, err = Open(ctx, Config{Backend: "postgres"})
	assert.Error(t, err)
}
