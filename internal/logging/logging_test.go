package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := Setup(Options{Level: "warn", Format: "json"}, &buf)
	defer closer.Close()
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logger.Info().Msg("hidden")
	logger.Warn().Str("gameId", "abc").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"gameId":"abc"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestSetupUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	_, closer := Setup(Options{Level: "loud", Format: "json"}, &buf)
	defer closer.Close()
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSetupFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "wordle.log")
	var buf bytes.Buffer
	logger, closer := Setup(Options{Level: "info", Format: "console", File: path, MaxSizeMB: 1}, &buf)

	logger.Info().Str("gameId", "abc").Msg("to both")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"gameId":"abc"`)
	assert.Contains(t, buf.String(), "to both")
}
