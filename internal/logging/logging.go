// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects level, console format and an optional rolling file.
type Options struct {
	Level     string // zerolog level name; unknown values fall back to info
	Format    string // console | json
	File      string // empty disables the file sink
	MaxSizeMB int
}

// Setup installs the global logger and returns it together with a closer for
// the file sink (a no-op when there is none).
func Setup(opts Options, stderr io.Writer) (zerolog.Logger, io.Closer) {
	lvl, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if stderr == nil {
		stderr = os.Stderr
	}
	var console io.Writer = stderr
	if opts.Format != "json" {
		console = zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05.000"}
	}

	var closer io.Closer = nopCloser{}
	out := console
	if opts.File != "" {
		_ = os.MkdirAll(filepath.Dir(opts.File), 0o755)
		size := opts.MaxSizeMB
		if size <= 0 {
			size = 50
		}
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    size, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		// file sink stays JSON regardless of the console format
		out = zerolog.MultiLevelWriter(console, file)
		closer = file
	}

	logger := zerolog.New(out).With().Timestamp().Logger()
	log.Logger = logger
	return logger, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
