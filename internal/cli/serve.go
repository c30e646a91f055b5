package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle-registry/internal/engine"
	"github.com/robalobadob/wordle-registry/internal/httpserver"
	"github.com/robalobadob/wordle-registry/internal/storage"
	"github.com/robalobadob/wordle-registry/internal/store"
	"github.com/robalobadob/wordle-registry/internal/words"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

// serve builds the word source, gateway, registry and engine, restores saved
// games, and serves until ctx is cancelled. The registry is flushed on the way out.
func (a *app) serve(ctx context.Context) error {
	src, err := words.Load(a.cfg.Words(), a.cfg.WordOptions()...)
	if err != nil {
		return fmt.Errorf("load word lists: %w", err)
	}
	answers, allowed := src.Stats()
	a.log.Info().Int("answers", answers).Int("allowed", allowed).Msg("word lists loaded")

	gw, err := storage.Open(ctx, a.cfg.Storage())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := gw.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close storage")
		}
	}()
	a.log.Info().Str("backend", a.cfg.StorageBackend).Msg("storage ready")

	eng := engine.New(store.NewRegistry(), src, gw,
		engine.WithLogger(a.log.With().Str("component", "engine").Logger()),
		engine.WithDailySalt(a.cfg.DailySalt),
	)
	if _, err := eng.Restore(ctx); err != nil {
		return fmt.Errorf("restore games: %w", err)
	}

	srv := httpserver.New(eng, httpserver.Options{
		ClientOrigin:   a.cfg.ClientOrigin,
		RequestTimeout: a.cfg.RequestTimeout,
		Logger:         a.log.With().Str("component", "http").Logger(),
	})
	serveErr := srv.Serve(ctx, a.cfg.Addr())

	if err := eng.Flush(context.WithoutCancel(ctx)); err != nil {
		a.log.Error().Err(err).Msg("final save failed")
	} else {
		a.log.Info().Msg("registry saved")
	}
	return serveErr
}
