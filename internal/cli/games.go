package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle-registry/internal/engine"
	"github.com/robalobadob/wordle-registry/internal/storage"
	"github.com/robalobadob/wordle-registry/internal/store"
)

func newGamesCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List saved games, newest first",
		Long: `List the games in the configured storage backend without starting the server.

Output Formats:
  default - table with short id, state, guesses used, last guess, target (once finished) and age
  --json  - line-delimited JSON, one game per line`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			gw, err := storage.Open(ctx, a.cfg.Storage())
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer gw.Close()

			snap, err := gw.Load(ctx)
			if err != nil && !errors.Is(err, storage.ErrNoState) {
				return fmt.Errorf("load games: %w", err)
			}

			reg := store.NewRegistry()
			reg.Restore(snap.Games)
			listed := reg.List()
			summaries := make([]engine.GameSummary, 0, len(listed))
			for _, g := range listed {
				summaries = append(summaries, engine.NewGameSummary(g))
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return FormatJSONL(out, summaries)
			}
			FormatTable(out, summaries, time.Now())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print line-delimited JSON")
	return cmd
}
