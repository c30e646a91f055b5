// Package cli holds the cobra command tree: serve, games and score.
package cli

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle-registry/internal/config"
	"github.com/robalobadob/wordle-registry/internal/logging"
)

// Version is stamped at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "0.1.0"

// app carries what every subcommand needs once flags are resolved.
type app struct {
	cfg       config.Config
	log       zerolog.Logger
	logCloser io.Closer
}

// NewRootCmd builds the command tree. Settings are persistent flags on the
// root so every subcommand sees the same configuration.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "wordle",
		Short:         "Wordle game engine with a persistent registry of live games.",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Resolve(cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			a.log, a.logCloser = logging.Setup(logging.Options{
				Level:     a.cfg.LogLevel,
				Format:    a.cfg.LogFormat,
				File:      a.cfg.LogFile,
				MaxSizeMB: a.cfg.LogMaxSizeMB,
			}, cmd.ErrOrStderr())
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.logCloser != nil {
				return a.logCloser.Close()
			}
			return nil
		},
	}

	config.RegisterFlags(cmd.PersistentFlags(), &a.cfg)

	cmd.AddCommand(newServeCmd(a), newGamesCmd(a), newScoreCmd(a))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("wordle v{{.Version}}\n")

	return cmd
}
