package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle-registry/internal/game"
)

func newScoreCmd(_ *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "score <guess> <target>",
		Short: "Score a guess against a target and print the verdicts",
		Example: `  wordle score eerie crane
  wordle score --json smell slate`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			guess := strings.ToLower(strings.TrimSpace(args[0]))
			target := strings.ToLower(strings.TrimSpace(args[1]))
			if utf8.RuneCountInString(guess) != utf8.RuneCountInString(target) {
				return fmt.Errorf("%w: %q has %d letters, %q has %d", game.ErrInvalidGuessLength,
					guess, utf8.RuneCountInString(guess), target, utf8.RuneCountInString(target))
			}

			vs := game.Score(guess, target)
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(vs)
			}
			FormatVerdicts(out, vs)
			if game.AllCorrect(vs) {
				green.Fprintln(out, "solved")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the verdicts as JSON")
	return cmd
}
