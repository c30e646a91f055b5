package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/robalobadob/wordle-registry/internal/engine"
	"github.com/robalobadob/wordle-registry/internal/game"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	faint  = color.New(color.Faint)
)

// FormatTable writes game summaries as a padded table, newest first as given.
// Returns the number of games written.
func FormatTable(w io.Writer, games []engine.GameSummary, now time.Time) int {
	if len(games) == 0 {
		fmt.Fprintln(w, "No games saved")
		return 0
	}

	fmt.Fprintf(w, "%-8s  %-7s  %-7s  %-5s  %-6s  %s\n",
		"ID", "STATE", "GUESSES", "LAST", "TARGET", "AGE")
	fmt.Fprintf(w, "%-8s  %-7s  %-7s  %-5s  %-6s  %s\n",
		"--------", "-------", "-------", "-----", "------", "--------")

	for _, g := range games {
		fmt.Fprintf(w, "%-8s  %s  %-7s  %-5s  %-6s  %s\n",
			g.ShortID,
			stateColor(g.State).Sprintf("%-7s", g.State),
			fmt.Sprintf("%d/%d", g.GuessesUsed, g.MaxGuesses),
			orDash(g.LastGuess),
			orDash(g.Target),
			formatAge(now.Sub(g.CreatedAt)),
		)
	}

	noun := "game"
	if len(games) != 1 {
		noun = "games"
	}
	fmt.Fprintf(w, "\n%d %s\n", len(games), noun)
	return len(games)
}

// FormatJSONL writes one JSON object per game per line.
func FormatJSONL(w io.Writer, games []engine.GameSummary) error {
	for _, g := range games {
		data, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("failed to marshal game to JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

// FormatVerdicts renders a scored row as coloured upper-case letters followed
// by the outcome names.
func FormatVerdicts(w io.Writer, vs []game.LetterVerdict) {
	letters := make([]string, len(vs))
	names := make([]string, len(vs))
	for i, v := range vs {
		letters[i] = outcomeColor(v.Outcome).Sprint(strings.ToUpper(v.Letter))
		names[i] = v.Outcome.String()
	}
	fmt.Fprintln(w, strings.Join(letters, " "))
	fmt.Fprintln(w, strings.Join(names, " "))
}

func stateColor(state string) *color.Color {
	switch state {
	case "won":
		return green
	case "lost":
		return red
	default:
		return yellow
	}
}

func outcomeColor(o game.Outcome) *color.Color {
	switch o {
	case game.OutcomeCorrect:
		return green
	case game.OutcomeWrongPosition:
		return yellow
	default:
		return faint
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatAge renders d as a compact relative age (45s, 12m, 3h, 2d).
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
