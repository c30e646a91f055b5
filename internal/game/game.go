// internal/game/game.go
//
// Game lifecycle for a single Wordle puzzle.
// Responsibilities:
//   - Construct games with a fixed, lowercased target.
//   - Append guesses (append-only, bounded by MaxGuesses).
//   - Derive victory/loss/completion from the guess history.
//   - Build the padded board and the aggregated keyboard for presentation.
//
// Notes:
//   - A Game trusts its caller: word-list membership and length are validated
//     by the engine before AddGuess is called.
//   - Derived views are recomputed from Guesses on every call.
package game

import (
	"strings"
	"time"
)

// KeyboardLayout lists the alphabet in on-screen keyboard order.
const KeyboardLayout = "qwertyuiopasdfghjklzxcvbnm"

// placeholderLetter fills unused board rows.
const placeholderLetter = "-"

// New constructs a game for target. The target is lowercased.
func New(id, target string, createdAt time.Time) *Game {
	return &Game{
		ID:        id,
		Target:    strings.ToLower(strings.TrimSpace(target)),
		Guesses:   []string{},
		CreatedAt: createdAt,
	}
}

// AddGuess appends word to the history.
// It refuses (returns false) once the game is complete so the MaxGuesses bound holds.
func (g *Game) AddGuess(word string) bool {
	if g.IsComplete() {
		return false
	}
	g.Guesses = append(g.Guesses, word)
	return true
}

// IsVictory reports whether the target has been guessed.
func (g *Game) IsVictory() bool {
	for _, w := range g.Guesses {
		if w == g.Target {
			return true
		}
	}
	return false
}

// IsLoss reports whether every row is used without guessing the target.
func (g *Game) IsLoss() bool {
	return len(g.Guesses) >= MaxGuesses && !g.IsVictory()
}

// IsComplete reports whether no more guesses are accepted.
func (g *Game) IsComplete() bool {
	return len(g.Guesses) >= MaxGuesses || g.IsVictory()
}

// State reports a coarse string representation of the current game state.
func (g *Game) State() string {
	switch {
	case g.IsVictory():
		return "won"
	case g.IsLoss():
		return "lost"
	default:
		return "playing"
	}
}

// LastGuess returns the most recent guess, or "" when none was made.
func (g *Game) LastGuess() string {
	if len(g.Guesses) == 0 {
		return ""
	}
	return g.Guesses[len(g.Guesses)-1]
}

// Rows returns exactly MaxGuesses rows: scored guesses first, then placeholder
// rows of Unknown verdicts sized to the target.
func (g *Game) Rows() [][]LetterVerdict {
	rows := make([][]LetterVerdict, MaxGuesses)
	for i := range rows {
		if i < len(g.Guesses) {
			rows[i] = Score(g.Guesses[i], g.Target)
			continue
		}
		rows[i] = emptyRow(len([]rune(g.Target)))
	}
	return rows
}

func emptyRow(n int) []LetterVerdict {
	row := make([]LetterVerdict, n)
	for i := range row {
		row[i] = LetterVerdict{Letter: placeholderLetter, Outcome: OutcomeUnknown}
	}
	return row
}

// Keyboard folds the best known outcome of every letter across all guesses.
// Letters no guess has touched stay Unknown.
func (g *Game) Keyboard() map[string]Outcome {
	keys := make(map[string]Outcome, len(KeyboardLayout))
	for _, r := range KeyboardLayout {
		keys[string(r)] = OutcomeUnknown
	}
	for _, guess := range g.Guesses {
		for _, v := range Score(guess, g.Target) {
			if v.Outcome > keys[v.Letter] {
				keys[v.Letter] = v.Outcome
			}
		}
	}
	return keys
}

// KeyboardRows splits KeyboardLayout into the three on-screen rows.
func KeyboardRows() []string {
	return []string{KeyboardLayout[:10], KeyboardLayout[10:19], KeyboardLayout[19:]}
}

// Clone returns a deep copy that shares no memory with g.
func (g *Game) Clone() Game {
	c := *g
	c.Guesses = append(make([]string, 0, len(g.Guesses)), g.Guesses...)
	return c
}

// ShortID returns the first 8 characters of an identifier, used in listings.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// IsAlpha checks that a string consists only of lowercase a–z.
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
