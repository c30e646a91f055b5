// internal/game/types.go
//
// Core type definitions for the Wordle game engine.
// Defines:
//   - Outcome: per-letter result of a guess (correct/wrong_position/absent).
//   - LetterVerdict: one scored letter.
//   - Game: state for a single in-progress or finished game.

package game

import (
	"fmt"
	"time"
)

const (
	// MaxGuesses is the number of rows on the board.
	MaxGuesses = 6
	// WordLength is the length of every target word.
	WordLength = 5
)

// Outcome represents the evaluation result for a single letter in a guess.
// Values are ordered so that a larger Outcome is better-known information:
//
//	Unknown < Absent < WrongPosition < Correct
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeAbsent
	OutcomeWrongPosition
	OutcomeCorrect
)

var outcomeNames = [...]string{
	OutcomeUnknown:       "unknown",
	OutcomeAbsent:        "absent",
	OutcomeWrongPosition: "wrong_position",
	OutcomeCorrect:       "correct",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// MarshalText encodes the outcome by name so JSON and YAML stay readable.
func (o Outcome) MarshalText() ([]byte, error) {
	if o < 0 || int(o) >= len(outcomeNames) {
		return nil, fmt.Errorf("game: invalid outcome %d", int(o))
	}
	return []byte(outcomeNames[o]), nil
}

// UnmarshalText parses an outcome name.
func (o *Outcome) UnmarshalText(b []byte) error {
	for i, name := range outcomeNames {
		if name == string(b) {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("game: unknown outcome %q", string(b))
}

// LetterVerdict is the scored form of one guessed letter.
type LetterVerdict struct {
	Letter  string  `json:"letter"`
	Outcome Outcome `json:"outcome"`
}

// Game holds the state of a single Wordle game.
// Completion, victory and loss are derived from Guesses and never stored.
type Game struct {
	ID        string    // Unique game identifier (UUID v4 string).
	Target    string    // The solution word (always lowercase).
	Guesses   []string  // Guesses made so far, oldest first (lowercase).
	CreatedAt time.Time // Creation time (UTC).
}
