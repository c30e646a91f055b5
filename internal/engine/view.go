package engine

import (
	"time"

	"github.com/robalobadob/wordle-registry/internal/game"
)

// GameView is everything a client needs to draw one game.
// Target is only filled once the game is complete.
type GameView struct {
	ID          string                  `json:"id"`
	ShortID     string                  `json:"shortId"`
	Target      string                  `json:"target,omitempty"`
	Guesses     []string                `json:"guesses"`
	Rows        [][]game.LetterVerdict  `json:"rows"`
	Keyboard    map[string]game.Outcome `json:"keyboard"`
	KeyRows     []string                `json:"keyRows"`
	GuessesUsed int                     `json:"guessesUsed"`
	MaxGuesses  int                     `json:"maxGuesses"`
	State       string                  `json:"state"` // playing | won | lost
	Complete    bool                    `json:"complete"`
	Victory     bool                    `json:"victory"`
	Loss        bool                    `json:"loss"`
	CreatedAt   time.Time               `json:"createdAt"`
}

// NewGameView derives the view from g.
func NewGameView(g game.Game) GameView {
	v := GameView{
		ID:          g.ID,
		ShortID:     game.ShortID(g.ID),
		Guesses:     append(make([]string, 0, len(g.Guesses)), g.Guesses...),
		Rows:        g.Rows(),
		Keyboard:    g.Keyboard(),
		KeyRows:     game.KeyboardRows(),
		GuessesUsed: len(g.Guesses),
		MaxGuesses:  game.MaxGuesses,
		State:       g.State(),
		Complete:    g.IsComplete(),
		Victory:     g.IsVictory(),
		Loss:        g.IsLoss(),
		CreatedAt:   g.CreatedAt,
	}
	if v.Complete {
		v.Target = g.Target
	}
	return v
}

// GameSummary is one line of the game listing.
type GameSummary struct {
	ID          string    `json:"id"`
	ShortID     string    `json:"shortId"`
	Target      string    `json:"target,omitempty"`
	LastGuess   string    `json:"lastGuess,omitempty"`
	GuessesUsed int       `json:"guessesUsed"`
	MaxGuesses  int       `json:"maxGuesses"`
	State       string    `json:"state"`
	Complete    bool      `json:"complete"`
	Victory     bool      `json:"victory"`
	Loss        bool      `json:"loss"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewGameSummary derives the listing row from g.
func NewGameSummary(g game.Game) GameSummary {
	s := GameSummary{
		ID:          g.ID,
		ShortID:     game.ShortID(g.ID),
		LastGuess:   g.LastGuess(),
		GuessesUsed: len(g.Guesses),
		MaxGuesses:  game.MaxGuesses,
		State:       g.State(),
		Complete:    g.IsComplete(),
		Victory:     g.IsVictory(),
		Loss:        g.IsLoss(),
		CreatedAt:   g.CreatedAt,
	}
	if s.Complete {
		s.Target = g.Target
	}
	return s
}
