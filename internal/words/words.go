// internal/words/words.go
//
// Provides the immutable word source consulted by the engine.
//
// Responsibilities:
//   - Load answer and allowed guess lists from configured files or fall back to
//     the embedded defaults in the assets package.
//   - Maintain sets for quick lookups (answers, answers ∪ allowed).
//   - Pick uniformly random answers from an injectable PRNG.
//
// Word Lists:
//   - "answers": target words (exactly 5 lowercase letters).
//   - "allowed": valid guesses (always includes answers).
//
// Loading behavior (Load):
//  1. If both files are set, answers come from the first and allowed guesses
//     from the second.
//  2. If only the allowed file is set, it is used for both.
//  3. If neither is set, the embedded lists are used.
//
// Constraints:
//   - Words must be 5 alphabetic letters (a–z); anything else is dropped.
//   - Lists are normalized to lowercase.
//   - A Source never changes after construction.
package words

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/robalobadob/wordle-registry/assets"
	"github.com/robalobadob/wordle-registry/internal/game"
)

// Files names optional on-disk word lists.
type Files struct {
	Answers string // WORDS_ANSWERS_FILE
	Allowed string // WORDS_ALLOWED_FILE
}

// Source is an immutable vocabulary plus a random answer picker.
// It is safe for concurrent use.
type Source struct {
	answers    []string
	answersSet map[string]struct{}
	allowedSet map[string]struct{} // answers ∪ allowed

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
}

// Option configures a Source.
type Option func(*Source)

// WithSeed makes Pick deterministic.
func WithSeed(seed uint64) Option {
	return func(s *Source) {
		s.rnd = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// New builds a Source. Invalid words are dropped and duplicates collapsed;
// every answer is also an allowed guess.
func New(answers, allowed []string, opts ...Option) *Source {
	s := &Source{}
	s.answers = normalize(answers)
	s.answersSet = toSet(s.answers)
	s.allowedSet = toSet(s.answers)
	for _, w := range normalize(allowed) {
		s.allowedSet[w] = struct{}{}
	}

	now := uint64(time.Now().UnixNano())
	s.rnd = rand.New(rand.NewPCG(now, now>>1|1))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the configured files, or the embedded lists when none are set.
func Load(files Files, opts ...Option) (*Source, error) {
	var ansList, allowList []string
	var err error

	switch {
	case files.Answers != "" && files.Allowed != "":
		if ansList, err = readWordFile(files.Answers); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(files.Allowed); err != nil {
			return nil, err
		}

	case files.Allowed != "":
		if allowList, err = readWordFile(files.Allowed); err != nil {
			return nil, err
		}
		ansList = allowList

	case files.Answers != "":
		return nil, errors.New("words: answers file set without an allowed file")

	default:
		if ansList, allowList, err = assets.WordLists(); err != nil {
			return nil, fmt.Errorf("words: embedded lists: %w", err)
		}
	}

	s := New(ansList, allowList, opts...)
	if len(s.answers) == 0 {
		return nil, fmt.Errorf("words: %w", game.ErrEmptyVocabulary)
	}
	return s, nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open %s: %w", path, err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	return out, nil
}

// normalize lowercases, trims and keeps valid 5-letter words, first occurrence wins.
func normalize(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, line := range list {
		w := strings.TrimSpace(strings.ToLower(line))
		if len(w) != game.WordLength || !game.IsAlpha(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// Pick returns a uniformly chosen answer.
func (s *Source) Pick() (string, error) {
	if len(s.answers) == 0 {
		return "", game.ErrEmptyVocabulary
	}
	s.mu.Lock()
	i := s.rnd.IntN(len(s.answers))
	s.mu.Unlock()
	return s.answers[i], nil
}

// IsAllowed reports whether w is a valid guess (answers ∪ allowed).
func (s *Source) IsAllowed(w string) bool {
	_, ok := s.allowedSet[strings.ToLower(w)]
	return ok
}

// IsAnswer reports whether w is an answer word.
func (s *Source) IsAnswer(w string) bool {
	_, ok := s.answersSet[strings.ToLower(w)]
	return ok
}

// Answers returns a copy of the answer list in load order.
func (s *Source) Answers() []string {
	return append([]string(nil), s.answers...)
}

// Stats returns counts of loaded words: (answers, allowed).
func (s *Source) Stats() (answersCount int, allowedCount int) {
	return len(s.answers), len(s.allowedSet)
}
