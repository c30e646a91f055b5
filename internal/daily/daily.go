// Package daily picks the same target word for everyone on a given UTC date.
package daily

import (
	"encoding/binary"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/wordle-registry/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using a BLAKE2b-256 MAC
// keyed by salt over the date key, reduced modulo answersLen.
func WordIndex(date time.Time, salt string, answersLen int) (int, error) {
	if answersLen <= 0 {
		return 0, game.ErrEmptyVocabulary
	}
	key := []byte(salt)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	h, err := blake2b.New256(key)
	if err != nil {
		return 0, fmt.Errorf("daily: keyed hash: %w", err)
	}
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen)), nil
}

// Picker chooses the daily answer. It satisfies store.WordPicker.
type Picker struct {
	Answers []string
	Salt    string
	Date    time.Time
}

// Pick returns the answer for p.Date. The same date and salt always pick the
// same word.
func (p Picker) Pick() (string, error) {
	idx, err := WordIndex(p.Date, p.Salt, len(p.Answers))
	if err != nil {
		return "", err
	}
	return p.Answers[idx], nil
}
