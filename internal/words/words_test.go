package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-registry/internal/game"
)

func writeList(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewNormalizes(t *testing.T) {
	s := New([]string{" CRANE ", "crane", "toolong", "ab1cd", "final"}, []string{"Smell", "four"})

	assert.Equal(t, []string{"crane", "final"}, s.Answers())
	a, g := s.Stats()
	assert.Equal(t, 2, a)
	assert.Equal(t, 3, g)

	assert.True(t, s.IsAllowed("crane"))
	assert.True(t, s.IsAllowed("SMELL"))
	assert.False(t, s.IsAllowed("four"))
	assert.True(t, s.IsAnswer("final"))
	assert.False(t, s.IsAnswer("smell"))
}

func TestPickEmptyVocabulary(t *testing.T) {
	s := New(nil, []string{"smell"})
	_, err := s.Pick()
	assert.ErrorIs(t, err, game.ErrEmptyVocabulary)
}

func TestPickSeeded(t *testing.T) {
	list := []string{"crane", "final", "pilot", "husky", "badge", "epoxy"}
	a := New(list, nil, WithSeed(7))
	b := New(list, nil, WithSeed(7))
	for i := 0; i < 20; i++ {
		wa, err := a.Pick()
		require.NoError(t, err)
		wb, err := b.Pick()
		require.NoError(t, err)
		assert.Equal(t, wa, wb)
		assert.True(t, a.IsAnswer(wa))
	}
}

func TestPickCoversVocabulary(t *testing.T) {
	list := []string{"crane", "final", "pilot"}
	s := New(list, nil, WithSeed(1))
	seen := map[string]int{}
	for i := 0; i < 3000; i++ {
		w, err := s.Pick()
		require.NoError(t, err)
		seen[w]++
	}
	require.Len(t, seen, 3)
	for w, n := range seen {
		assert.InDelta(t, 1000, n, 150, "word %s", w)
	}
}

func TestAnswersReturnsCopy(t *testing.T) {
	s := New([]string{"crane"}, nil)
	got := s.Answers()
	got[0] = "zzzzz"
	assert.Equal(t, []string{"crane"}, s.Answers())
}

func TestLoadEmbedded(t *testing.T) {
	s, err := Load(Files{})
	require.NoError(t, err)
	a, g := s.Stats()
	assert.Greater(t, a, 100)
	assert.Greater(t, g, a)
	for _, w := range []string{"crane", "pilot", "husky", "badge", "epoxy", "final", "smell", "slate", "wrong"} {
		assert.True(t, s.IsAllowed(w), w)
	}
	assert.True(t, s.IsAllowed("adieu"))
	assert.False(t, s.IsAnswer("adieu"))
}

func TestLoadFiles(t *testing.T) {
	answers := writeList(t, "answers.txt", "Crane", "final", "", "nope")
	allowed := writeList(t, "allowed.txt", "smell", "slate")

	t.Run("both files", func(t *testing.T) {
		s, err := Load(Files{Answers: answers, Allowed: allowed})
		require.NoError(t, err)
		assert.Equal(t, []string{"crane", "final"}, s.Answers())
		assert.True(t, s.IsAllowed("smell"))
		assert.True(t, s.IsAllowed("crane"))
	})

	t.Run("allowed only is used for both", func(t *testing.T) {
		s, err := Load(Files{Allowed: allowed})
		require.NoError(t, err)
		assert.Equal(t, []string{"smell", "slate"}, s.Answers())
	})

	t.Run("answers only is rejected", func(t *testing.T) {
		_, err := Load(Files{Answers: answers})
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(Files{Allowed: filepath.Join(t.TempDir(), "missing.txt")})
		assert.Error(t, err)
	})

	t.Run("no valid answers", func(t *testing.T) {
		empty := writeList(t, "empty.txt", "# nothing", "xx")
		_, err := Load(Files{Allowed: empty})
		assert.ErrorIs(t, err, game.ErrEmptyVocabulary)
	})
}
