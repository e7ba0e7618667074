package generator

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vocab = []string{"alpha", "beta", "gamma", "delta", "zzz"}

func TestWordsDeterministicWithSeed(t *testing.T) {
	opts := Options{Count: 20, CapsPct: 0.5, PunctPct: 0.5, PunctSet: []rune(".,")}
	a := NewWithSeed(42).Words(vocab, opts)
	b := NewWithSeed(42).Words(vocab, opts)
	assert.Equal(t, a, b)
	assert.Len(t, a, 20)
}

func TestWordsPlain(t *testing.T) {
	words := NewWithSeed(1).Words(vocab, Options{Count: 50})
	for _, w := range words {
		assert.Contains(t, vocab, w)
	}
}

func TestWordsAlwaysCapsAndPunct(t *testing.T) {
	words := NewWithSeed(7).Words(vocab, Options{Count: 30, CapsPct: 1, PunctPct: 1, PunctSet: []rune("!")})
	for _, w := range words {
		runes := []rune(w)
		assert.True(t, unicode.IsUpper(runes[0]), w)
		assert.True(t, strings.HasSuffix(w, "!"), w)
	}
}

func TestWordsEmptyInputs(t *testing.T) {
	g := NewWithSeed(1)
	assert.Nil(t, g.Words(nil, Options{Count: 3}))
	assert.Nil(t, g.Words(vocab, Options{}))
	assert.Equal(t, "", g.Text(vocab, Options{}))
}

func TestWeightedFavoursWeakRunes(t *testing.T) {
	g := NewWithSeed(3)
	words := g.Words(vocab, Options{
		Count:      2000,
		Weak:       map[rune]struct{}{'z': {}},
		WeakFactor: 10,
	})
	require.Len(t, words, 2000)
	hits := 0
	for _, w := range words {
		if w == "zzz" {
			hits++
		}
	}
	// zzz weighs 31 against 1 for every other word.
	assert.Greater(t, hits, 1500)
}

func TestTextJoinsWithSpaces(t *testing.T) {
	text := NewWithSeed(9).Text([]string{"one"}, Options{Count: 3})
	assert.Equal(t, "one one one", text)
}
