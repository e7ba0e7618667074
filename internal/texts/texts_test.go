package texts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/store"
)

type fakePassages struct {
	passage model.Passage
	err     error
}

func (f fakePassages) RandomPassage(context.Context) (model.Passage, error) {
	return f.passage, f.err
}

func newProvider(cfg model.Config, opts ...Option) *Provider {
	opts = append([]Option{WithGenerator(generator.NewWithSeed(1))}, opts...)
	return NewProvider(cfg, opts...)
}

func TestNextProseUsesSamples(t *testing.T) {
	p := newProvider(model.Config{Source: model.SourceSamples})
	for _, mode := range []model.Mode{model.ModeClassic, model.ModeEndless, model.ModePrecision, model.ModeBlind} {
		text, err := p.Next(context.Background(), mode)
		require.NoError(t, err)
		assert.Contains(t, proseSamples, text)
	}
}

func TestNextCodeUsesCodeSamples(t *testing.T) {
	p := newProvider(model.Config{})
	text, err := p.Next(context.Background(), model.ModeCode)
	require.NoError(t, err)
	assert.Contains(t, codeSamples, text)
}

func TestNextAvoidsImmediateRepeat(t *testing.T) {
	p := newProvider(model.Config{})
	prev, err := p.Next(context.Background(), model.ModeClassic)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		text, err := p.Next(context.Background(), model.ModeClassic)
		require.NoError(t, err)
		assert.NotEqual(t, prev, text)
		prev = text
	}
}

func TestNextWordsSource(t *testing.T) {
	p := newProvider(model.Config{Source: model.SourceWords, Words: 5}, WithWords([]string{"go"}))
	text, err := p.Next(context.Background(), model.ModeClassic)
	require.NoError(t, err)
	assert.Equal(t, "go go go go go", text)
}

func TestNextWordsSourceWithoutList(t *testing.T) {
	p := newProvider(model.Config{Source: model.SourceWords, Words: 5})
	_, err := p.Next(context.Background(), model.ModeClassic)
	assert.Error(t, err)
}

func TestCustomFallbacks(t *testing.T) {
	ctx := context.Background()

	text, err := newProvider(model.Config{}).Next(ctx, model.ModeCustom)
	require.NoError(t, err)
	assert.Equal(t, DefaultCustomPrompt, text)

	text, err = newProvider(model.Config{}, WithPassages(fakePassages{err: store.ErrNotFound})).Next(ctx, model.ModeCustom)
	require.NoError(t, err)
	assert.Equal(t, DefaultCustomPrompt, text)

	text, err = newProvider(model.Config{}, WithPassages(fakePassages{err: errors.New("disk gone")})).Next(ctx, model.ModeCustom)
	require.NoError(t, err)
	assert.Equal(t, DefaultCustomPrompt, text)

	text, err = newProvider(model.Config{}, WithPassages(fakePassages{passage: model.Passage{Body: "from library"}})).Next(ctx, model.ModeCustom)
	require.NoError(t, err)
	assert.Equal(t, "from library", text)

	text, err = newProvider(model.Config{},
		WithPassages(fakePassages{passage: model.Passage{Body: "from library"}}),
		WithCustomText("pinned"),
	).Next(ctx, model.ModeCustom)
	require.NoError(t, err)
	assert.Equal(t, "pinned", text)
}

func TestFocusFromSnapshot(t *testing.T) {
	p := newProvider(model.Config{Source: model.SourceWords, Words: 400}, WithWords([]string{"aaa", "bbb", "qqq"}))
	snap := model.Snapshot{Characters: []model.Character{
		{Char: 'q', Status: model.StatusIncorrect},
		{Char: ' ', Status: model.StatusIncorrect},
		{Char: 'a', Status: model.StatusCorrect},
	}}
	p.FocusFrom(snap, 5)
	assert.Equal(t, map[rune]struct{}{'q': {}}, p.weak)

	text, err := p.Next(context.Background(), model.ModeClassic)
	require.NoError(t, err)
	// qqq weighs 7 against 1 for the other two words.
	assert.Greater(t, strings.Count(text, "qqq"), 200)
}

func TestLoadCustomText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "text.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello  \r\nworld\n"), 0o644))
	text, err := LoadCustomText(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", text)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o644))
	_, err = LoadCustomText(empty)
	assert.Error(t, err)

	_, err = LoadCustomText(filepath.Join(dir, "absent.txt"))
	assert.Error(t, err)
}
