// Package texts picks the practice text for each mode.
package texts

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/store"
)

// weakFactor is the extra weight per weak rune in a generated word.
const weakFactor = 2.0

// PassageSource supplies passages for custom mode.
type PassageSource interface {
	RandomPassage(ctx context.Context) (model.Passage, error)
}

// Provider returns target texts according to the practice config.
type Provider struct {
	cfg        model.Config
	gen        *generator.Generator
	words      []string
	passages   PassageSource
	customText string
	weak       map[rune]struct{}
	last       map[model.Mode]int
}

// Option configures a Provider.
type Option func(*Provider)

// WithGenerator sets the random source.
func WithGenerator(g *generator.Generator) Option {
	return func(p *Provider) { p.gen = g }
}

// WithWords enables the words source for prose modes.
func WithWords(words []string) Option {
	return func(p *Provider) { p.words = words }
}

// WithPassages sets the custom passage library.
func WithPassages(src PassageSource) Option {
	return func(p *Provider) { p.passages = src }
}

// WithCustomText pins the custom mode text.
func WithCustomText(text string) Option {
	return func(p *Provider) { p.customText = text }
}

// NewProvider builds a Provider.
func NewProvider(cfg model.Config, opts ...Option) *Provider {
	p := &Provider{cfg: cfg, last: map[model.Mode]int{}}
	for _, opt := range opts {
		opt(p)
	}
	if p.gen == nil {
		p.gen = generator.New()
	}
	return p
}

// LoadCustomText reads and normalizes a text file for custom mode.
func LoadCustomText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to read text file")
	}
	text := store.NormalizeBody(string(data))
	if text == "" {
		return "", errors.Errorf("text file %s is empty", path)
	}
	return text, nil
}

// Next returns a fresh target text for mode.
func (p *Provider) Next(ctx context.Context, mode model.Mode) (string, error) {
	switch mode {
	case model.ModeCode:
		return p.pick(mode, codeSamples), nil
	case model.ModeCustom:
		return p.custom(ctx), nil
	}
	if p.cfg.Source == model.SourceWords {
		if len(p.words) == 0 {
			return "", errors.New("words source selected but no word list loaded")
		}
		return p.gen.Text(p.words, generator.Options{
			Count:      p.cfg.Words,
			CapsPct:    p.cfg.CapsPct,
			PunctPct:   p.cfg.PunctPct,
			PunctSet:   []rune(p.cfg.PunctSet),
			Weak:       p.weak,
			WeakFactor: weakFactor,
		}), nil
	}
	return p.pick(mode, proseSamples), nil
}

// Focus biases the next generated texts toward the given missed keys.
func (p *Provider) Focus(weak []model.CharAggregate) {
	p.weak = map[rune]struct{}{}
	for _, agg := range weak {
		runes := []rune(agg.Char)
		if len(runes) != 1 || runes[0] == ' ' {
			continue
		}
		p.weak[runes[0]] = struct{}{}
	}
	if len(p.weak) > 0 {
		log.Debug().Int("keys", len(p.weak)).Msg("focusing generator on missed keys")
	}
}

// FocusFrom derives missed keys from a finished snapshot.
func (p *Provider) FocusFrom(snap model.Snapshot, top int) {
	p.Focus(stats.WeakChars(stats.CharBreakdown(snap.Characters), top))
}

func (p *Provider) custom(ctx context.Context) string {
	if p.customText != "" {
		return p.customText
	}
	if p.passages == nil {
		return DefaultCustomPrompt
	}
	passage, err := p.passages.RandomPassage(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return DefaultCustomPrompt
	}
	if err != nil {
		log.Warn().Err(err).Msg("failed to load custom passage")
		return DefaultCustomPrompt
	}
	return passage.Body
}

// pick returns a random entry, avoiding the previous pick for the same mode.
func (p *Provider) pick(mode model.Mode, pool []string) string {
	idx := p.gen.Intn(len(pool))
	if prev, ok := p.last[mode]; ok && len(pool) > 1 && idx == prev {
		idx = (idx + 1) % len(pool)
	}
	p.last[mode] = idx
	return pool[idx]
}
