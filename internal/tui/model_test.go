package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typetest/internal/generator"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/sound"
	"github.com/verte-zerg/typetest/internal/texts"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestModel(t *testing.T, cfg model.Config, text string, opts ...func(*Options)) (*Model, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	provider := texts.NewProvider(cfg,
		texts.WithGenerator(generator.NewWithSeed(1)),
		texts.WithCustomText(text),
	)
	o := Options{Config: cfg, Texts: provider, Clock: clock.Now}
	for _, opt := range opts {
		opt(&o)
	}
	m, err := NewModel(o)
	require.NoError(t, err)
	return m, clock
}

func customConfig() model.Config {
	return model.Config{Mode: model.ModeCustom, TimeLimit: 30 * time.Second}
}

func keyFor(r rune) tea.KeyMsg {
	if r == ' ' {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func press(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// typeText sends one key per rune and returns the command of the first key.
func typeText(m *Model, s string) tea.Cmd {
	var first tea.Cmd
	for i, r := range s {
		cmd := press(m, keyFor(r))
		if i == 0 {
			first = cmd
		}
	}
	return first
}

func TestFirstKeyStartsTickChain(t *testing.T) {
	m, _ := newTestModel(t, customConfig(), "ab cd")
	assert.Equal(t, model.PhaseIdle, m.sess.Phase())

	cmd := typeText(m, "a")
	assert.NotNil(t, cmd)
	assert.Equal(t, model.PhaseRunning, m.sess.Phase())

	assert.Nil(t, typeText(m, "b"), "only the starting key schedules a tick")
}

func TestTickExtendsChainWhileRunning(t *testing.T) {
	m, clock := newTestModel(t, customConfig(), "ab cd")
	start := clock.now
	typeText(m, "a")

	cmd := press(m, tickMsg{id: m.sess.ID(), at: start.Add(2500 * time.Millisecond)})
	assert.NotNil(t, cmd)
	assert.InDelta(t, 2.5, m.sess.Elapsed(), 1e-9)
	assert.Equal(t, 2, m.timeline.Len())
}

func TestTickIgnoredWhileIdle(t *testing.T) {
	m, clock := newTestModel(t, customConfig(), "ab cd")
	cmd := press(m, tickMsg{id: m.sess.ID(), at: clock.now.Add(time.Second)})
	assert.Nil(t, cmd)
	assert.Equal(t, model.PhaseIdle, m.sess.Phase())
}

func TestStaleTickIgnored(t *testing.T) {
	m, clock := newTestModel(t, customConfig(), "ab cd")
	typeText(m, "a")
	staleID := m.sess.ID()

	press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotEqual(t, staleID, m.sess.ID())

	cmd := press(m, tickMsg{id: staleID, at: clock.now.Add(40 * time.Second)})
	assert.Nil(t, cmd)
	assert.Equal(t, model.PhaseIdle, m.sess.Phase())
	assert.Zero(t, m.sess.Elapsed())
	assert.Nil(t, m.final)
}

func TestTimeoutEndsChainAndShowsResults(t *testing.T) {
	m, clock := newTestModel(t, customConfig(), "ab cd ef")
	start := clock.now
	typeText(m, "ab")

	cmd := press(m, tickMsg{id: m.sess.ID(), at: start.Add(30 * time.Second)})
	assert.Nil(t, cmd)
	assert.Equal(t, model.PhaseFinished, m.sess.Phase())
	require.NotNil(t, m.final)
	assert.Equal(t, 30, m.timeline.Len())

	res, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, 2, res.CorrectChars)
	assert.InDelta(t, 30.0, res.ElapsedSeconds, 1e-9)

	assert.Contains(t, m.View(), "Grade")
	assert.Nil(t, typeText(m, "x"), "typing on the results screen is ignored")
	assert.Equal(t, 2, m.sess.Cursor())
}

func TestEndlessNeverTimesOut(t *testing.T) {
	cfg := model.Config{Mode: model.ModeEndless, TimeLimit: 30 * time.Second}
	m, clock := newTestModel(t, cfg, "")
	start := clock.now
	typeText(m, "x")

	cmd := press(m, tickMsg{id: m.sess.ID(), at: start.Add(10 * time.Minute)})
	assert.NotNil(t, cmd)
	assert.Equal(t, model.PhaseRunning, m.sess.Phase())
}

func TestCompletingTextFinishes(t *testing.T) {
	m, clock := newTestModel(t, customConfig(), "ab cd")
	typeText(m, "a")
	clock.Advance(12 * time.Second)
	typeText(m, "b cd")

	assert.Equal(t, model.PhaseFinished, m.sess.Phase())
	res, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, 5, res.WPM)
	assert.Equal(t, 100, res.Accuracy)
	assert.Equal(t, 100, res.Progress)
}

func TestEnterOnResultsStartsNewSession(t *testing.T) {
	m, _ := newTestModel(t, customConfig(), "ab")
	typeText(m, "ab")
	require.NotNil(t, m.final)
	finishedID := m.sess.ID()

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.final)
	assert.NotEqual(t, finishedID, m.sess.ID())
	assert.Equal(t, model.PhaseIdle, m.sess.Phase())

	_, ok := m.Result()
	assert.True(t, ok, "last result survives a restart")
}

func TestModeSwitchReplacesSession(t *testing.T) {
	m, clock := newTestModel(t, customConfig(), "ab cd")
	typeText(m, "a")
	oldID := m.sess.ID()

	press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.True(t, m.picking)
	assert.Contains(t, m.View(), "Select Mode")

	for i, info := range model.Modes {
		if info.Mode == model.ModeCode {
			m.picker.SetCursor(i)
		}
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.picking)
	assert.Equal(t, model.ModeCode, m.Config().Mode)
	assert.NotEqual(t, oldID, m.sess.ID())
	assert.Equal(t, model.PhaseIdle, m.sess.Phase())
	assert.Contains(t, m.sess.Target(), "\n")

	assert.Nil(t, press(m, tickMsg{id: oldID, at: clock.now.Add(time.Minute)}))
}

func TestPickerEscKeepsSession(t *testing.T) {
	m, _ := newTestModel(t, customConfig(), "ab cd")
	id := m.sess.ID()
	press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.picking)
	assert.Equal(t, id, m.sess.ID())
}

func TestCycleTimeLimitKeepsText(t *testing.T) {
	cfg := model.Config{Mode: model.ModeCustom, TimeLimit: time.Minute}
	m, _ := newTestModel(t, cfg, "ab cd")
	typeText(m, "a")
	oldID := m.sess.ID()

	press(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, 2*time.Minute, m.Config().TimeLimit)
	assert.NotEqual(t, oldID, m.sess.ID())
	assert.Equal(t, "ab cd", m.sess.Target())
	assert.Equal(t, model.PhaseIdle, m.sess.Phase())
	assert.Empty(t, m.input)
}

func TestBackspaceAndDeleteWord(t *testing.T) {
	m, _ := newTestModel(t, customConfig(), "ab cd ef")
	typeText(m, "ab cx")
	assert.Equal(t, 5, m.sess.Cursor())

	press(m, tea.KeyMsg{Type: tea.KeyCtrlW})
	assert.Equal(t, "ab ", string(m.input))
	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "ab", m.sess.Input())
	assert.Equal(t, 2, m.sess.Cursor())
	assert.Equal(t, model.StatusCurrent, m.sess.Snapshot().Characters[2].Status)
}

func TestEnterAndTabTypeWhitespace(t *testing.T) {
	m, _ := newTestModel(t, customConfig(), "a\n\tb")
	typeText(m, "a")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	snap := m.sess.Snapshot()
	assert.Equal(t, model.StatusCorrect, snap.Characters[1].Status)
	assert.Equal(t, model.StatusCorrect, snap.Characters[2].Status)
	assert.Equal(t, 3, m.sess.Cursor())
}

func TestBlindModeMasksEcho(t *testing.T) {
	cfg := model.Config{Mode: model.ModeBlind, TimeLimit: time.Minute}
	m, _ := newTestModel(t, cfg, "")
	assert.Equal(t, textinput.EchoPassword, m.echo.EchoMode)
	typeText(m, "qz")
	assert.Equal(t, "qz", m.echo.Value())
	assert.NotContains(t, m.echo.View(), "qz")

	press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	for i, info := range model.Modes {
		if info.Mode == model.ModeClassic {
			m.picker.SetCursor(i)
		}
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, textinput.EchoNormal, m.echo.EchoMode)
}

func TestSoundClicksOnlyWhenEnabled(t *testing.T) {
	var out bytes.Buffer
	clicker := sound.New(&out, 64)
	cfg := customConfig()
	cfg.Sound = true
	m, _ := newTestModel(t, cfg, "abcdef", func(o *Options) { o.Clicker = clicker })

	typeText(m, "ab")
	press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	typeText(m, "cd")
	require.NoError(t, clicker.Close())
	assert.Equal(t, "\a\a", out.String())
}

func TestQuitFinishesRunningSession(t *testing.T) {
	m, clock := newTestModel(t, customConfig(), "ab cd")
	typeText(m, "ab")
	clock.Advance(3 * time.Second)

	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	res, ok := m.Result()
	require.True(t, ok)
	assert.InDelta(t, 3.0, res.ElapsedSeconds, 1e-9)
}

func TestQuitWhileIdleHasNoResult(t *testing.T) {
	m, _ := newTestModel(t, customConfig(), "ab cd")
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	_, ok := m.Result()
	assert.False(t, ok)
}

func TestRenderFooterFormats(t *testing.T) {
	m, _ := newTestModel(t, customConfig(), "abcd")
	snap := model.Snapshot{
		Mode:             model.ModeCustom,
		WPM:              72,
		Accuracy:         97,
		Progress:         50,
		ElapsedSeconds:   12.4,
		TimeLimitSeconds: 30,
	}
	out := m.renderFooter(snap)
	for _, want := range []string{"Custom", "0:17", "72 WPM", "97%", "Progress 50%", "♪ off"} {
		assert.True(t, strings.Contains(out, want), "footer %q missing %q", out, want)
	}

	snap.Mode = model.ModeEndless
	snap.TimeLimitSeconds = 0
	assert.Contains(t, m.renderFooter(snap), "∞ 0:12")
}
