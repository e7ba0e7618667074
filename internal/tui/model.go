// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/session"
	"github.com/verte-zerg/typetest/internal/sound"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/texts"
)

const (
	tickInterval   = 100 * time.Millisecond
	sparklineWidth = 20
	weakFocusTop   = 5
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle        = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	modalStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// tickMsg drives the running session clock. id names the session that
// scheduled it.
type tickMsg struct {
	id string
	at time.Time
}

func tick(id string) tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg{id: id, at: t}
	})
}

// Options wires a Model.
type Options struct {
	Config  model.Config
	Texts   *texts.Provider
	Clicker *sound.Clicker
	Clock   session.Clock
}

// Model implements the Bubble Tea typing UI. It owns the single live session.
type Model struct {
	cfg     model.Config
	texts   *texts.Provider
	clicker *sound.Clicker
	clock   session.Clock

	width  int
	height int

	sess     *session.Session
	input    []rune
	timeline *stats.Timeline
	echo     textinput.Model

	picking bool
	picker  table.Model

	final          *model.Snapshot
	last           *model.Snapshot
	results        viewport.Model
	resultsContent string

	err error
}

// NewModel constructs a typing TUI model with a first session ready.
func NewModel(opts Options) (*Model, error) {
	m := &Model{
		cfg:     opts.Config,
		texts:   opts.Texts,
		clicker: opts.Clicker,
		clock:   opts.Clock,
		echo:    newEcho(),
		results: viewport.New(0, 0),
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	if m.cfg.TimeLimit <= 0 {
		m.cfg.TimeLimit = model.DefaultTimeLimit
	}
	text, err := m.texts.Next(context.Background(), m.cfg.Mode)
	if err != nil {
		return nil, err
	}
	m.startSession(text)
	return m, nil
}

func newEcho() textinput.Model {
	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "start typing…"
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorStatic)
	input.Focus()
	return input
}

// Result returns the most recent finished snapshot.
func (m *Model) Result() (model.Snapshot, bool) {
	if m.last == nil {
		return model.Snapshot{}, false
	}
	return *m.last, true
}

// Config returns the practice settings as changed in the UI.
func (m *Model) Config() model.Config {
	return m.cfg
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg)
	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, m.quit()
		case tea.KeyCtrlR:
			m.nextText()
			return m, nil
		case tea.KeyCtrlO:
			m.picking = true
			m.picker = newModePicker(m.cfg.Mode)
			return m, nil
		case tea.KeyCtrlT:
			m.cycleTimeLimit()
			return m, nil
		case tea.KeyCtrlS:
			m.cfg.Sound = !m.cfg.Sound
			return m, nil
		}
		if m.final != nil {
			return m.updateResults(msg)
		}
		return m, m.handleTyping(msg)
	}
	return m, nil
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	if msg.id != m.sess.ID() || m.sess.Phase() != model.PhaseRunning {
		return nil
	}
	m.sess.Tick(msg.at)
	if m.sess.Phase() != model.PhaseRunning {
		return nil
	}
	snap := m.sess.Snapshot()
	m.timeline.Observe(snap.ElapsedSeconds, snap.WPM)
	return tick(m.sess.ID())
}

func (m *Model) handleTyping(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeyCtrlW:
		m.input = trimLastWord(m.input)
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyEnter:
		m.input = append(m.input, '\n')
	case tea.KeyTab:
		m.input = append(m.input, '\t')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	default:
		return nil
	}
	if m.cfg.Sound && m.clicker != nil {
		m.clicker.Click()
	}
	wasIdle := m.sess.Phase() == model.PhaseIdle
	m.sess.SubmitInput(string(m.input))
	m.syncEcho()
	if wasIdle && m.sess.Phase() == model.PhaseRunning {
		return tick(m.sess.ID())
	}
	return nil
}

func trimLastWord(input []rune) []rune {
	end := len(input)
	for end > 0 && isSeparator(input[end-1]) {
		end--
	}
	for end > 0 && !isSeparator(input[end-1]) {
		end--
	}
	return input[:end]
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, m.quit()
	case tea.KeyEsc, tea.KeyCtrlO:
		m.picking = false
		return m, nil
	case tea.KeyEnter:
		m.picking = false
		if mode, ok := selectedMode(m.picker); ok {
			m.switchMode(mode)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		m.nextText()
		return m, nil
	}
	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) quit() tea.Cmd {
	if m.sess.Phase() == model.PhaseRunning {
		m.sess.Finish()
	}
	return tea.Quit
}

func (m *Model) switchMode(mode model.Mode) {
	if mode == m.cfg.Mode {
		return
	}
	log.Debug().Str("mode", string(mode)).Msg("switching mode")
	m.cfg.Mode = mode
	m.nextText()
}

func (m *Model) cycleTimeLimit() {
	m.cfg.TimeLimit = model.NextTimeLimit(m.cfg.TimeLimit)
	m.startSession(m.sess.Target())
}

func (m *Model) nextText() {
	text, err := m.texts.Next(context.Background(), m.cfg.Mode)
	if err != nil {
		log.Warn().Err(err).Str("mode", string(m.cfg.Mode)).Msg("failed to load text")
		m.err = err
		return
	}
	m.err = nil
	m.startSession(text)
}

// startSession replaces the live session. Ticks scheduled for the old one
// are ignored from here on.
func (m *Model) startSession(text string) {
	m.sess = session.New(text,
		session.Config{Mode: m.cfg.Mode, TimeLimit: m.cfg.TimeLimit},
		session.WithClock(m.clock),
		session.WithOnFinish(m.onFinish),
	)
	m.input = nil
	m.timeline = &stats.Timeline{}
	m.final = nil
	if m.cfg.Mode == model.ModeBlind {
		m.echo.EchoMode = textinput.EchoPassword
	} else {
		m.echo.EchoMode = textinput.EchoNormal
	}
	m.syncEcho()
}

func (m *Model) onFinish(snap model.Snapshot) {
	m.timeline.Observe(snap.ElapsedSeconds, snap.WPM)
	m.final = &snap
	m.last = &snap
	m.texts.FocusFrom(snap, weakFocusTop)
	log.Info().
		Str("session", snap.ID).
		Str("mode", string(snap.Mode)).
		Int("wpm", snap.WPM).
		Int("accuracy", snap.Accuracy).
		Float64("elapsed", snap.ElapsedSeconds).
		Msg("session finished")
	m.renderResultsContent()
}

func (m *Model) renderResultsContent() {
	if m.final == nil {
		return
	}
	m.resultsContent = renderResults(*m.final, m.timeline.Samples(), m.width)
	m.results.SetContent(m.resultsContent)
	m.results.GotoTop()
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.results.Width = m.width
	m.results.Height = max(1, m.height-1)
	m.echo.Width = max(1, m.contentWidth()-lipgloss.Width(m.echo.Prompt)-1)
	m.renderResultsContent()
}

func (m *Model) contentWidth() int {
	return max(1, int(float64(m.width)*0.70))
}

// syncEcho mirrors the line being typed into the echo input.
func (m *Model) syncEcho() {
	line := string(m.input)
	if idx := strings.LastIndex(line, "\n"); idx >= 0 {
		line = line[idx+1:]
	}
	m.echo.SetValue(line)
	m.echo.CursorEnd()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.picking {
		return m.renderPicker()
	}
	if m.final != nil {
		if m.width == 0 || m.height == 0 {
			return m.resultsContent
		}
		return m.results.View() + "\n" + footerStyle.Render(resultsHelp)
	}
	snap := m.sess.Snapshot()
	styledRunes := buildStyledRunes(snap.Characters)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes) + "\n\n" + m.echo.View()
	}
	contentWidth := m.contentWidth()
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped + "\n\n" + m.echo.View())
	footer := m.renderFooter(snap)
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

const resultsHelp = "enter new text · ↑/↓ scroll · ctrl+o mode · ctrl+t time · esc quit"

func (m *Model) renderFooter(snap model.Snapshot) string {
	segments := []string{snap.Mode.Info().Name}
	if snap.TimeLimitSeconds > 0 {
		segments = append(segments, stats.FormatClock(stats.Remaining(snap.TimeLimitSeconds, snap.ElapsedSeconds)))
	} else {
		segments = append(segments, "∞ "+stats.FormatClock(snap.ElapsedSeconds))
	}
	segments = append(segments,
		fmt.Sprintf("%d WPM", snap.WPM),
		fmt.Sprintf("%d%%", snap.Accuracy),
		fmt.Sprintf("Progress %d%%", snap.Progress),
	)
	if m.timeline != nil && m.timeline.Len() > 1 {
		segments = append(segments, stats.Sparkline(m.timeline.Samples(), sparklineWidth))
	}
	if m.cfg.Sound {
		segments = append(segments, "♪ on")
	} else {
		segments = append(segments, "♪ off")
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.err != nil {
		footer += "  " + errorStyle.Render(m.err.Error())
	}
	return footer
}
