// Package session implements the typing session state machine.
//
// A Session moves from Idle to Running on the first input and to Finished once
// the whole text is submitted or its time limit runs out. Finished is terminal;
// configuration changes build a new Session instead of mutating an old one.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
)

// Clock returns the current time.
type Clock func() time.Time

// Config is fixed for the lifetime of a Session.
type Config struct {
	Mode      model.Mode
	TimeLimit time.Duration // ignored for untimed modes
}

// Option customizes a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(clock Clock) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithOnFinish registers fn to receive the final snapshot exactly once.
func WithOnFinish(fn func(model.Snapshot)) Option {
	return func(s *Session) {
		s.onFinish = fn
	}
}

// Session owns the target text, per-character outcomes and timing.
type Session struct {
	id    string
	cfg   Config
	opts  []Option
	clock Clock

	target []rune
	chars  []model.Character
	input  []rune
	cursor int

	phase     model.Phase
	startedAt time.Time
	elapsed   float64

	onFinish func(model.Snapshot)
}

// New builds an Idle session for text.
func New(text string, cfg Config, opts ...Option) *Session {
	s := &Session{
		id:    uuid.NewString(),
		cfg:   cfg,
		opts:  opts,
		clock: time.Now,
		phase: model.PhaseIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.target = []rune(text)
	s.chars = make([]model.Character, len(s.target))
	for i, r := range s.target {
		s.chars[i] = model.Character{Char: r, Status: model.StatusWaiting}
	}
	if len(s.chars) > 0 {
		s.chars[0].Status = model.StatusCurrent
	}
	return s
}

// Reset returns a fresh Idle session for text with the same configuration and
// options. The receiver is left as it was.
func (s *Session) Reset(text string) *Session {
	return New(text, s.cfg, s.opts...)
}

// ID identifies this session instance.
func (s *Session) ID() string { return s.id }

// Phase reports the lifecycle stage.
func (s *Session) Phase() model.Phase { return s.phase }

// Config returns the session configuration.
func (s *Session) Config() Config { return s.cfg }

// Target returns the text being typed.
func (s *Session) Target() string { return string(s.target) }

// Input returns the raw submitted value, including symbols past the target.
func (s *Session) Input() string { return string(s.input) }

// Cursor returns the number of submitted symbols, capped at the target length.
func (s *Session) Cursor() int { return s.cursor }

// StartedAt returns the start instant, zero while Idle.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Elapsed returns the elapsed seconds as of the last recompute.
func (s *Session) Elapsed() float64 { return s.elapsed }

// TimeLimit returns the limit and whether one applies.
func (s *Session) TimeLimit() (time.Duration, bool) {
	if !s.cfg.Mode.Timed() || s.cfg.TimeLimit <= 0 {
		return 0, false
	}
	return s.cfg.TimeLimit, true
}

// Start moves Idle to Running and stamps the start time. It is a no-op in any
// other phase.
func (s *Session) Start() {
	if s.phase != model.PhaseIdle {
		return
	}
	s.phase = model.PhaseRunning
	s.startedAt = s.clock()
}

// SubmitInput applies the full current input value. The first non-empty value
// starts the session; submitting the whole text finishes it.
func (s *Session) SubmitInput(value string) {
	if s.phase == model.PhaseFinished {
		return
	}
	runes := []rune(value)
	if s.phase == model.PhaseIdle && (len(runes) > 0 || len(s.target) == 0) {
		s.Start()
	}
	s.input = runes

	n := min(len(runes), len(s.target))
	for i := 0; i < n; i++ {
		if runes[i] == s.target[i] {
			s.chars[i].Status = model.StatusCorrect
		} else {
			s.chars[i].Status = model.StatusIncorrect
		}
	}
	for i := n; i < len(s.chars); i++ {
		if i == n {
			s.chars[i].Status = model.StatusCurrent
		} else {
			s.chars[i].Status = model.StatusWaiting
		}
	}
	s.cursor = n

	if s.phase == model.PhaseRunning && s.cursor == len(s.target) {
		s.finishAt(s.clock())
	}
}

// Tick advances elapsed time to now and finishes the session once its time
// limit is reached. It only acts while Running.
func (s *Session) Tick(now time.Time) {
	if s.phase != model.PhaseRunning {
		return
	}
	s.advance(now)
	if limit, ok := s.TimeLimit(); ok && s.elapsed >= limit.Seconds() {
		s.finishAt(now)
	}
}

// Finish ends the session from any phase, capturing the elapsed time once more.
func (s *Session) Finish() {
	if s.phase == model.PhaseFinished {
		return
	}
	s.finishAt(s.clock())
}

func (s *Session) finishAt(now time.Time) {
	if s.phase == model.PhaseRunning {
		s.advance(now)
	}
	s.phase = model.PhaseFinished
	for i := range s.chars {
		if s.chars[i].Status == model.StatusCurrent {
			s.chars[i].Status = model.StatusWaiting
		}
	}
	if s.onFinish != nil {
		s.onFinish(s.Snapshot())
	}
}

// advance never lets elapsed time move backwards.
func (s *Session) advance(now time.Time) {
	elapsed := now.Sub(s.startedAt).Seconds()
	if elapsed > s.elapsed {
		s.elapsed = elapsed
	}
}

// Stats computes statistics for the current state.
func (s *Session) Stats() stats.Result {
	return stats.Compute(s.chars, s.elapsed)
}

// Snapshot returns a copy of the session state with derived statistics.
func (s *Session) Snapshot() model.Snapshot {
	res := s.Stats()
	chars := make([]model.Character, len(s.chars))
	copy(chars, s.chars)
	snap := model.Snapshot{
		ID:             s.id,
		Mode:           s.cfg.Mode,
		Phase:          s.phase,
		WPM:            res.WPM,
		Accuracy:       res.Accuracy,
		CorrectChars:   res.CorrectChars,
		IncorrectChars: res.IncorrectChars,
		TotalChars:     res.TotalChars,
		ElapsedSeconds: s.elapsed,
		Characters:     chars,
		Cursor:         s.cursor,
		Progress:       stats.ProgressPercent(s.cursor, len(s.chars)),
	}
	if limit, ok := s.TimeLimit(); ok {
		snap.TimeLimitSeconds = limit.Seconds()
	}
	return snap
}
