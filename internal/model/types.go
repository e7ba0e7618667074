// Package model defines shared data structures.
package model

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Mode selects where practice text comes from and whether a time limit applies.
type Mode string

const (
	ModeClassic   Mode = "classic"
	ModeEndless   Mode = "endless"
	ModePrecision Mode = "precision"
	ModeBlind     Mode = "blind"
	ModeCode      Mode = "code"
	ModeCustom    Mode = "custom"
)

// ModeInfo describes a mode for pickers and listings.
type ModeInfo struct {
	Mode        Mode
	Name        string
	Description string
}

// Modes lists every mode in display order.
var Modes = []ModeInfo{
	{Mode: ModeClassic, Name: "Classic", Description: "Standard typing test with a fixed time limit"},
	{Mode: ModeEndless, Name: "Endless", Description: "Type continuously without a time limit"},
	{Mode: ModePrecision, Name: "Precision", Description: "Emphasizes accuracy over raw speed"},
	{Mode: ModeBlind, Name: "Blind", Description: "Typed text remains hidden, challenging muscle memory"},
	{Mode: ModeCode, Name: "Code", Description: "Practice typing programming syntax"},
	{Mode: ModeCustom, Name: "Custom", Description: "Practice with your own text passages"},
}

// ParseMode resolves a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, info := range Modes {
		if string(info.Mode) == s {
			return info.Mode, nil
		}
	}
	return "", errors.Errorf("unknown mode %q", s)
}

// Info returns the display info for the mode.
func (m Mode) Info() ModeInfo {
	for _, info := range Modes {
		if info.Mode == m {
			return info
		}
	}
	return ModeInfo{Mode: m, Name: string(m)}
}

// Timed reports whether sessions in this mode end on a time limit.
func (m Mode) Timed() bool {
	return m != ModeEndless
}

// TimeLimits are the selectable session lengths.
var TimeLimits = []time.Duration{
	30 * time.Second,
	time.Minute,
	2 * time.Minute,
	5 * time.Minute,
}

// DefaultTimeLimit is used when nothing else is configured.
const DefaultTimeLimit = time.Minute

// NextTimeLimit returns the limit following cur, wrapping around.
func NextTimeLimit(cur time.Duration) time.Duration {
	for i, limit := range TimeLimits {
		if limit == cur {
			return TimeLimits[(i+1)%len(TimeLimits)]
		}
	}
	return TimeLimits[0]
}

// Source selects the text generator for prose modes.
type Source string

const (
	SourceSamples Source = "samples"
	SourceWords   Source = "words"
)

// Config defines practice settings.
type Config struct {
	Mode      Mode
	TimeLimit time.Duration
	Source    Source
	Lang      string
	Words     int
	CapsPct   float64
	PunctPct  float64
	PunctSet  string
	TextFile  string
	Sound     bool
}

// Passage is a user supplied text stored in the custom library.
type Passage struct {
	ID        int64
	Title     string
	Body      string
	CreatedAt time.Time
}

// CharAggregate aggregates outcomes for one expected symbol.
type CharAggregate struct {
	Char      string
	Correct   int
	Incorrect int
}

// Status is the outcome of one position in the target text.
type Status uint8

const (
	StatusWaiting Status = iota
	StatusCurrent
	StatusCorrect
	StatusIncorrect
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusCurrent:
		return "current"
	case StatusCorrect:
		return "correct"
	case StatusIncorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// Character is one position in the target text.
type Character struct {
	Char   rune
	Status Status
}

// Phase is the coarse lifecycle stage of a session.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of a session for rendering.
type Snapshot struct {
	ID               string
	Mode             Mode
	Phase            Phase
	WPM              int
	Accuracy         int
	CorrectChars     int
	IncorrectChars   int
	TotalChars       int
	ElapsedSeconds   float64
	TimeLimitSeconds float64 // zero when untimed
	Characters       []Character
	Cursor           int
	Progress         int
}
