package stats

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/typetest/internal/model"
)

// Result output formats.
const (
	FormatNone = "none"
	FormatText = "text"
	FormatYAML = "yaml"
)

type resultDoc struct {
	Mode           string        `yaml:"mode"`
	Grade          string        `yaml:"grade"`
	WPM            int           `yaml:"wpm"`
	Accuracy       int           `yaml:"accuracy"`
	CorrectChars   int           `yaml:"correct_chars"`
	IncorrectChars int           `yaml:"incorrect_chars"`
	TotalChars     int           `yaml:"total_chars"`
	Progress       int           `yaml:"progress"`
	ElapsedSeconds float64       `yaml:"elapsed_seconds"`
	TimeLimit      float64       `yaml:"time_limit_seconds,omitempty"`
	WeakChars      []weakCharDoc `yaml:"weak_chars,omitempty"`
}

type weakCharDoc struct {
	Char      string `yaml:"char"`
	Correct   int    `yaml:"correct"`
	Incorrect int    `yaml:"incorrect"`
}

// RenderResult writes a finished session in the requested format.
func RenderResult(w io.Writer, snap model.Snapshot, format string) error {
	switch format {
	case FormatNone, "":
		return nil
	case FormatText:
		return renderResultText(w, snap)
	case FormatYAML:
		return renderResultYAML(w, snap)
	default:
		return errors.Errorf("unknown result format %q", format)
	}
}

func renderResultText(w io.Writer, snap model.Snapshot) error {
	lines := []string{
		fmt.Sprintf("%s mode · grade %s", snap.Mode.Info().Name, Grade(snap.WPM)),
		fmt.Sprintf("WPM:      %d", snap.WPM),
		fmt.Sprintf("Accuracy: %d%%", snap.Accuracy),
		fmt.Sprintf("Time:     %s", FormatDuration(snap.ElapsedSeconds)),
		fmt.Sprintf("Correct:  %d (%d errors)", snap.CorrectChars, snap.IncorrectChars),
		fmt.Sprintf("Progress: %d%%", snap.Progress),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	weak := WeakChars(CharBreakdown(snap.Characters), 5)
	if len(weak) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return RenderCharTable(w, "Missed keys", weak)
}

func renderResultYAML(w io.Writer, snap model.Snapshot) error {
	doc := resultDoc{
		Mode:           string(snap.Mode),
		Grade:          Grade(snap.WPM),
		WPM:            snap.WPM,
		Accuracy:       snap.Accuracy,
		CorrectChars:   snap.CorrectChars,
		IncorrectChars: snap.IncorrectChars,
		TotalChars:     snap.TotalChars,
		Progress:       snap.Progress,
		ElapsedSeconds: roundTenth(snap.ElapsedSeconds),
		TimeLimit:      snap.TimeLimitSeconds,
	}
	for _, agg := range WeakChars(CharBreakdown(snap.Characters), 5) {
		doc.WeakChars = append(doc.WeakChars, weakCharDoc(agg))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode result")
	}
	return errors.Wrap(enc.Close(), "failed to flush result")
}

func roundTenth(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
