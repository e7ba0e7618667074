package stats

import (
	"math"
	"strings"
)

const sparkChars = " .:-=+*#%@"

// Timeline records one WPM sample per whole elapsed second of a session.
type Timeline struct {
	samples []float64
}

// Observe records wpm for every whole second reached by elapsedSeconds that has
// no sample yet. Gaps between ticks are filled with the latest value.
func (t *Timeline) Observe(elapsedSeconds float64, wpm int) {
	second := int(math.Floor(elapsedSeconds))
	for len(t.samples) < second {
		t.samples = append(t.samples, float64(wpm))
	}
}

// Samples returns a copy of the recorded samples.
func (t *Timeline) Samples() []float64 {
	out := make([]float64, len(t.samples))
	copy(out, t.samples)
	return out
}

// Len reports the number of samples.
func (t *Timeline) Len() int {
	return len(t.samples)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders the last width values as a single ASCII line.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	lo, hi := minMax(values)
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		b.WriteByte(sparkChars[clamp(idx, 0, last)])
	}
	return b.String()
}

func minMax(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) == 0 {
		return 0, 0
	}
	return lo, hi
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
