// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"math"

	"github.com/verte-zerg/typetest/internal/model"
)

// charsPerWord is the conventional length of one "word" for WPM.
const charsPerWord = 5.0

// Result holds the derived statistics of a set of characters.
type Result struct {
	WPM            int
	Accuracy       int
	CorrectChars   int
	IncorrectChars int
	TotalChars     int
}

// Compute derives WPM and accuracy from character outcomes and elapsed time.
// Accuracy is 100 when nothing has been processed yet.
func Compute(chars []model.Character, elapsedSeconds float64) Result {
	res := Result{TotalChars: len(chars)}
	for _, ch := range chars {
		switch ch.Status {
		case model.StatusCorrect:
			res.CorrectChars++
		case model.StatusIncorrect:
			res.IncorrectChars++
		}
	}
	res.WPM = WPM(res.CorrectChars, elapsedSeconds)
	res.Accuracy = Accuracy(res.CorrectChars, res.IncorrectChars)
	return res
}

// WPM returns rounded words per minute; incorrect symbols never count.
func WPM(correct int, elapsedSeconds float64) int {
	minutes := elapsedSeconds / 60
	if minutes <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / charsPerWord / minutes))
}

// Accuracy returns the rounded percentage of processed symbols that are correct.
func Accuracy(correct, incorrect int) int {
	total := correct + incorrect
	if total <= 0 {
		return 100
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// ProgressPercent returns how far the cursor is through the text.
func ProgressPercent(cursor, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(cursor) / float64(total) * 100))
}

// Remaining returns the seconds left before limit, never negative.
func Remaining(limitSeconds, elapsedSeconds float64) float64 {
	left := limitSeconds - elapsedSeconds
	if left < 0 {
		return 0
	}
	return left
}

var gradeLadder = []struct {
	min   int
	grade string
}{
	{100, "S+"},
	{90, "S"},
	{80, "A+"},
	{70, "A"},
	{60, "B+"},
	{50, "B"},
	{40, "C+"},
	{30, "C"},
	{20, "D"},
}

// Grade maps a WPM score to a letter grade.
func Grade(wpm int) string {
	for _, step := range gradeLadder {
		if wpm >= step.min {
			return step.grade
		}
	}
	return "F"
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatDuration renders seconds as "Xm Ys".
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}
