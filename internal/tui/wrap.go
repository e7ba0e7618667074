package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typetest/internal/model"
)

const tabWidth = 4

type styledRune struct {
	s       string
	width   int
	isSpace bool
	isBreak bool
}

// buildStyledRunes renders each target position by status. The current
// position is underlined and the rest of its word is highlighted.
func buildStyledRunes(chars []model.Character) []styledRune {
	cursorIndex := currentIndex(chars)
	words := findWords(chars)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(chars))
	for i, ch := range chars {
		style := pendingStyle
		switch ch.Status {
		case model.StatusCorrect:
			style = correctStyle
		case model.StatusIncorrect:
			style = incorrectStyle
		case model.StatusCurrent, model.StatusWaiting:
			if currentWord != nil && i >= currentWord.start && i < currentWord.end {
				style = currentWordStyle
			}
		}
		if ch.Status == model.StatusCurrent {
			style = style.Underline(true)
		}
		out = append(out, styleRune(ch, style))
	}
	return out
}

func styleRune(ch model.Character, style lipgloss.Style) styledRune {
	switch ch.Char {
	case ' ':
		displayed := " "
		if ch.Status == model.StatusIncorrect {
			displayed = "•"
		}
		return styledRune{s: style.Render(displayed), width: 1, isSpace: true}
	case '\n':
		return styledRune{s: style.Render("↵"), width: 1, isSpace: true, isBreak: true}
	case '\t':
		return styledRune{s: style.Render("→" + strings.Repeat(" ", tabWidth-1)), width: tabWidth, isSpace: true}
	}
	return styledRune{s: style.Render(string(ch.Char)), width: runewidth.RuneWidth(ch.Char)}
}

func currentIndex(chars []model.Character) int {
	for i, ch := range chars {
		if ch.Status == model.StatusCurrent {
			return i
		}
	}
	return -1
}

type wordRange struct {
	start int
	end   int
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t'
}

func findWords(chars []model.Character) []wordRange {
	words := []wordRange{}
	start := -1
	for i, ch := range chars {
		if isSeparator(ch.Char) {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(chars)})
	}
	return words
}

// wordForCursor returns the word containing the cursor or the next one after
// it. Without a cursor there is no current word.
func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return nil
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
		if item.isBreak {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	flush := func(items []styledRune) {
		out.WriteString(renderLine(items))
		out.WriteRune('\n')
	}

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				flush(line[:lastSpaceIdx+1])
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				flush(line)
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
		if item.isBreak {
			flush(line)
			line = line[:0]
			lineWidth = 0
			lastSpaceIdx = -1
		}
	}
	out.WriteString(renderLine(line))
	return out.String()
}

// renderLine writes items without their break newlines; the wrapper owns
// line ends.
func renderLine(items []styledRune) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(item.s)
	}
	return b.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
