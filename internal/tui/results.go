package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
)

const (
	plotHeight   = 6
	weakCharsTop = 8
)

// renderResults builds the scrollable results screen content.
func renderResults(snap model.Snapshot, samples []float64, width int) string {
	sections := []string{
		headerStyle.Render(fmt.Sprintf("%s mode · finished", snap.Mode.Info().Name)),
		renderResultCards(snap, width),
	}
	if pace := renderPace(samples, width); pace != "" {
		sections = append(sections, pace)
	}
	sections = append(sections, renderWeakChars(snap))
	return strings.Join(sections, "\n\n")
}

func renderResultCards(snap model.Snapshot, width int) string {
	cards := []string{
		metricCard("Grade", stats.Grade(snap.WPM)),
		metricCard("WPM", fmt.Sprintf("%d", snap.WPM)),
		metricCard("Accuracy", fmt.Sprintf("%d%%", snap.Accuracy)),
		metricCard("Time", stats.FormatDuration(snap.ElapsedSeconds)),
		metricCard("Correct", fmt.Sprintf("%d", snap.CorrectChars)),
		metricCard("Errors", fmt.Sprintf("%d", snap.IncorrectChars)),
	}
	if width > 0 && width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderPace(samples []float64, width int) string {
	var buf bytes.Buffer
	opts := stats.PlotOptions{Width: stats.PlotWidthFor(width), Height: plotHeight, ForceColor: true}
	if err := stats.PlotPace(&buf, samples, opts); err != nil {
		return errorStyle.Render(fmt.Sprintf("Failed to render pace: %v", err))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderWeakChars(snap model.Snapshot) string {
	weak := stats.WeakChars(stats.CharBreakdown(snap.Characters), weakCharsTop)
	if len(weak) == 0 {
		return headerStyle.Render("No missed keys.")
	}
	return headerStyle.Render("Missed keys") + "\n" + buildCharTable(weak).View()
}

func buildCharTable(aggs []model.CharAggregate) table.Model {
	columns := []table.Column{
		{Title: stats.CharTableHeaders[0], Width: 8},
		{Title: stats.CharTableHeaders[1], Width: 9},
		{Title: stats.CharTableHeaders[2], Width: 8},
		{Title: stats.CharTableHeaders[3], Width: 7},
	}
	cells := stats.CharTableRows(aggs)
	rows := make([]table.Row, 0, len(cells))
	for _, row := range cells {
		rows = append(rows, table.Row(row))
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
	t.SetStyles(charTableStyles())
	return t
}

func charTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	// Unfocused table: the selected row renders like any other.
	styles.Selected = styles.Cell
	return styles
}
