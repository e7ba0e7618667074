package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetest/internal/model"
)

func newModePicker(current model.Mode) table.Model {
	columns := []table.Column{
		{Title: "Mode", Width: 10},
		{Title: "Description", Width: 52},
	}
	rows := make([]table.Row, 0, len(model.Modes))
	cursor := 0
	for i, info := range model.Modes {
		rows = append(rows, table.Row{info.Name, info.Description})
		if info.Mode == current {
			cursor = i
		}
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(len(rows)),
	)
	t.SetStyles(pickerStyles())
	t.SetCursor(cursor)
	return t
}

func pickerStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#C89A3A")).
		Bold(true)
	return styles
}

// selectedMode maps the picker cursor back to a mode.
func selectedMode(t table.Model) (model.Mode, bool) {
	idx := t.Cursor()
	if idx < 0 || idx >= len(model.Modes) {
		return "", false
	}
	return model.Modes[idx].Mode, true
}

func (m *Model) renderPicker() string {
	body := []string{
		cardValueStyle.Render("Select Mode"),
		m.picker.View(),
		footerStyle.Render("↑/↓ to move · Enter to select · Esc to cancel"),
	}
	box := modalStyle.Render(strings.Join(body, "\n"))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
