package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Veraticus/weekly-budget/internal/budget"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	var header, body string
	var keys help.KeyMap = weeksHelp{m.keys}

	switch m.view {
	case ViewDetail:
		report := m.Selected()
		header = m.theme.Title.Render(fmt.Sprintf("%s %s", budget.ReportTitle, report.Week.Label()))
		body = m.detail.View()
		keys = detailHelp{m.keys}
	default:
		header = lipgloss.JoinHorizontal(lipgloss.Bottom,
			m.theme.Title.Render(budget.ReportTitle),
			m.theme.Subtitle.Render(fmt.Sprintf("  %s, %d weeks", filepath.Base(m.source), len(m.reports))),
		)
		if len(m.reports) == 0 {
			body = m.theme.Subtitle.Render("No full weeks in this file.")
		} else {
			body = m.theme.BorderedBox.Render(m.table.View())
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		m.help.View(keys),
	)
}

// renderReport aligns report rows into columns. Single-cell rows (the
// per-category headers) do not widen the first column.
func renderReport(rows [][]string, theme Theme) string {
	var widths []int
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			if len(row) > 1 && j < len(row)-1 {
				cell += strings.Repeat(" ", widths[j]-lipgloss.Width(cell))
			}
			cells[j] = cell
		}
		line := strings.Join(cells, "  ")

		switch {
		case i == 0:
			line = theme.Title.Render(line)
		case len(row) == 1:
			line = theme.Section.Render(line)
		case len(row) > 0 && (row[0] == budget.TotalSpentLabel || row[0] == budget.IncludingRentLabel):
			line = theme.Total.Render(line)
		case len(row) == len(budget.DetailHeader) && row[0] == budget.DetailHeader[0]:
			line = theme.Subtitle.Render(line)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
