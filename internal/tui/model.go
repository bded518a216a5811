// Package tui provides an interactive browser for weekly budget reports.
package tui

import (
	"fmt"

	"github.com/Veraticus/weekly-budget/internal/budget"
	"github.com/Veraticus/weekly-budget/internal/model"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View represents the current view mode.
type View int

// View modes.
const (
	ViewWeeks View = iota
	ViewDetail
)

// chrome is the number of lines taken by the header, footer and borders.
const chrome = 6

// Model lists the weeks of one export and opens a week's full report.
type Model struct {
	currency model.CurrencyFormat
	theme    Theme
	keys     KeyMap
	source   string
	reports  []*budget.Report
	help     help.Model
	detail   viewport.Model
	table    table.Model
	view     View
	width    int
	height   int
}

// NewModel creates a browser over reports.
func NewModel(source string, reports []*budget.Report, currency model.CurrencyFormat) Model {
	theme := DefaultTheme
	keys := DefaultKeyMap()

	columns := []table.Column{
		{Title: "Week", Width: 17},
		{Title: "Spent", Width: 12},
		{Title: "Incl. Rent", Width: 12},
		{Title: "Top Category", Width: 20},
		{Title: "Txns", Width: 5},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(weekRows(reports, currency)),
		table.WithFocused(true),
		table.WithKeyMap(keys.tableKeys()),
		table.WithHeight(min(len(reports)+3, 20)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	detail := viewport.New(80, 20)
	detail.KeyMap = keys.viewportKeys()

	return Model{
		currency: currency,
		theme:    theme,
		keys:     keys,
		source:   source,
		reports:  reports,
		help:     help.New(),
		detail:   detail,
		table:    t,
		view:     ViewWeeks,
		width:    80,
		height:   24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(m.height-chrome, 3))
		m.detail.Width = msg.Width
		m.detail.Height = max(m.height-chrome, 3)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.ForceQuit), key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.ToggleHelp):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		switch m.view {
		case ViewWeeks:
			if key.Matches(msg, m.keys.Open) && m.Selected() != nil {
				m.openSelected()
				return m, nil
			}
		case ViewDetail:
			switch {
			case key.Matches(msg, m.keys.Back):
				m.view = ViewWeeks
				return m, nil
			case key.Matches(msg, m.keys.NextWeek):
				if m.table.Cursor() < len(m.reports)-1 {
					m.table.MoveDown(1)
					m.openSelected()
				}
				return m, nil
			case key.Matches(msg, m.keys.PrevWeek):
				if m.table.Cursor() > 0 {
					m.table.MoveUp(1)
					m.openSelected()
				}
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.view == ViewDetail {
		m.detail, cmd = m.detail.Update(msg)
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

// Selected returns the report under the cursor, or nil when there are none.
func (m Model) Selected() *budget.Report {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.reports) {
		return nil
	}
	return m.reports[cursor]
}

// openSelected shows the report under the cursor from its first line.
func (m *Model) openSelected() {
	m.detail.SetContent(renderReport(m.Selected().Rows, m.theme))
	m.detail.GotoTop()
	m.view = ViewDetail
}

// CurrentView returns the active view mode.
func (m Model) CurrentView() View {
	return m.view
}

func weekRows(reports []*budget.Report, currency model.CurrencyFormat) []table.Row {
	rows := make([]table.Row, 0, len(reports))
	for _, report := range reports {
		top := ""
		if cat := report.Categories.Top(); cat != nil {
			top = cat.Name
		}
		rows = append(rows, table.Row{
			report.Week.Label(),
			currency.Format(report.TotalSpent),
			currency.Format(report.TotalWithRent),
			top,
			fmt.Sprintf("%d", len(report.Week.Transactions)),
		})
	}
	return rows
}
