package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Selected    lipgloss.Style
	Section     lipgloss.Style
	Total       lipgloss.Style
	BorderedBox lipgloss.Style
	Primary     lipgloss.Color
	Muted       lipgloss.Color
	Border      lipgloss.Color
}

// DefaultTheme is the default theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#6BCB77"),
	Muted:   lipgloss.Color("#666666"),
	Border:  lipgloss.Color("#333333"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#6BCB77")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666")),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#2D6A4F")).
		Bold(true),
	Section: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#95E1D3")),
	Total: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFE66D")),
	BorderedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		Padding(0, 1),
}
