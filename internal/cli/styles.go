// Package cli renders the terminal side of the budget commands: styled
// messages, the run progress bar and run summaries.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. Spend is the accent used for titles and totals.
var (
	SpendColor   = lipgloss.Color("#6BCB77")
	WrittenColor = lipgloss.Color("#4ECDC4")
	SkippedColor = lipgloss.Color("#FFE66D")
	FailedColor  = lipgloss.Color("#FF6B6B")
	NoteColor    = lipgloss.Color("#95E1D3")
	MutedColor   = lipgloss.Color("#666666")
	FrameColor   = lipgloss.Color("#333")
)

var (
	// TitleStyle is used for command and box titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(SpendColor).
			MarginBottom(1)

	// SubtleStyle formats secondary figures such as rent-inclusive totals.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// BoxStyle frames the per-file summary.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(FrameColor).
			Padding(1, 2)

	// TableHeaderStyle underlines the history header.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(FrameColor)

	// WeekRowStyle indents the weekly totals listed under a run.
	WeekRowStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(4)

	successStyle = lipgloss.NewStyle().Foreground(WrittenColor)
	warningStyle = lipgloss.NewStyle().Foreground(SkippedColor)
	errorStyle   = lipgloss.NewStyle().Foreground(FailedColor)
	infoStyle    = lipgloss.NewStyle().Foreground(NoteColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	BudgetIcon  = "💰"
	ChartIcon   = "📊"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return successStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return errorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return warningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return infoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle prefixes title with the budget icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(BudgetIcon + " " + title)
}

// RenderBox frames content under a title.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.UnsetMargins().Render(title),
		content,
	))
}
