package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Veraticus/weekly-budget/internal/engine"
	"github.com/Veraticus/weekly-budget/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// RenderRunSummary renders one box per processed file listing each week's
// spend, plus any weeks that failed to write. Nil results are skipped.
func RenderRunSummary(results []*engine.Result, currency model.CurrencyFormat) string {
	boxes := make([]string, 0, len(results))

	for _, result := range results {
		if result == nil {
			continue
		}

		var b strings.Builder
		if len(result.Reports) == 0 {
			b.WriteString(SubtleStyle.Render("No full weeks found"))
		}

		for i, report := range result.Reports {
			if i > 0 {
				b.WriteString("\n")
			}
			line := fmt.Sprintf("%-17s %12s", report.Week.Label(), currency.Format(report.TotalSpent))
			if report.IncludesRent() {
				line += SubtleStyle.Render(fmt.Sprintf("  %s incl. rent", currency.Format(report.TotalWithRent)))
			}
			b.WriteString(line)
		}

		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("%d transactions, %d weeks, %d written", result.Run.Transactions, len(result.Reports), result.Written))
		if result.Dropped > 0 {
			b.WriteString(SubtleStyle.Render(fmt.Sprintf(", %d outside full weeks", result.Dropped)))
		}
		if result.Run.ID != "" {
			b.WriteString(SubtleStyle.Render(fmt.Sprintf(", %d new", result.Run.New)))
		}

		for _, err := range result.Failed {
			b.WriteString("\n")
			b.WriteString(FormatError(err.Error()))
		}

		boxes = append(boxes, RenderBox(ChartIcon+" "+filepath.Base(result.Source), b.String()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}

// RenderHistory renders archived runs, newest first, each followed by its
// weekly totals when weeks holds them.
func RenderHistory(runs []model.Run, weeks map[string][]model.WeeklySummary, currency model.CurrencyFormat) string {
	if len(runs) == 0 {
		return SubtleStyle.Render("No runs recorded yet")
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-19s  %-24s  %5s  %5s  %5s", "Started", "Source", "Txns", "Weeks", "New")))
	b.WriteString("\n")

	for _, run := range runs {
		b.WriteString(fmt.Sprintf("%-19s  %-24s  %5d  %5d  %5d",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			truncate(filepath.Base(run.Source), 24),
			run.Transactions,
			run.Weeks,
			run.New))
		if run.Failed > 0 {
			b.WriteString("  " + FormatWarning(fmt.Sprintf("%d failed", run.Failed)))
		}
		b.WriteString("\n")

		for _, week := range weeks[run.ID] {
			b.WriteString(WeekRowStyle.Render(fmt.Sprintf("%s  %12s  %12s  %s",
				week.WeekStart.Format("02 Jan 2006"),
				currency.Format(week.TotalSpent),
				currency.Format(week.TotalWithRent),
				week.TopCategory)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
