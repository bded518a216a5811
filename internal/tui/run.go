package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/weekly-budget/internal/budget"
	"github.com/Veraticus/weekly-budget/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the week browser until the user quits or ctx is canceled.
func Run(ctx context.Context, source string, reports []*budget.Report, currency model.CurrencyFormat) error {
	p := tea.NewProgram(
		NewModel(source, reports, currency),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("week browser failed: %w", err)
	}
	return nil
}
