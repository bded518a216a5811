// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/weekly-budget/internal/budget"
	"github.com/Veraticus/weekly-budget/internal/model"
)

// TransactionSource loads the transactions of one input file.
type TransactionSource interface {
	ReadFile(ctx context.Context, path string) ([]*model.Transaction, error)
}

// ReportSink receives built weekly reports.
type ReportSink interface {
	// Name identifies the sink in logs and errors.
	Name() string
	// WriteReport persists one week. A failure affects only that week.
	WriteReport(ctx context.Context, report *budget.Report) error
}

// Archive defines the contract for the run history store.
type Archive interface {
	// SaveRun records a run, assigning its ID when empty and setting run.New.
	SaveRun(ctx context.Context, run *model.Run, weeks []model.WeeklySummary, transactions []*model.Transaction) error
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
	GetWeeklySummaries(ctx context.Context, runID string) ([]model.WeeklySummary, error)
	Close() error
}

// Observer is notified as reports are written. Implementations must be safe
// for concurrent use when several files are processed at once.
type Observer interface {
	ReportsBuilt(source string, count int)
	ReportWritten(source string, report *budget.Report, err error)
}
