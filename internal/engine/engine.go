// Package engine runs the weekly budget transform end to end: it loads an
// export, splits it into weeks, builds one report per week and hands each
// report to every configured sink.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/weekly-budget/internal/budget"
	"github.com/Veraticus/weekly-budget/internal/common"
	"github.com/Veraticus/weekly-budget/internal/csvio"
	"github.com/Veraticus/weekly-budget/internal/model"
	"github.com/Veraticus/weekly-budget/internal/ofx"
	"github.com/Veraticus/weekly-budget/internal/service"
	"golang.org/x/sync/errgroup"
)

// Options holds configuration options for the engine.
type Options struct {
	Window      budget.WindowOptions
	Report      budget.ReportOptions
	DateLayout  string
	Concurrency int
}

// DefaultOptions returns Monday weeks, dropped partial weeks, US dollars and
// four files in flight.
func DefaultOptions() Options {
	return Options{
		Window:      budget.DefaultWindowOptions(),
		Report:      budget.DefaultReportOptions(),
		DateLayout:  model.DefaultDateLayout,
		Concurrency: 4,
	}
}

// Engine orchestrates loading, windowing, building and writing reports.
type Engine struct {
	archive  service.Archive
	observer service.Observer
	logger   *slog.Logger
	csv      service.TransactionSource
	ofx      service.TransactionSource
	sinks    []service.ReportSink
	opts     Options
}

// New creates an engine writing every report to each sink.
func New(opts Options, sinks ...service.ReportSink) *Engine {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	logger := slog.Default()
	return &Engine{
		opts:   opts,
		sinks:  sinks,
		logger: logger,
		csv:    csvio.NewReader(opts.DateLayout, logger),
		ofx:    ofx.NewParser(logger),
	}
}

// WithArchive records every processed file in archive.
func (e *Engine) WithArchive(archive service.Archive) *Engine {
	e.archive = archive
	return e
}

// WithObserver reports progress to observer.
func (e *Engine) WithObserver(observer service.Observer) *Engine {
	e.observer = observer
	return e
}

// WithLogger replaces the default logger.
func (e *Engine) WithLogger(logger *slog.Logger) *Engine {
	if logger != nil {
		e.logger = logger
		e.csv = csvio.NewReader(e.opts.DateLayout, logger)
		e.ofx = ofx.NewParser(logger)
	}
	return e
}

// Result summarizes one processed file.
type Result struct {
	Run     *model.Run
	Source  string
	Reports []*budget.Report
	Failed  []error
	Written int
	Dropped int
}

// Load reads path with the reader its extension calls for: OFX/QFX
// statements or the CSV register export.
func (e *Engine) Load(ctx context.Context, path string) ([]*model.Transaction, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return e.ofx.ReadFile(ctx, path)
	default:
		return e.csv.ReadFile(ctx, path)
	}
}

// Build turns transactions into one report per week without writing anything.
func (e *Engine) Build(transactions []*model.Transaction) ([]*budget.Report, error) {
	return budget.BuildReports(transactions, e.opts.Window, e.opts.Report)
}

// ProcessFile loads, builds and writes every week of one file. Load and
// build errors are returned before anything is written. A sink failure
// only costs that week and is recorded in Result.Failed.
func (e *Engine) ProcessFile(ctx context.Context, path string) (*Result, error) {
	started := time.Now()
	logger := e.logger.With("source", path)

	transactions, err := e.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	reports, err := e.Build(transactions)
	if err != nil {
		return nil, fmt.Errorf("failed to build reports for %s: %w", path, err)
	}

	result := &Result{
		Source:  path,
		Reports: reports,
		Dropped: len(transactions) - budget.Assigned(weeksOf(reports)),
	}
	if result.Dropped > 0 {
		logger.Info("Transactions outside full weeks were skipped", "count", result.Dropped)
	}
	if e.observer != nil {
		e.observer.ReportsBuilt(path, len(reports))
	}

	failedWeeks := 0
	for _, report := range reports {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var weekErr error
		for _, sink := range e.sinks {
			if err := sink.WriteReport(ctx, report); err != nil {
				writeErr := &common.WriteError{Err: err, Sink: sink.Name(), Report: report.Name()}
				common.LogError(logger, writeErr, "Failed to write weekly report", common.Fields{
					"week": report.Name(),
					"sink": sink.Name(),
				})
				result.Failed = append(result.Failed, writeErr)
				weekErr = errors.Join(weekErr, writeErr)
				continue
			}
			result.Written++
		}
		if weekErr != nil {
			failedWeeks++
		}
		if e.observer != nil {
			e.observer.ReportWritten(path, report, weekErr)
		}
	}

	result.Run = &model.Run{
		StartedAt:    started,
		Source:       path,
		Transactions: len(transactions),
		Dropped:      result.Dropped,
		Weeks:        len(reports),
		Failed:       failedWeeks,
	}
	e.record(ctx, logger, result, transactions)

	logger.Info("Processed file",
		"transactions", len(transactions),
		"weeks", len(reports),
		"written", result.Written,
		"failed", len(result.Failed),
		"duration", time.Since(started))

	return result, nil
}

// record archives the run. The reports are already written, so an archive
// failure is logged rather than returned.
func (e *Engine) record(ctx context.Context, logger *slog.Logger, result *Result, transactions []*model.Transaction) {
	if e.archive == nil {
		return
	}

	summaries := make([]model.WeeklySummary, 0, len(result.Reports))
	for _, report := range result.Reports {
		summaries = append(summaries, report.Summary(""))
	}

	if err := e.archive.SaveRun(ctx, result.Run, summaries, transactions); err != nil {
		common.LogError(logger, err, "Failed to archive run", nil)
		return
	}
	logger.Debug("Archived run", "run_id", result.Run.ID, "new_transactions", result.Run.New)
}

// ProcessFiles processes paths concurrently, bounded by Options.Concurrency.
// Files share no state; results keep the order of paths and a failed file
// leaves a nil entry. Every per-file error is joined into the returned error.
func (e *Engine) ProcessFiles(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(e.opts.Concurrency)

	for i, path := range paths {
		g.Go(func() error {
			result, err := e.ProcessFile(ctx, path)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", path, err)
				return nil
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

func weeksOf(reports []*budget.Report) []*model.Week {
	weeks := make([]*model.Week, len(reports))
	for i, report := range reports {
		weeks[i] = report.Week
	}
	return weeks
}
