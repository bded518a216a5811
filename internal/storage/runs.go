package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/weekly-budget/internal/model"
	"github.com/google/uuid"
)

// DefaultRunLimit caps ListRuns when no positive limit is given.
const DefaultRunLimit = 20

// SaveRun records a run with its weekly summaries and the transactions it
// read. An empty run.ID is replaced with a new UUID. run.New is set to the
// number of transactions never seen by an earlier run.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.Run, summaries []model.WeeklySummary, transactions []*model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}
	if err := validateSummaries(summaries); err != nil {
		return err
	}

	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, started_at, transactions, dropped, weeks, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.StartedAt.UTC(), run.Transactions, run.Dropped, run.Weeks, run.Failed)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	weekStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO weekly_reports (
			run_id, week_start, week_end, top_category,
			total_spent_cents, total_with_rent_cents, categories, transactions
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare weekly report insert: %w", err)
	}
	defer weekStmt.Close()

	for _, summary := range summaries {
		_, err = weekStmt.ExecContext(ctx,
			run.ID,
			summary.WeekStart.UTC(),
			summary.WeekEnd.UTC(),
			summary.TopCategory,
			summary.TotalSpent.Cents(),
			summary.TotalWithRent.Cents(),
			summary.Categories,
			summary.Transactions,
		)
		if err != nil {
			return fmt.Errorf("failed to insert week %s: %w", summary.WeekStart.Format("2006-01-02"), err)
		}
	}

	newCount, err := s.saveSeenTx(ctx, tx, run.ID, transactions)
	if err != nil {
		return err
	}
	run.New = newCount

	if _, err = tx.ExecContext(ctx, `UPDATE runs SET new_transactions = ? WHERE id = ?`, newCount, run.ID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// saveSeenTx inserts transaction hashes, ignoring ones already recorded, and
// returns how many were new. Identical transactions within one run are
// numbered so each repeat counts separately.
func (s *SQLiteStorage) saveSeenTx(ctx context.Context, tx *sql.Tx, runID string, transactions []*model.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO seen_transactions (hash, first_run_id, date, category, description, cost_cents)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare transaction insert: %w", err)
	}
	defer stmt.Close()

	newCount := 0
	occurrences := make(map[string]int, len(transactions))
	for _, txn := range transactions {
		if txn == nil {
			continue
		}
		base := txn.Hash()
		hash := txn.OccurrenceHash(occurrences[base])
		occurrences[base]++

		result, err := stmt.ExecContext(ctx,
			hash, runID, txn.Date.UTC(), txn.Category, txn.Description, txn.Cost.Cents())
		if err != nil {
			return 0, fmt.Errorf("failed to insert transaction: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to check inserted transaction: %w", err)
		}
		newCount += int(affected)
	}
	return newCount, nil
}

// ListRuns returns the most recent runs first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRunLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, started_at, transactions, dropped, new_transactions, weeks, failed
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		if err := rows.Scan(
			&run.ID,
			&run.Source,
			&run.StartedAt,
			&run.Transactions,
			&run.Dropped,
			&run.New,
			&run.Weeks,
			&run.Failed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// GetWeeklySummaries returns the weeks recorded for a run, oldest first.
func (s *SQLiteStorage) GetWeeklySummaries(ctx context.Context, runID string) ([]model.WeeklySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}

	var exists string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs WHERE id = ?`, runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT week_start, week_end, top_category, total_spent_cents,
		       total_with_rent_cents, categories, transactions
		FROM weekly_reports
		WHERE run_id = ?
		ORDER BY week_start`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly reports: %w", err)
	}
	defer rows.Close()

	var summaries []model.WeeklySummary
	for rows.Next() {
		var (
			summary       model.WeeklySummary
			topCategory   sql.NullString
			spentCents    int64
			withRentCents int64
		)
		if err := rows.Scan(
			&summary.WeekStart,
			&summary.WeekEnd,
			&topCategory,
			&spentCents,
			&withRentCents,
			&summary.Categories,
			&summary.Transactions,
		); err != nil {
			return nil, fmt.Errorf("failed to scan weekly report: %w", err)
		}
		summary.RunID = runID
		summary.TopCategory = topCategory.String
		summary.TotalSpent = model.NewMoneyFromCents(spentCents)
		summary.TotalWithRent = model.NewMoneyFromCents(withRentCents)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate weekly reports: %w", err)
	}
	return summaries, nil
}
