package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the schema version this build reads and writes.
// Migrate fails when the archive cannot be brought to it.
const ExpectedSchemaVersion = 2

// Migration is one schema step, applied atomically together with the
// user_version bump.
type Migration struct {
	Description string
	Statements  []string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Runs and their weekly totals",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS runs (
				id TEXT PRIMARY KEY,
				source TEXT NOT NULL,
				started_at DATETIME NOT NULL,
				transactions INTEGER NOT NULL DEFAULT 0,
				dropped INTEGER NOT NULL DEFAULT 0,
				weeks INTEGER NOT NULL DEFAULT 0,
				failed INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
			`CREATE TABLE IF NOT EXISTS weekly_reports (
				run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
				week_start DATETIME NOT NULL,
				week_end DATETIME NOT NULL,
				top_category TEXT,
				total_spent_cents INTEGER NOT NULL,
				total_with_rent_cents INTEGER NOT NULL,
				categories INTEGER NOT NULL,
				transactions INTEGER NOT NULL,
				PRIMARY KEY (run_id, week_start)
			)`,
		},
	},
	{
		Version:     2,
		Description: "Track transactions seen across runs",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS seen_transactions (
				hash TEXT PRIMARY KEY,
				first_run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
				date DATETIME NOT NULL,
				category TEXT NOT NULL,
				description TEXT,
				cost_cents INTEGER NOT NULL
			)`,
			`ALTER TABLE runs ADD COLUMN new_transactions INTEGER NOT NULL DEFAULT 0`,
		},
	},
}

// Migrate applies every migration newer than the archive's user_version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}
		if err := s.apply(ctx, migration); err != nil {
			return err
		}
		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	final, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if final != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, final)
	}
	return nil
}

func (s *SQLiteStorage) apply(ctx context.Context, migration Migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stmt := range migration.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
	}

	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
	}
	return nil
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
