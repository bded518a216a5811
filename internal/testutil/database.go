package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/weekly-budget/internal/storage"
)

// SetupTestDB creates a migrated in-memory run archive that is closed when
// the test ends.
//
// Example:
//
//	archive := testutil.SetupTestDB(t)
//	engine := engine.New(opts, sink).WithArchive(archive)
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	archive, err := storage.NewSQLiteStorage(storage.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := archive.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		archive.Close()
	})

	return archive
}
