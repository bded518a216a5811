package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/weekly-budget/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(MemoryPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func testTransaction(t *testing.T, date, category, description, cost string) *model.Transaction {
	t.Helper()
	txn, err := model.NewTransaction(date, "Everyday", category, description, cost, model.ZeroAmountText, model.DefaultDateLayout)
	require.NoError(t, err)
	return txn
}

func testSummary(start time.Time, top string, spent, withRent int64) model.WeeklySummary {
	return model.WeeklySummary{
		WeekStart:     start,
		WeekEnd:       start.AddDate(0, 0, 6),
		TopCategory:   top,
		TotalSpent:    model.NewMoneyFromCents(spent),
		TotalWithRent: model.NewMoneyFromCents(withRent),
		Categories:    2,
		Transactions:  3,
	}
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("creates parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "budget.db")
		store, err := NewSQLiteStorage(path)
		require.NoError(t, err)
		defer store.Close()

		assert.Equal(t, path, store.Path())
		require.NoError(t, store.Migrate(context.Background()))
	})

	t.Run("rejects empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("  ")
		assert.ErrorIs(t, err, ErrEmptyString)
	})
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestSaveRun_AssignsIDAndRoundTrips(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	run := &model.Run{
		StartedAt:    time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
		Source:       "export.csv",
		Transactions: 6,
		Weeks:        2,
	}
	summaries := []model.WeeklySummary{
		testSummary(monday.AddDate(0, 0, 7), "Groceries", 4000, 4000),
		testSummary(monday, "Rent", 5000, 25000),
	}
	txns := []*model.Transaction{
		testTransaction(t, "01/01/2024", "Rent", "Landlord", "$200.00"),
		testTransaction(t, "02/01/2024", "Groceries", "Market", "$50.00"),
	}

	require.NoError(t, store.SaveRun(ctx, run, summaries, txns))
	require.NotEmpty(t, run.ID)
	assert.Equal(t, 2, run.New)

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "export.csv", runs[0].Source)
	assert.Equal(t, 6, runs[0].Transactions)
	assert.Equal(t, 2, runs[0].Weeks)
	assert.Equal(t, 2, runs[0].New)
	assert.True(t, run.StartedAt.Equal(runs[0].StartedAt))

	weeks, err := store.GetWeeklySummaries(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, weeks, 2)

	// Oldest week first regardless of insert order.
	assert.True(t, monday.Equal(weeks[0].WeekStart))
	assert.Equal(t, "Rent", weeks[0].TopCategory)
	assert.Equal(t, int64(5000), weeks[0].TotalSpent.Cents())
	assert.Equal(t, int64(25000), weeks[0].TotalWithRent.Cents())
	assert.Equal(t, run.ID, weeks[0].RunID)
	assert.Equal(t, "Groceries", weeks[1].TopCategory)
}

func TestSaveRun_CountsOnlyNewTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	rent := testTransaction(t, "01/01/2024", "Rent", "Landlord", "$200.00")
	market := testTransaction(t, "02/01/2024", "Groceries", "Market", "$50.00")

	first := &model.Run{StartedAt: time.Now(), Source: "a.csv"}
	require.NoError(t, store.SaveRun(ctx, first, nil, []*model.Transaction{rent}))
	assert.Equal(t, 1, first.New)

	second := &model.Run{StartedAt: time.Now(), Source: "b.csv"}
	require.NoError(t, store.SaveRun(ctx, second, nil, []*model.Transaction{rent, market}))
	assert.Equal(t, 1, second.New)
}

func TestSaveRun_CountsRepeatedPurchases(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	coffee := func() *model.Transaction {
		return testTransaction(t, "03/01/2024", "Eating Out", "Cafe", "$4.50")
	}

	first := &model.Run{StartedAt: time.Now(), Source: "a.csv"}
	require.NoError(t, store.SaveRun(ctx, first, nil, []*model.Transaction{coffee(), coffee()}))
	assert.Equal(t, 2, first.New)

	// Re-reading the same export adds nothing.
	again := &model.Run{StartedAt: time.Now(), Source: "a.csv"}
	require.NoError(t, store.SaveRun(ctx, again, nil, []*model.Transaction{coffee(), coffee()}))
	assert.Zero(t, again.New)

	// A later export with a third coffee that day counts only the third.
	later := &model.Run{StartedAt: time.Now(), Source: "b.csv"}
	require.NoError(t, store.SaveRun(ctx, later, nil, []*model.Transaction{coffee(), coffee(), coffee()}))
	assert.Equal(t, 1, later.New)
}

func TestSaveRun_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		run       *model.Run
		name      string
		wantErr   error
		summaries []model.WeeklySummary
	}{
		{name: "nil run", run: nil, wantErr: ErrNilParameter},
		{name: "missing source", run: &model.Run{StartedAt: time.Now()}, wantErr: ErrInvalidRun},
		{name: "missing start", run: &model.Run{Source: "x.csv"}, wantErr: ErrInvalidRun},
		{
			name:      "zero week",
			run:       &model.Run{StartedAt: time.Now(), Source: "x.csv"},
			summaries: []model.WeeklySummary{{}},
			wantErr:   ErrInvalidWeek,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SaveRun(ctx, tt.run, tt.summaries, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSaveRun_DuplicateIDRollsBack(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	run := &model.Run{ID: "fixed", StartedAt: time.Now(), Source: "x.csv"}
	require.NoError(t, store.SaveRun(ctx, run, nil, nil))

	again := &model.Run{ID: "fixed", StartedAt: time.Now(), Source: "y.csv"}
	require.Error(t, store.SaveRun(ctx, again, nil, nil))

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "x.csv", runs[0].Source)
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, source := range []string{"a.csv", "b.csv", "c.csv"} {
		run := &model.Run{StartedAt: base.Add(time.Duration(i) * time.Hour), Source: source}
		require.NoError(t, store.SaveRun(ctx, run, nil, nil))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c.csv", runs[0].Source)
	assert.Equal(t, "b.csv", runs[1].Source)
}

func TestGetWeeklySummaries_Errors(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.GetWeeklySummaries(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyString)

	_, err = store.GetWeeklySummaries(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
