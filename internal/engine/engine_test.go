package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Veraticus/weekly-budget/internal/budget"
	"github.com/Veraticus/weekly-budget/internal/common"
	"github.com/Veraticus/weekly-budget/internal/csvio"
	"github.com/Veraticus/weekly-budget/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSinkDown = errors.New("sink unavailable")

// recordingSink remembers written report names and fails the ones listed in failOn.
type recordingSink struct {
	failOn  map[string]bool
	written []string
	mu      sync.Mutex
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) WriteReport(_ context.Context, report *budget.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[report.Name()] {
		return errSinkDown
	}
	s.written = append(s.written, report.Name())
	return nil
}

type countingObserver struct {
	built   map[string]int
	written int
	failed  int
	mu      sync.Mutex
}

func (o *countingObserver) ReportsBuilt(source string, count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.built == nil {
		o.built = make(map[string]int)
	}
	o.built[source] = count
}

func (o *countingObserver) ReportWritten(_ string, _ *budget.Report, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.failed++
		return
	}
	o.written++
}

// twoWeekExport spans Mon 01 Jan to Sun 14 Jan 2024.
func twoWeekExport(t *testing.T) string {
	t.Helper()
	return testutil.NewTransactionBuilder(t).
		Expense("01/01/2024", testutil.CategoryGroceries, "Market", 30).
		Expense("03/01/2024", testutil.CategoryEntertainment, "Cinema", 20).
		Expense("04/01/2024", testutil.CategoryRent, "Landlord", 400).
		Income("07/01/2024", "Salary", 500).
		Expense("08/01/2024", testutil.CategoryGroceries, "Market", 35).
		Expense("10/01/2024", testutil.CategoryTransport, "Bus", 5).
		Income("14/01/2024", "Salary", 500).
		CSV()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestProcessFile_WritesOneCSVPerWeek(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "export.csv", twoWeekExport(t))
	outDir := filepath.Join(dir, "reports")

	result, err := New(DefaultOptions(), csvio.NewDirWriter(outDir)).ProcessFile(context.Background(), input)
	require.NoError(t, err)

	assert.Len(t, result.Reports, 2)
	assert.Equal(t, 2, result.Written)
	assert.Empty(t, result.Failed)
	assert.Zero(t, result.Dropped)
	assert.Equal(t, 7, result.Run.Transactions)

	first, err := os.ReadFile(filepath.Join(outDir, "20240101.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(first), "Weekly Budget,01 Jan - 07 Jan\n")
	assert.Contains(t, string(first), "Total Spent:,$50.00\n")
	assert.Contains(t, string(first), "Including Rent:,$450.00\n")

	second, err := os.ReadFile(filepath.Join(outDir, "20240108.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(second), "Weekly Budget,08 Jan - 14 Jan\n")
	assert.Contains(t, string(second), "Total Spent:,$40.00\n")
	assert.NotContains(t, string(second), "Including Rent:")
}

func TestProcessFile_ConsecutiveMondays(t *testing.T) {
	dir := t.TempDir()
	export := testutil.NewTransactionBuilder(t).
		Expense("01/01/2024", testutil.CategoryGroceries, "Market", 30).
		Expense("01/01/2024", testutil.CategoryTransport, "Bus", 5).
		Income("01/01/2024", "Salary", 500).
		Expense("08/01/2024", testutil.CategoryGroceries, "Market", 35).
		Expense("08/01/2024", testutil.CategoryEntertainment, "Cinema", 12).
		Income("08/01/2024", "Salary", 500).
		CSV()
	input := writeFile(t, dir, "export.csv", export)
	outDir := filepath.Join(dir, "reports")

	result, err := New(DefaultOptions(), csvio.NewDirWriter(outDir)).ProcessFile(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Written)
	assert.Zero(t, result.Dropped)

	tests := []struct {
		file  string
		title string
		total string
		rows  []string
	}{
		{
			file:  "20240101.csv",
			title: "Weekly Budget,01 Jan - 07 Jan\n",
			total: "Total Spent:,$35.00\n",
			rows:  []string{",01/01/2024,Market,$30.00\n", ",01/01/2024,Bus,$5.00\n", ",01/01/2024,Salary,-$500.00\n"},
		},
		{
			file:  "20240108.csv",
			title: "Weekly Budget,08 Jan - 14 Jan\n",
			total: "Total Spent:,$47.00\n",
			rows:  []string{",08/01/2024,Market,$35.00\n", ",08/01/2024,Cinema,$12.00\n", ",08/01/2024,Salary,-$500.00\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			content, err := os.ReadFile(filepath.Join(outDir, tt.file))
			require.NoError(t, err)
			assert.Contains(t, string(content), tt.title)
			assert.Contains(t, string(content), tt.total)
			for _, row := range tt.rows {
				assert.Contains(t, string(content), row)
			}
		})
	}
}

func TestProcessFile_SinkFailureIsIsolatedToItsWeek(t *testing.T) {
	input := writeFile(t, t.TempDir(), "export.csv", twoWeekExport(t))
	sink := &recordingSink{failOn: map[string]bool{"20240101": true}}
	observer := &countingObserver{}

	result, err := New(DefaultOptions(), sink).
		WithObserver(observer).
		ProcessFile(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, []string{"20240108"}, sink.written)
	require.Len(t, result.Failed, 1)

	var writeErr *common.WriteError
	require.ErrorAs(t, result.Failed[0], &writeErr)
	assert.Equal(t, "20240101", writeErr.Report)
	assert.Equal(t, "recording", writeErr.Sink)
	assert.ErrorIs(t, result.Failed[0], errSinkDown)

	assert.Equal(t, 1, result.Run.Failed)
	assert.Equal(t, 2, observer.built[input])
	assert.Equal(t, 1, observer.written)
	assert.Equal(t, 1, observer.failed)
}

func TestProcessFile_LoadErrorWritesNothing(t *testing.T) {
	export := twoWeekExport(t) + "only,three,cols\n"
	input := writeFile(t, t.TempDir(), "broken.csv", export)
	sink := &recordingSink{}

	result, err := New(DefaultOptions(), sink).ProcessFile(context.Background(), input)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, common.IsFatal(err))
	assert.Empty(t, sink.written)
}

func TestProcessFile_DropsPartialWeeks(t *testing.T) {
	export := testutil.NewTransactionBuilder(t).
		Expense("03/01/2024", testutil.CategoryGroceries, "Before", 1).
		Expense("08/01/2024", testutil.CategoryGroceries, "Inside", 2).
		Expense("14/01/2024", testutil.CategoryGroceries, "Inside", 3).
		Expense("16/01/2024", testutil.CategoryGroceries, "After", 4).
		CSV()
	input := writeFile(t, t.TempDir(), "partial.csv", export)

	result, err := New(DefaultOptions(), &recordingSink{}).ProcessFile(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, result.Reports, 1)
	assert.Equal(t, "20240108", result.Reports[0].Name())
	assert.Equal(t, 2, result.Dropped)
}

func TestProcessFile_ArchivesRun(t *testing.T) {
	archive := testutil.SetupTestDB(t)
	input := writeFile(t, t.TempDir(), "export.csv", twoWeekExport(t))
	ctx := context.Background()

	engine := New(DefaultOptions(), &recordingSink{}).WithArchive(archive)

	result, err := engine.ProcessFile(ctx, input)
	require.NoError(t, err)
	require.NotEmpty(t, result.Run.ID)
	assert.Equal(t, 7, result.Run.New)

	runs, err := archive.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Weeks)

	weeks, err := archive.GetWeeklySummaries(ctx, result.Run.ID)
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, testutil.CategoryRent, weeks[0].TopCategory)
	assert.Equal(t, int64(5000), weeks[0].TotalSpent.Cents())
	assert.Equal(t, int64(45000), weeks[0].TotalWithRent.Cents())

	// Re-running the same export finds nothing new.
	again, err := engine.ProcessFile(ctx, input)
	require.NoError(t, err)
	assert.Zero(t, again.Run.New)
}

func TestProcessFiles_IndependentFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", twoWeekExport(t))
	bad := writeFile(t, dir, "bad.csv", "a,b,c\n")
	missing := filepath.Join(dir, "missing.csv")
	sink := &recordingSink{}

	opts := DefaultOptions()
	opts.Concurrency = 2
	results, err := New(opts, sink).ProcessFiles(context.Background(), []string{good, bad, missing})
	require.Error(t, err)
	require.Len(t, results, 3)

	require.NotNil(t, results[0])
	assert.Equal(t, 2, results[0].Written)
	assert.Nil(t, results[1])
	assert.Nil(t, results[2])

	var formatErr *common.FormatError
	assert.ErrorAs(t, err, &formatErr)
	assert.Contains(t, err.Error(), "missing.csv")
	assert.ElementsMatch(t, []string{"20240101", "20240108"}, sink.written)
}

func TestLoad_SelectsReaderByExtension(t *testing.T) {
	dir := t.TempDir()
	statement := `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM
</STMTTRN>
</BANKTRANLIST>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`
	ofxPath := writeFile(t, dir, "card.QFX", statement)
	csvPath := writeFile(t, dir, "export.csv", twoWeekExport(t))

	engine := New(DefaultOptions())

	txns, err := engine.Load(context.Background(), ofxPath)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, int64(4599), txns[0].Cost.Cents())

	txns, err = engine.Load(context.Background(), csvPath)
	require.NoError(t, err)
	assert.Len(t, txns, 7)
}

func TestBuild_EmptyInput(t *testing.T) {
	reports, err := New(DefaultOptions()).Build(nil)
	require.NoError(t, err)
	assert.Empty(t, reports)
}
