// Package csvio reads budgeting-app CSV exports and writes weekly report CSVs.
package csvio

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/weekly-budget/internal/common"
	"github.com/Veraticus/weekly-budget/internal/model"
)

// ExpectedColumns is the column count of a register export.
const ExpectedColumns = 11

// Positions of the consumed columns, 0-indexed.
const (
	colDate          = 2
	colCategoryGroup = 5
	colCategory      = 6
	colDescription   = 7
	colCost          = 8
	colIncome        = 9
)

// ErrRaggedRow indicates a data row without the expected number of columns.
var ErrRaggedRow = errors.New("unexpected column count")

// Reader parses register exports into transactions.
type Reader struct {
	logger     *slog.Logger
	dateLayout string
}

// NewReader creates a reader parsing dates with layout (DD/MM/YYYY when empty).
func NewReader(dateLayout string, logger *slog.Logger) *Reader {
	if dateLayout == "" {
		dateLayout = model.DefaultDateLayout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{dateLayout: dateLayout, logger: logger}
}

// ReadFile opens path, parses it and always closes the handle.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]*model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return r.Read(ctx, f, path)
}

// Read parses an export. The header must have exactly 11 columns, otherwise a
// *common.FormatError is returned. The first unparsable row aborts the read
// with a *common.ParseError naming it.
func (r *Reader) Read(ctx context.Context, src io.Reader, source string) ([]*model.Transaction, error) {
	buffered := bufio.NewReader(src)
	if first, _, err := buffered.ReadRune(); err == nil && first != '\uFEFF' {
		_ = buffered.UnreadRune()
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &common.FormatError{Source: source, Columns: 0, Expected: ExpectedColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) != ExpectedColumns {
		return nil, &common.FormatError{Source: source, Columns: len(header), Expected: ExpectedColumns}
	}

	var transactions []*model.Transaction
	// Row numbers are 1-indexed and count the header, matching a spreadsheet view.
	for row := 2; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", row, err)
		}
		if len(record) != ExpectedColumns {
			return nil, &common.ParseError{Row: row, Field: "row", Value: strings.Join(record, ","), Err: ErrRaggedRow}
		}

		txn, err := model.NewTransaction(
			record[colDate],
			record[colCategoryGroup],
			record[colCategory],
			record[colDescription],
			record[colCost],
			record[colIncome],
			r.dateLayout,
		)
		if err != nil {
			var parseErr *common.ParseError
			if errors.As(err, &parseErr) {
				parseErr.Row = row
			}
			return nil, err
		}
		transactions = append(transactions, txn)
	}

	r.logger.Debug("Parsed CSV export",
		"source", source,
		"header", strings.Join(header, "|"),
		"transactions", len(transactions))

	return transactions, nil
}
