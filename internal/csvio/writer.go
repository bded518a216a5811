package csvio

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/weekly-budget/internal/budget"
)

// DirWriter writes each report to <Dir>/<YYYYMMDD>.csv.
type DirWriter struct {
	Dir string
}

// NewDirWriter creates a writer rooted at dir.
func NewDirWriter(dir string) *DirWriter {
	return &DirWriter{Dir: dir}
}

// Name identifies the sink in logs and errors.
func (w *DirWriter) Name() string {
	return "csv:" + w.Dir
}

// PathFor returns the file a report is written to.
func (w *DirWriter) PathFor(report *budget.Report) string {
	return filepath.Join(w.Dir, report.Name()+".csv")
}

// WriteReport writes the report rows, replacing any previous file for the week.
func (w *DirWriter) WriteReport(ctx context.Context, report *budget.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.Dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return WriteRows(w.PathFor(report), report.Rows)
}

// WriteRows writes ragged rows to path. The file is closed on every path and
// a failed close is reported.
func WriteRows(path string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
