package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/Veraticus/weekly-budget/internal/budget"
	"github.com/schollz/progressbar/v3"
)

// Progress draws a progress bar over the weeks of every file in a run. The
// bar grows as files finish building their reports. It implements
// service.Observer and is safe for concurrent use.
type Progress struct {
	writer  io.Writer
	bar     *progressbar.ProgressBar
	written int
	failed  int
	mu      sync.Mutex
}

// NewProgress creates a progress bar writing to writer (stderr when nil).
func NewProgress(writer io.Writer) *Progress {
	if writer == nil {
		writer = os.Stderr
	}
	return &Progress{writer: writer}
}

// ReportsBuilt extends the bar by count weeks.
func (p *Progress) ReportsBuilt(_ string, count int) {
	if count == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		p.bar = p.newBar(count)
		return
	}
	p.bar.ChangeMax(p.bar.GetMax() + count)
}

// ReportWritten advances the bar by one week.
func (p *Progress) ReportWritten(_ string, report *budget.Report, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.failed++
	} else {
		p.written++
	}

	if p.bar == nil {
		return
	}
	if err != nil {
		p.bar.Describe(fmt.Sprintf("[yellow]Week %s failed[reset]", report.Name()))
	}
	if addErr := p.bar.Add(1); addErr != nil {
		slog.Debug("Failed to advance progress bar", "error", addErr)
	}
}

// Finish completes the bar.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Counts returns the number of weeks written and failed so far.
func (p *Progress) Counts() (written, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written, p.failed
}

func (p *Progress) newBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Writing weekly reports...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
