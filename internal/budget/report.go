package budget

import (
	"fmt"
	"time"

	"github.com/Veraticus/weekly-budget/internal/model"
)

// DefaultRentCategory is the category excluded from the headline weekly spend.
const DefaultRentCategory = "Rent"

// Report titles and labels.
const (
	ReportTitle        = "Weekly Budget"
	TotalSpentLabel    = "Total Spent:"
	IncludingRentLabel = "Including Rent:"
)

// DetailHeader heads the transaction detail section.
var DetailHeader = []string{"Category", "Date", "Description", "Amount"}

// ReportOptions controls how reports are rendered.
type ReportOptions struct {
	Currency     model.CurrencyFormat
	DateLayout   string
	RentCategory string
}

// DefaultReportOptions returns US dollar formatting with DD/MM/YYYY detail dates.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		Currency:     model.DefaultCurrencyFormat(),
		DateLayout:   model.DefaultDateLayout,
		RentCategory: DefaultRentCategory,
	}
}

// Report is the rendered summary of one week.
type Report struct {
	Week          *model.Week
	Categories    model.Categories
	TotalSpent    model.Money
	TotalWithRent model.Money
	Rows          [][]string
}

// Name identifies the report by its week start, e.g. "20240101".
func (r *Report) Name() string {
	return r.Week.Name()
}

// IncludesRent reports whether rent changes the weekly total at cent precision.
func (r *Report) IncludesRent() bool {
	return !r.TotalSpent.EqualCents(r.TotalWithRent)
}

// Summary condenses the report into its archived headline.
func (r *Report) Summary(runID string) model.WeeklySummary {
	summary := model.WeeklySummary{
		WeekStart:     r.Week.Start,
		WeekEnd:       r.Week.End,
		RunID:         runID,
		TotalSpent:    r.TotalSpent,
		TotalWithRent: r.TotalWithRent,
		Categories:    len(r.Categories),
		Transactions:  len(r.Week.Transactions),
	}
	if top := r.Categories.Top(); top != nil {
		summary.TopCategory = top.Name
	}
	return summary
}

// TotalSpent sums positive costs, skipping the rent category unless includeRent is set.
// Income never counts because it carries a negative cost.
func TotalSpent(transactions []*model.Transaction, rentCategory string, includeRent bool) model.Money {
	var total model.Money
	for _, txn := range transactions {
		if !txn.Cost.IsPositive() {
			continue
		}
		if txn.Category == rentCategory && !includeRent {
			continue
		}
		total = total.Add(txn.Cost)
	}
	return total
}

// BuildReport lays out a week's ranked category summary, spend totals and
// per-category transaction detail as rows of display strings.
func BuildReport(week *model.Week, categories model.Categories, opts ReportOptions) *Report {
	if opts.DateLayout == "" {
		opts.DateLayout = model.DefaultDateLayout
	}
	if opts.Currency.Symbol == "" {
		opts.Currency = model.DefaultCurrencyFormat()
	}

	ranked := categories.Ranked()
	report := &Report{
		Week:          week,
		Categories:    ranked,
		TotalSpent:    TotalSpent(week.Transactions, opts.RentCategory, false),
		TotalWithRent: TotalSpent(week.Transactions, opts.RentCategory, true),
	}

	// Title(2) + summary + totals(3) + detail header(4) + per-category header/blank + transactions
	estimatedRows := 9 + 3*len(ranked) + len(week.Transactions)
	rows := make([][]string, 0, estimatedRows)

	rows = append(rows,
		[]string{ReportTitle, week.Label()},
		[]string{},
	)

	for _, cat := range ranked {
		rows = append(rows, []string{cat.Name, opts.Currency.Format(cat.Total())})
	}

	rows = append(rows,
		[]string{},
		[]string{TotalSpentLabel, opts.Currency.Format(report.TotalSpent)},
	)
	if report.IncludesRent() {
		rows = append(rows, []string{IncludingRentLabel, opts.Currency.Format(report.TotalWithRent)})
	}

	header := make([]string, len(DetailHeader))
	copy(header, DetailHeader)
	rows = append(rows,
		[]string{},
		[]string{},
		header,
		[]string{},
	)

	for _, cat := range ranked {
		rows = append(rows, []string{fmt.Sprintf("%s (%s)", cat.Name, opts.Currency.Format(cat.Total()))})
		for _, txn := range cat.Transactions {
			rows = append(rows, []string{
				"",
				txn.Date.Format(opts.DateLayout),
				txn.Description,
				opts.Currency.Format(txn.Cost),
			})
		}
		rows = append(rows, []string{})
	}

	report.Rows = rows
	return report
}

// WindowOptions controls how transactions are split into weeks.
type WindowOptions struct {
	WeekStart    time.Weekday
	PartialWeeks PartialWeeks
}

// DefaultWindowOptions returns Monday-aligned weeks with partial weeks dropped.
func DefaultWindowOptions() WindowOptions {
	return WindowOptions{WeekStart: time.Monday, PartialWeeks: PartialWeeksDrop}
}

// BuildReports runs the whole transform: window, aggregate per week, build.
func BuildReports(transactions []*model.Transaction, window WindowOptions, opts ReportOptions) ([]*Report, error) {
	weeks, err := PartitionByWeek(transactions, window.WeekStart, window.PartialWeeks)
	if err != nil {
		return nil, fmt.Errorf("failed to partition transactions: %w", err)
	}

	reports := make([]*Report, 0, len(weeks))
	for _, week := range weeks {
		categories, err := Aggregate(week.Transactions)
		if err != nil {
			return nil, fmt.Errorf("week %s: %w", week.Name(), err)
		}
		reports = append(reports, BuildReport(week, categories, opts))
	}

	return reports, nil
}
