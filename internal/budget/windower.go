package budget

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/weekly-budget/internal/common"
	"github.com/Veraticus/weekly-budget/internal/model"
)

// PartialWeeks controls what happens to weeks only partly covered by the data.
type PartialWeeks int

const (
	// PartialWeeksDrop keeps only weeks that lie entirely inside the observed date range.
	PartialWeeksDrop PartialWeeks = iota
	// PartialWeeksKeep widens the range outward so every transaction lands in a week.
	PartialWeeksKeep
)

func (p PartialWeeks) String() string {
	if p == PartialWeeksKeep {
		return "keep"
	}
	return "drop"
}

// ParsePartialWeeks parses "drop" or "keep".
func ParsePartialWeeks(s string) (PartialWeeks, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return PartialWeeksDrop, nil
	case "keep":
		return PartialWeeksKeep, nil
	default:
		return PartialWeeksDrop, fmt.Errorf("%w: partial weeks mode %q", common.ErrInvalidConfig, s)
	}
}

// ParseWeekday parses a weekday name such as "monday" or "Sun".
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return time.Monday, nil
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		full := strings.ToLower(day.String())
		if name == full || name == full[:3] {
			return day, nil
		}
	}
	return time.Monday, fmt.Errorf("%w: %q", common.ErrInvalidWeekday, s)
}

// WeekEnd returns the weekday that closes a week beginning on weekStart.
func WeekEnd(weekStart time.Weekday) time.Weekday {
	return (weekStart + 6) % 7
}

// PartitionByWeek splits transactions into consecutive 7-day weeks starting on
// weekStart. Transactions outside every generated week are dropped. When the
// latest transaction falls on weekStart, its week is always included.
// An empty input yields no weeks and no error.
func PartitionByWeek(transactions []*model.Transaction, weekStart time.Weekday, mode PartialWeeks) ([]*model.Week, error) {
	if weekStart < time.Sunday || weekStart > time.Saturday {
		return nil, fmt.Errorf("%w: %d", common.ErrInvalidWeekday, weekStart)
	}
	if len(transactions) == 0 {
		return nil, nil
	}

	sorted := make([]*model.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return model.ByRecencyThenName(sorted[i], sorted[j])
	})

	latest := sorted[0].Date
	earliest := sorted[len(sorted)-1].Date
	if earliest.IsZero() || latest.IsZero() {
		return nil, common.ErrEmptyInput
	}

	// Drop walks inward from the data edges, keep walks outward.
	startStep, endStep := 1, -1
	if mode == PartialWeeksKeep {
		startStep, endStep = -1, 1
	}

	first, err := walkToWeekday(earliest, weekStart, startStep)
	if err != nil {
		return nil, err
	}
	// An export that ends on a week start opens that week rather than
	// trailing into it, so the week is reported in both modes.
	last := latest.AddDate(0, 0, model.DaysPerWeek-1)
	if latest.Weekday() != weekStart {
		if last, err = walkToWeekday(latest, WeekEnd(weekStart), endStep); err != nil {
			return nil, err
		}
	}

	var weeks []*model.Week
	for start := first; !start.AddDate(0, 0, model.DaysPerWeek-1).After(last); start = start.AddDate(0, 0, model.DaysPerWeek) {
		weeks = append(weeks, model.NewWeek(start))
	}

	for _, txn := range sorted {
		for _, week := range weeks {
			if week.Contains(txn.Date) {
				if err := week.Add(txn); err != nil {
					return nil, err
				}
				break
			}
		}
	}

	return weeks, nil
}

// walkToWeekday steps from date one day at a time in direction step until it
// lands on target. The walk is bounded to one week.
func walkToWeekday(date time.Time, target time.Weekday, step int) (time.Time, error) {
	for i := 0; i < model.DaysPerWeek; i++ {
		if date.Weekday() == target {
			return date, nil
		}
		date = date.AddDate(0, 0, step)
	}
	return time.Time{}, fmt.Errorf("%w: %s unreachable from %s", common.ErrInvalidWeekday, target, date.Format("2006-01-02"))
}

// Assigned counts the transactions that landed in some week.
func Assigned(weeks []*model.Week) int {
	total := 0
	for _, week := range weeks {
		total += len(week.Transactions)
	}
	return total
}
