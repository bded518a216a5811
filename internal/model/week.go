package model

import (
	"time"

	"github.com/Veraticus/weekly-budget/internal/common"
)

// DaysPerWeek is the length of every reporting window.
const DaysPerWeek = 7

// Week is a 7-day reporting window. End is inclusive and always Start + 6 days.
type Week struct {
	Start        time.Time
	End          time.Time
	Transactions []*Transaction
}

// NewWeek creates an empty week starting on start.
func NewWeek(start time.Time) *Week {
	return &Week{
		Start: start,
		End:   start.AddDate(0, 0, DaysPerWeek-1),
	}
}

// Contains reports whether date falls within [Start, End].
func (w *Week) Contains(date time.Time) bool {
	return !date.Before(w.Start) && !date.After(w.End)
}

// Add appends txn if its date lies in the week, otherwise it returns a *common.MismatchError.
func (w *Week) Add(txn *Transaction) error {
	if txn == nil || !w.Contains(txn.Date) {
		got := "<nil>"
		if txn != nil {
			got = txn.Date.Format("2006-01-02")
		}
		return &common.MismatchError{
			Container: "week",
			Want:      w.Start.Format("2006-01-02") + ".." + w.End.Format("2006-01-02"),
			Got:       got,
		}
	}
	w.Transactions = append(w.Transactions, txn)
	return nil
}

// Name identifies the week by its start date, e.g. "20240101".
func (w *Week) Name() string {
	return w.Start.Format("20060102")
}

// Label renders the week range as "01 Jan - 07 Jan".
func (w *Week) Label() string {
	return w.Start.Format("02 Jan") + " - " + w.End.Format("02 Jan")
}
