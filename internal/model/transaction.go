// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/weekly-budget/internal/common"
)

// IncomeCategory is the category every income record is filed under.
const IncomeCategory = "Income"

// DefaultDateLayout is the DD/MM/YYYY layout used by the budgeting export.
const DefaultDateLayout = "02/01/2006"

// Transaction represents a single dated financial record with a signed cost.
// Positive costs are money spent; income is stored as a negative cost.
type Transaction struct {
	Date          time.Time
	CategoryGroup string
	Category      string
	Description   string
	Cost          Money
}

// NewTransaction builds a Transaction from the raw export fields.
// An income field other than "$0.00" turns the record into income: the cost
// becomes the negated income and the category is forced to "Income".
func NewTransaction(dateText, categoryGroup, category, description, costText, incomeText, layout string) (*Transaction, error) {
	if layout == "" {
		layout = DefaultDateLayout
	}

	date, err := time.ParseInLocation(layout, strings.TrimSpace(dateText), time.UTC)
	if err != nil {
		return nil, &common.ParseError{Field: "date", Value: dateText, Err: err}
	}

	txn := &Transaction{
		Date:          date,
		CategoryGroup: categoryGroup,
		Category:      category,
		Description:   description,
	}

	if strings.TrimSpace(incomeText) != ZeroAmountText {
		income, err := ParseMoney(incomeText)
		if err != nil {
			return nil, &common.ParseError{Field: "income", Value: incomeText, Err: err}
		}
		txn.Cost = income.Neg()
		txn.Category = IncomeCategory
		return txn, nil
	}

	cost, err := ParseMoney(costText)
	if err != nil {
		return nil, &common.ParseError{Field: "cost", Value: costText, Err: err}
	}
	txn.Cost = cost

	return txn, nil
}

// IsIncome reports whether the transaction was classified as income.
func (t *Transaction) IsIncome() bool {
	return t.Category == IncomeCategory
}

// Hash creates a stable identity for duplicate detection.
func (t *Transaction) Hash() string {
	return t.OccurrenceHash(0)
}

// OccurrenceHash identifies the nth repeat of an otherwise identical
// transaction within one input, such as two equal purchases on one day.
// Occurrence 0 is Hash.
func (t *Transaction) OccurrenceHash(occurrence int) string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Cost.String(),
		t.Description,
		t.Category)
	if occurrence > 0 {
		data = fmt.Sprintf("%s#%d", data, occurrence)
	}
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// ByRecencyThenName orders transactions most recent first, breaking ties
// alphabetically by description. It reports whether a sorts before b.
func ByRecencyThenName(a, b *Transaction) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.Description < b.Description
}
