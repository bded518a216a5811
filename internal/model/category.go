package model

import (
	"github.com/Veraticus/weekly-budget/internal/common"
)

// Category is a named bucket of transactions sharing the same category.
type Category struct {
	Name         string
	Transactions []*Transaction
}

// NewCategory creates an empty category.
func NewCategory(name string) *Category {
	return &Category{Name: name}
}

// Add appends txn if its category matches, otherwise it returns a *common.MismatchError.
func (c *Category) Add(txn *Transaction) error {
	if txn == nil || txn.Category != c.Name {
		got := "<nil>"
		if txn != nil {
			got = txn.Category
		}
		return &common.MismatchError{Container: "category", Want: c.Name, Got: got}
	}
	c.Transactions = append(c.Transactions, txn)
	return nil
}

// Total sums the costs of all member transactions.
func (c *Category) Total() Money {
	var total Money
	for _, txn := range c.Transactions {
		total = total.Add(txn.Cost)
	}
	return total
}

// Count returns the number of member transactions.
func (c *Category) Count() int {
	return len(c.Transactions)
}
