// Package budget turns a flat transaction list into weekly category reports.
package budget

import (
	"fmt"

	"github.com/Veraticus/weekly-budget/internal/model"
)

// Aggregate groups transactions by category name in a single pass.
// Categories are returned in first-seen order; use Categories.Ranked for display order.
func Aggregate(transactions []*model.Transaction) (model.Categories, error) {
	index := make(map[string]*model.Category)
	categories := make(model.Categories, 0)

	for _, txn := range transactions {
		cat, ok := index[txn.Category]
		if !ok {
			cat = model.NewCategory(txn.Category)
			index[txn.Category] = cat
			categories = append(categories, cat)
		}
		if err := cat.Add(txn); err != nil {
			return nil, fmt.Errorf("failed to aggregate %q: %w", txn.Description, err)
		}
	}

	return categories, nil
}
