package model

import (
	"sort"
)

// ByRankThenName orders categories for display: highest signed total first,
// then larger groups, then alphabetically. Income, being negative, sorts last.
func ByRankThenName(a, b *Category) bool {
	if cmp := a.Total().Cmp(b.Total()); cmp != 0 {
		return cmp > 0
	}
	if a.Count() != b.Count() {
		return a.Count() > b.Count()
	}
	return a.Name < b.Name
}

// Categories is a slice of Category that supports ranking and utility methods.
type Categories []*Category

// Len implements sort.Interface.
func (c Categories) Len() int {
	return len(c)
}

// Less implements sort.Interface using ByRankThenName.
func (c Categories) Less(i, j int) bool {
	return ByRankThenName(c[i], c[j])
}

// Swap implements sort.Interface.
func (c Categories) Swap(i, j int) {
	c[i], c[j] = c[j], c[i]
}

// Sort ranks the categories in place.
func (c Categories) Sort() {
	sort.Stable(c)
}

// Ranked returns a ranked copy, leaving the receiver in first-seen order.
func (c Categories) Ranked() Categories {
	ranked := make(Categories, len(c))
	copy(ranked, c)
	ranked.Sort()
	return ranked
}

// Top returns the highest-ranked category, or nil if empty.
func (c Categories) Top() *Category {
	if len(c) == 0 {
		return nil
	}
	return c.Ranked()[0]
}

// TopN returns the N highest-ranked categories.
func (c Categories) TopN(n int) Categories {
	if n <= 0 {
		return Categories{}
	}

	ranked := c.Ranked()
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// Find returns the category with the given name, or nil.
func (c Categories) Find(name string) *Category {
	for _, cat := range c {
		if cat.Name == name {
			return cat
		}
	}
	return nil
}

// TransactionCount sums member transactions across all categories.
func (c Categories) TransactionCount() int {
	total := 0
	for _, cat := range c {
		total += cat.Count()
	}
	return total
}
