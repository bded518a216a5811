package model

import (
	"sort"
	"testing"
	"time"

	"github.com/Veraticus/weekly-budget/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	tests := []struct {
		name         string
		date         string
		category     string
		cost         string
		income       string
		wantCategory string
		wantField    string
		wantCents    int64
		wantErr      bool
	}{
		{
			name:         "expense keeps category",
			date:         "15/01/2024",
			category:     "Groceries",
			cost:         "$42.10",
			income:       "$0.00",
			wantCategory: "Groceries",
			wantCents:    4210,
		},
		{
			name:         "income overrides category and negates",
			date:         "15/01/2024",
			category:     "Groceries",
			cost:         "$0.00",
			income:       "$1,500.00",
			wantCategory: IncomeCategory,
			wantCents:    -150000,
		},
		{
			name:         "negative-looking income is still income",
			date:         "15/01/2024",
			category:     "Refunds",
			cost:         "$0.00",
			income:       "-$20.00",
			wantCategory: IncomeCategory,
			wantCents:    2000,
		},
		{
			name:      "bad date",
			date:      "2024-01-15",
			cost:      "$1.00",
			income:    "$0.00",
			wantErr:   true,
			wantField: "date",
		},
		{
			name:      "bad cost",
			date:      "15/01/2024",
			cost:      "1.00",
			income:    "$0.00",
			wantErr:   true,
			wantField: "cost",
		},
		{
			name:      "bad income",
			date:      "15/01/2024",
			cost:      "$0.00",
			income:    "lots",
			wantErr:   true,
			wantField: "income",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn, err := NewTransaction(tt.date, "Everyday", tt.category, "Shop", tt.cost, tt.income, "")
			if tt.wantErr {
				var parseErr *common.ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, tt.wantField, parseErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCategory, txn.Category)
			assert.Equal(t, tt.wantCents, txn.Cost.Cents())
			assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), txn.Date)
			assert.Equal(t, "Everyday", txn.CategoryGroup)
		})
	}
}

func TestByRecencyThenName(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	txns := []*Transaction{
		{Date: day(1), Description: "b"},
		{Date: day(3), Description: "z"},
		{Date: day(1), Description: "a"},
		{Date: day(3), Description: "c"},
	}

	sort.SliceStable(txns, func(i, j int) bool { return ByRecencyThenName(txns[i], txns[j]) })

	got := make([]string, 0, len(txns))
	for _, txn := range txns {
		got = append(got, txn.Date.Format("02")+txn.Description)
	}
	assert.Equal(t, []string{"03c", "03z", "01a", "01b"}, got)
}

func TestTransaction_Hash(t *testing.T) {
	a, err := NewTransaction("01/02/2024", "G", "Food", "Cafe", "$4.50", "$0.00", "")
	require.NoError(t, err)
	b, err := NewTransaction("01/02/2024", "Other", "Food", "Cafe", "$4.50", "$0.00", "")
	require.NoError(t, err)
	c, err := NewTransaction("02/02/2024", "G", "Food", "Cafe", "$4.50", "$0.00", "")
	require.NoError(t, err)

	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.Len(t, a.Hash(), 64)

	assert.Equal(t, a.Hash(), a.OccurrenceHash(0))
	assert.NotEqual(t, a.OccurrenceHash(0), a.OccurrenceHash(1))
	assert.Equal(t, a.OccurrenceHash(1), b.OccurrenceHash(1))
}
