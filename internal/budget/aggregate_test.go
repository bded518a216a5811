package budget

import (
	"testing"

	"github.com/Veraticus/weekly-budget/internal/model"
	"github.com/Veraticus/weekly-budget/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	txns := testutil.NewTransactionBuilder(t).
		Expense("01/01/2024", testutil.CategoryGroceries, "Market", 10.10).
		Expense("01/01/2024", testutil.CategoryTransport, "Train", 4.20).
		Income("02/01/2024", "Salary", 900).
		Expense("03/01/2024", testutil.CategoryGroceries, "Bakery", 5.05).
		Build()

	categories, err := Aggregate(txns)
	require.NoError(t, err)

	require.Len(t, categories, 3)
	assert.Equal(t, testutil.CategoryGroceries, categories[0].Name)
	assert.Equal(t, testutil.CategoryTransport, categories[1].Name)
	assert.Equal(t, model.IncomeCategory, categories[2].Name)

	groceries := categories.Find(testutil.CategoryGroceries)
	assert.Equal(t, int64(1515), groceries.Total().Cents())
	assert.Equal(t, []string{"Market", "Bakery"}, []string{groceries.Transactions[0].Description, groceries.Transactions[1].Description})
	assert.Equal(t, int64(-90000), categories.Find(model.IncomeCategory).Total().Cents())
}

func TestAggregate_Idempotent(t *testing.T) {
	txns := testutil.NewTransactionBuilder(t).
		Expense("01/01/2024", testutil.CategoryGroceries, "a", 0.1).
		Expense("01/01/2024", testutil.CategoryGroceries, "b", 0.2).
		Expense("01/01/2024", testutil.CategoryRent, "c", 300).
		Build()

	first, err := Aggregate(txns)
	require.NoError(t, err)
	second, err := Aggregate(txns)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].Total().Cents(), second[i].Total().Cents())
	}
	assert.Equal(t, int64(30), first.Find(testutil.CategoryGroceries).Total().Cents())
}

func TestAggregate_Empty(t *testing.T) {
	categories, err := Aggregate(nil)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestAggregate_IncomeAlwaysIncome(t *testing.T) {
	txns := testutil.NewTransactionBuilder(t).
		Income("01/01/2024", "Refund", 12.34).
		Income("01/01/2024", "Salary", 100).
		Build()

	categories, err := Aggregate(txns)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, model.IncomeCategory, categories[0].Name)
	assert.True(t, categories[0].Total().IsNegative())
	assert.Equal(t, int64(-11234), categories[0].Total().Cents())
}
