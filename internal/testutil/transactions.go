// Package testutil provides test utilities for the weekly-budget project.
// It offers a fluent builder for transaction fixtures, rendering them either as
// model values or as a budgeting-app CSV export, plus an in-memory archive.
package testutil

import (
	"encoding/csv"
	"fmt"
	"strings"
	"testing"

	"github.com/Veraticus/weekly-budget/internal/model"
)

// ExportHeader is the 11-column header of the budgeting-app register export.
var ExportHeader = []string{
	"Account", "Flag", "Date", "Payee", "Category Group/Category",
	"Category Group", "Category", "Memo", "Outflow", "Inflow", "Cleared",
}

// Common category names used across tests.
const (
	CategoryGroceries     = "Groceries"
	CategoryEntertainment = "Entertainment"
	CategoryRent          = "Rent"
	CategoryTransport     = "Transport"
)

// TransactionBuilder provides a fluent interface for constructing test transactions.
//
// Example:
//
//	txns := testutil.NewTransactionBuilder(t).
//		Expense("01/01/2024", testutil.CategoryGroceries, "Market", 42.50).
//		Income("02/01/2024", "Salary", 1000).
//		Build()
type TransactionBuilder struct {
	t    *testing.T
	rows [][]string
}

// NewTransactionBuilder creates an empty builder.
func NewTransactionBuilder(t *testing.T) *TransactionBuilder {
	t.Helper()
	return &TransactionBuilder{t: t}
}

// Expense adds an outflow on date (DD/MM/YYYY).
func (b *TransactionBuilder) Expense(date, category, description string, cost float64) *TransactionBuilder {
	b.rows = append(b.rows, exportRow(date, category, description, dollars(cost), model.ZeroAmountText))
	return b
}

// Income adds an inflow on date (DD/MM/YYYY). The category column is left as
// the budgeting app writes it; the model forces it to Income.
func (b *TransactionBuilder) Income(date, description string, amount float64) *TransactionBuilder {
	b.rows = append(b.rows, exportRow(date, "Inflow: Ready to Assign", description, model.ZeroAmountText, dollars(amount)))
	return b
}

// Build converts the rows into transactions, failing the test on parse errors.
func (b *TransactionBuilder) Build() []*model.Transaction {
	b.t.Helper()

	txns := make([]*model.Transaction, 0, len(b.rows))
	for i, row := range b.rows {
		txn, err := model.NewTransaction(row[2], row[5], row[6], row[7], row[8], row[9], model.DefaultDateLayout)
		if err != nil {
			b.t.Fatalf("fixture row %d: %v", i, err)
		}
		txns = append(txns, txn)
	}
	return txns
}

// CSV renders the rows as a full export, header included.
func (b *TransactionBuilder) CSV() string {
	b.t.Helper()

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(ExportHeader); err != nil {
		b.t.Fatalf("failed to write header: %v", err)
	}
	if err := w.WriteAll(b.rows); err != nil {
		b.t.Fatalf("failed to write rows: %v", err)
	}
	return sb.String()
}

func exportRow(date, category, description, outflow, inflow string) []string {
	return []string{
		"Everyday Account", "", date, description, "Everyday: " + category,
		"Everyday", category, description, outflow, inflow, "Cleared",
	}
}

func dollars(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
