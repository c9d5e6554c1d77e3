// Package export pushes expense rows to an external spreadsheet.
package export

import (
	"context"

	"bachat/internal/core"
)

// ExpenseWriter appends one expense to the export target and returns an
// opaque reference to where it landed.
type ExpenseWriter interface {
	AppendExpense(ctx context.Context, e core.Expense) (string, error)
}

// ExpenseDeleter removes an exported expense row by its record id.
type ExpenseDeleter interface {
	DeleteExpense(ctx context.Context, id int64) error
}
