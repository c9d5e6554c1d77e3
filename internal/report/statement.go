// Package report renders monthly PDF statements.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"bachat/internal/core"
)

// Generator builds statements. It is stateless and safe for concurrent use.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// MonthlyStatement renders one month's budget position and expense list as a
// PDF. Amounts are printed in rupees, percentages relative to income.
func (g *Generator) MonthlyStatement(b core.Budget, expenses []core.Expense, month time.Time) ([]byte, error) {
	summary := core.Aggregate(expenses)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Monthly Budget Statement", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Monthly Budget Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Statement Month: %s", month.Format("January 2006")))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Account: %s", b.UserID))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Monthly Income: %s", b.MonthlyIncome))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Total Spend: %s", summary.Total))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Savings Goal: %s", b.SavingsGoal))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Category Breakdown")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(70, 7, "Category")
	pdf.Cell(50, 7, "Amount")
	pdf.Cell(30, 7, "% of Income")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	for _, ca := range summary.ByCategory {
		pdf.Cell(70, 7, ca.Category)
		pdf.Cell(50, 7, ca.Amount.String())
		pdf.Cell(30, 7, fmt.Sprintf("%.1f%%", core.PercentOfIncome(ca.Amount, b.MonthlyIncome)))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Expenses")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(30, 7, "Date")
	pdf.Cell(50, 7, "Category")
	pdf.Cell(40, 7, "Amount")
	pdf.Cell(70, 7, "Description")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	for _, e := range expenses {
		pdf.Cell(30, 7, e.Date.Format("02 Jan"))
		pdf.Cell(50, 7, e.Category)
		pdf.Cell(40, 7, e.Amount.String())
		pdf.Cell(70, 7, truncate(e.Description, 40))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render statement: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
