package report

import (
	"bytes"
	"testing"
	"time"

	"bachat/internal/core"
)

func TestGenerator_MonthlyStatement(t *testing.T) {
	g := NewGenerator()

	budget := core.Budget{
		UserID:        "user-1",
		MonthlyIncome: core.Money{Paise: 50000_00},
		SavingsGoal:   core.Money{Paise: 5000_00},
		DaysInMonth:   30,
	}
	expenses := []core.Expense{
		{ID: 1, UserID: "user-1", Amount: core.Money{Paise: 1200_00}, Category: "groceries",
			Description: "weekly shop", Date: time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)},
		{ID: 2, UserID: "user-1", Amount: core.Money{Paise: 15000_00}, Category: "rent",
			Date: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)},
	}

	pdf, err := g.MonthlyStatement(budget, expenses, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MonthlyStatement failed: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("Expected PDF magic header, got %q", pdf[:min(8, len(pdf))])
	}
}

func TestGenerator_MonthlyStatement_NoExpenses(t *testing.T) {
	g := NewGenerator()

	pdf, err := g.MonthlyStatement(core.Budget{UserID: "user-1", DaysInMonth: 30}, nil, time.Now())
	if err != nil {
		t.Fatalf("MonthlyStatement failed on empty month: %v", err)
	}
	if len(pdf) == 0 {
		t.Error("Expected non-empty PDF")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 40); got != "short" {
		t.Errorf("Expected unchanged string, got %q", got)
	}
	long := "this description is far too long to fit inside a statement cell"
	got := truncate(long, 40)
	if len(got) != 40 {
		t.Errorf("Expected length 40, got %d (%q)", len(got), got)
	}
}
