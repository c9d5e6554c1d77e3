package http

import (
	"time"

	"bachat/internal/core"
)

// Amounts on the wire are integers in paise; formatting to rupees is the
// caller's concern.

type budgetRequest struct {
	MonthlyIncome     int64 `json:"monthlyIncome"`
	MandatoryExpenses int64 `json:"mandatoryExpenses"`
	SavingsGoal       int64 `json:"savingsGoal"`
	DaysInMonth       int   `json:"daysInMonth"`
}

type budgetResponse struct {
	UserID            string    `json:"userId"`
	MonthlyIncome     int64     `json:"monthlyIncome"`
	MandatoryExpenses int64     `json:"mandatoryExpenses"`
	SavingsGoal       int64     `json:"savingsGoal"`
	DaysInMonth       int       `json:"daysInMonth"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		UserID:            b.UserID,
		MonthlyIncome:     b.MonthlyIncome.Paise,
		MandatoryExpenses: b.MandatoryExpenses.Paise,
		SavingsGoal:       b.SavingsGoal.Paise,
		DaysInMonth:       b.DaysInMonth,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

type expenseRequest struct {
	Amount      int64     `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Date        time.Time `json:"date"`
}

type expenseResponse struct {
	ID          int64     `json:"id"`
	Amount      int64     `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return expenseResponse{
		ID:          e.ID,
		Amount:      e.Amount.Paise,
		Category:    e.Category,
		Description: e.Description,
		Tags:        tags,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toExpenseResponses(expenses []core.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	return out
}

type categoryAmountResponse struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

type dashboardResponse struct {
	TotalBudget        int64                    `json:"totalBudget"`
	TotalExpenses      int64                    `json:"totalExpenses"`
	TotalSavings       int64                    `json:"totalSavings"`
	RemainingBudget    int64                    `json:"remainingBudget"`
	DailyBudget        int64                    `json:"dailyBudget"`
	RemainingDays      int                      `json:"remainingDays"`
	ExpensesByCategory []categoryAmountResponse `json:"expensesByCategory"`
}

func toDashboardResponse(stats core.DashboardStats) dashboardResponse {
	byCategory := make([]categoryAmountResponse, 0, len(stats.ByCategory))
	for _, ca := range stats.ByCategory {
		byCategory = append(byCategory, categoryAmountResponse{
			Category: ca.Category,
			Amount:   ca.Amount.Paise,
		})
	}
	return dashboardResponse{
		TotalBudget:        stats.TotalBudget.Paise,
		TotalExpenses:      stats.TotalExpenses.Paise,
		TotalSavings:       stats.TotalSavings.Paise,
		RemainingBudget:    stats.RemainingBudget.Paise,
		DailyBudget:        stats.DailyBudget.Paise,
		RemainingDays:      stats.RemainingDays,
		ExpensesByCategory: byCategory,
	}
}

type savingsResponse struct {
	CurrentSavings  int64    `json:"currentSavings"`
	SavingsGoal     int64    `json:"savingsGoal"`
	MonthlySavings  int64    `json:"monthlySavings"`
	Recommendations []string `json:"recommendations"`
}

func toSavingsResponse(overview core.SavingsOverview) savingsResponse {
	recs := overview.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return savingsResponse{
		CurrentSavings:  overview.CurrentSavings.Paise,
		SavingsGoal:     overview.SavingsGoal.Paise,
		MonthlySavings:  overview.MonthlySavings.Paise,
		Recommendations: recs,
	}
}
