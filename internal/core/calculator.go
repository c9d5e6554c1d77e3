package core

import "time"

type (
	// DashboardStats are the derived metrics for the dashboard view.
	// RemainingBudget subtracts the savings goal on top of expenses; the
	// savings view deliberately uses the double subtraction instead (see
	// SavingsOverview.CurrentSavings). The two definitions coexist on purpose.
	DashboardStats struct {
		TotalBudget     Money
		TotalExpenses   Money
		TotalSavings    Money
		RemainingBudget Money
		DailyBudget     Money
		RemainingDays   int
		ByCategory      []CategoryAmount
	}

	// SavingsOverview are the derived metrics for the savings view.
	SavingsOverview struct {
		CurrentSavings  Money
		SavingsGoal     Money
		MonthlySavings  Money
		Recommendations []string
	}
)

// RemainingDays counts days from now (inclusive) through the last calendar day
// of now's month.
func RemainingDays(now time.Time) int {
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location())
	return lastDay.Day() - now.Day() + 1
}

// StartOfMonth returns midnight on the first day of now's month, in now's
// location. The savings view only considers expenses from this instant on.
func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// ComputeDashboard combines a budget and an expense summary into dashboard
// metrics. remainingDays must be positive; zero would make the daily budget
// undefined, so it is reported as ErrNoRemainingDays rather than a non-finite
// number.
func ComputeDashboard(b Budget, summary ExpenseSummary, remainingDays int) (DashboardStats, error) {
	if remainingDays <= 0 {
		return DashboardStats{}, ErrNoRemainingDays
	}
	remaining := b.MonthlyIncome.Paise - summary.Total.Paise - b.SavingsGoal.Paise
	return DashboardStats{
		TotalBudget:     b.MonthlyIncome,
		TotalExpenses:   summary.Total,
		TotalSavings:    b.SavingsGoal,
		RemainingBudget: Money{Paise: remaining},
		DailyBudget:     Money{Paise: remaining / int64(remainingDays)},
		RemainingDays:   remainingDays,
		ByCategory:      summary.ByCategory,
	}, nil
}

// ComputeSavings derives the savings view from a budget and the total of the
// current month's expenses. CurrentSavings may be negative; MonthlySavings is
// clamped to zero before it is compared against the goal.
func ComputeSavings(b Budget, totalExpenses Money) SavingsOverview {
	current := b.MonthlyIncome.Paise - totalExpenses.Paise
	monthly := current
	if monthly < 0 {
		monthly = 0
	}
	o := SavingsOverview{
		CurrentSavings: Money{Paise: current},
		SavingsGoal:    b.SavingsGoal,
		MonthlySavings: Money{Paise: monthly},
	}
	o.Recommendations = Recommend(o.MonthlySavings, b.MonthlyIncome, totalExpenses, b.SavingsGoal)
	return o
}

// PercentOfIncome reports amount as a percentage of income. A zero income
// would make the ratio undefined, so it reports a neutral 0 instead.
func PercentOfIncome(amount, income Money) float64 {
	if income.Paise == 0 {
		return 0
	}
	return float64(amount.Paise) / float64(income.Paise) * 100
}
