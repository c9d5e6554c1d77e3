package core

import "fmt"

// Advisory message texts. The deficit message embeds the shortfall as a rupee
// amount.
const (
	adviceSaveMore     = "Try to save at least 20% of your monthly income"
	adviceHighExpenses = "Your expenses are high. Consider reviewing non-essential expenses"
	adviceGoalMet      = "Great job! You're meeting or exceeding your savings goal"
	adviceDeficitFmt   = "You're %s below your savings goal. Look for areas to reduce spending"
)

// Recommend evaluates the fixed advisory rule set over a single snapshot of
// figures and returns the messages in rule order. The first two rules are
// independent boolean checks; the deficit and goal-met rules are mutually
// exclusive, so the result always has between one and three entries.
func Recommend(monthlySavings, monthlyIncome, totalExpenses, savingsGoal Money) []string {
	recommendations := make([]string, 0, 3)

	if PercentOfIncome(monthlySavings, monthlyIncome) < 20 {
		recommendations = append(recommendations, adviceSaveMore)
	}
	if float64(totalExpenses.Paise) > float64(monthlyIncome.Paise)*0.8 {
		recommendations = append(recommendations, adviceHighExpenses)
	}
	if monthlySavings.Paise < savingsGoal.Paise {
		deficit := Money{Paise: savingsGoal.Paise - monthlySavings.Paise}
		recommendations = append(recommendations, fmt.Sprintf(adviceDeficitFmt, deficit))
	} else {
		recommendations = append(recommendations, adviceGoalMet)
	}

	return recommendations
}
