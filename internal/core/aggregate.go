package core

type (
	// CategoryAmount is a summed amount under one category label.
	CategoryAmount struct {
		Category string
		Amount   Money
	}

	// ExpenseSummary is the reduction of an expense sequence: the grand total
	// and per-category totals in first-seen order.
	ExpenseSummary struct {
		Total      Money
		ByCategory []CategoryAmount
	}
)

// Aggregate reduces expenses into an ExpenseSummary. Category labels are
// grouping keys as-is: case and whitespace sensitive, no normalization.
// An empty input yields a zero total and no categories.
func Aggregate(expenses []Expense) ExpenseSummary {
	var summary ExpenseSummary
	index := make(map[string]int, len(expenses))
	for _, e := range expenses {
		summary.Total.Paise += e.Amount.Paise
		if i, ok := index[e.Category]; ok {
			summary.ByCategory[i].Amount.Paise += e.Amount.Paise
			continue
		}
		index[e.Category] = len(summary.ByCategory)
		summary.ByCategory = append(summary.ByCategory, CategoryAmount{
			Category: e.Category,
			Amount:   e.Amount,
		})
	}
	return summary
}
