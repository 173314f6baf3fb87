// Package budget derives spending summaries from a set of expenses.
package budget

import "github.com/shopspring/decimal"

// View is the summary of a set of expenses against a budget.
type View struct {
	Budget     decimal.Decimal `json:"budget" example:"50000"`      // The budget the expenses are compared to
	TotalSpent decimal.Decimal `json:"totalSpent" example:"12000"`  // Sum of all expense amounts
	Balance    decimal.Decimal `json:"balance" example:"38000"`     // Budget minus total spent. Negative when the budget is exceeded
	OverBudget bool            `json:"overBudget" example:"false"` // Whether the balance is negative
}

// Compute sums up amounts and compares them to the budget.
func Compute(amounts []decimal.Decimal, budget decimal.Decimal) View {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}

	balance := budget.Sub(total)

	return View{
		Budget:     budget,
		TotalSpent: total,
		Balance:    balance,
		OverBudget: balance.IsNegative(),
	}
}

// Of computes the View for any slice of items that carry an amount.
func Of[T any](items []T, amount func(T) decimal.Decimal, budget decimal.Decimal) View {
	amounts := make([]decimal.Decimal, 0, len(items))
	for _, item := range items {
		amounts = append(amounts, amount(item))
	}

	return Compute(amounts, budget)
}
