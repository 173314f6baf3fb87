package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aapka-khata/backend/pkg/budget"
	"github.com/aapka-khata/backend/pkg/client"
	"github.com/shopspring/decimal"
)

// notifier prints gateway notifications for the user.
type notifier struct {
	out io.Writer
}

func (n notifier) Success(msg string) {
	fmt.Fprintln(n.out, msg)
}

func (n notifier) Failure(title, description string) {
	fmt.Fprintf(n.out, "%s %s\n", title, description)
}

// amount formats d with two decimals and digit grouping.
func (a *app) amount(d decimal.Decimal) string {
	return a.printer.Sprintf("%.2f", d.InexactFloat64())
}

func (a *app) printExpenses(expenses []client.Expense) {
	if len(expenses) == 0 {
		fmt.Fprintln(a.out, "No expenses.")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tRECIPIENT\tREASON\tAMOUNT")
	for _, e := range expenses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date.Format("2006-01-02"), e.RecipientName, e.Reason, a.amount(e.Amount))
	}
	w.Flush()
}

func (a *app) printSummary(v budget.View) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Budget:\t%s\n", a.amount(v.Budget))
	fmt.Fprintf(w, "Spent:\t%s\n", a.amount(v.TotalSpent))
	fmt.Fprintf(w, "Balance:\t%s\n", a.amount(v.Balance))
	w.Flush()

	if v.OverBudget {
		fmt.Fprintln(a.out, "You are over budget!")
	}
}
