package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aapka-khata/backend/internal/types"
	"github.com/aapka-khata/backend/pkg/client"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func (a *app) expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "List and edit your expenses",
	}

	cmd.AddCommand(
		a.expensesListCmd(),
		a.expensesAddCmd(),
		a.expensesUpdateCmd(),
		a.expensesDeleteCmd(),
	)

	return cmd
}

// newGateway signs in and returns a gateway with an empty cache.
func (a *app) newGateway(ctx context.Context) (*client.Gateway, error) {
	c, err := a.signIn(ctx)
	if err != nil {
		return nil, err
	}

	return client.NewGateway(c, notifier{out: a.out}), nil
}

// gateway signs in and loads the expenses matching q.
func (a *app) gateway(ctx context.Context, q client.Query) (*client.Gateway, error) {
	g, err := a.newGateway(ctx)
	if err != nil {
		return nil, err
	}

	if result := g.LoadQuery(ctx, q); !result.Success {
		return nil, errReported
	}

	return g, nil
}

// periodSummary loads the month that date falls in and prints its summary.
func (a *app) periodSummary(ctx context.Context, g *client.Gateway, date time.Time) error {
	period := types.PeriodOf(date)
	if result := g.Load(ctx, period.Month, period.Year); !result.Success {
		return errReported
	}

	fmt.Fprintf(a.out, "%s %s:\n", period.Month, period.Year)
	a.printSummary(g.Summary())
	return nil
}

func (a *app) expensesListCmd() *cobra.Command {
	var q client.Query

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.gateway(cmd.Context(), q)
			if err != nil {
				return err
			}

			a.printExpenses(g.Expenses())
			a.printSummary(g.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&q.Month, "month", "", "only show expenses of this month, e.g. March. Requires --year")
	cmd.Flags().StringVar(&q.Year, "year", "", "only show expenses of this year, e.g. 2024. Requires --month")
	cmd.Flags().StringVar(&q.Recipient, "recipient", "", "only show expenses whose recipient matches this glob pattern")

	return cmd
}

func (a *app) expensesAddCmd() *cobra.Command {
	var (
		to, reason, amount, date string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields := client.ExpenseFields{
				RecipientName: to,
				Reason:        reason,
			}

			var err error
			fields.Amount, err = decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q", amount)
			}

			if date != "" {
				d, err := time.Parse(dateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid date %q, use the format YYYY-MM-DD", date)
				}
				fields.Date = &d
			}

			g, err := a.newGateway(cmd.Context())
			if err != nil {
				return err
			}

			result := g.Create(cmd.Context(), fields)
			if !result.Success {
				return errReported
			}

			return a.periodSummary(cmd.Context(), g, result.Expense.Date)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "who was paid")
	cmd.Flags().StringVar(&reason, "reason", "", "what was paid for")
	cmd.Flags().StringVar(&amount, "amount", "", "the amount paid")
	cmd.Flags().StringVar(&date, "date", "", "when the payment happened, YYYY-MM-DD. Defaults to today")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func (a *app) expensesUpdateCmd() *cobra.Command {
	var (
		to, reason, amount, date string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an expense. Only the given fields are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid expense ID %q", args[0])
			}

			var patch client.ExpensePatch
			flags := cmd.Flags()

			if flags.Changed("to") {
				patch.RecipientName = &to
			}

			if flags.Changed("reason") {
				patch.Reason = &reason
			}

			if flags.Changed("amount") {
				d, err := decimal.NewFromString(amount)
				if err != nil {
					return fmt.Errorf("invalid amount %q", amount)
				}
				patch.Amount = &d
			}

			if flags.Changed("date") {
				d, err := time.Parse(dateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid date %q, use the format YYYY-MM-DD", date)
				}
				patch.Date = &d
			}

			g, err := a.newGateway(cmd.Context())
			if err != nil {
				return err
			}

			result := g.Update(cmd.Context(), id, patch)
			if !result.Success {
				return errReported
			}

			return a.periodSummary(cmd.Context(), g, result.Expense.Date)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "who was paid")
	cmd.Flags().StringVar(&reason, "reason", "", "what was paid for")
	cmd.Flags().StringVar(&amount, "amount", "", "the amount paid")
	cmd.Flags().StringVar(&date, "date", "", "when the payment happened, YYYY-MM-DD")

	return cmd
}

func (a *app) expensesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid expense ID %q", args[0])
			}

			// All expenses are loaded to find the month of the deleted one
			g, err := a.gateway(cmd.Context(), client.Query{})
			if err != nil {
				return err
			}

			date := time.Now()
			for _, e := range g.Expenses() {
				if e.ID == id {
					date = e.Date
				}
			}

			if result := g.Delete(cmd.Context(), id); !result.Success {
				return errReported
			}

			return a.periodSummary(cmd.Context(), g, date)
		},
	}
}
