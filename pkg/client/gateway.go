package client

import (
	"context"
	"sync"

	"github.com/aapka-khata/backend/pkg/budget"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Result is the outcome of a Gateway operation.
type Result struct {
	Success bool
	Message string   // Server message on success
	Expense *Expense // The created or updated expense, if any
	Error   string   // Description of the failure
}

// Notification titles for failed operations.
const (
	TitleAddFailed    = "Error adding expense!"
	TitleDeleteFailed = "Error deleting expense!"
	TitleUpdateFailed = "Error updating expense!"
	TitleLoadFailed   = "Error fetching expenses!"
)

// Gateway keeps a local copy of the ledger of the signed in user.
//
// The cache only changes after the server confirmed an operation. All
// methods are safe for concurrent use; the lock is never held during
// a request.
type Gateway struct {
	client   *Client
	notifier Notifier

	mu        sync.Mutex
	expenses  []Expense
	budget    decimal.Decimal
	inFlight  int
	lastError string
	loadSeq   uint64 // Incremented for every Load, older responses are dropped
}

// NewGateway returns a Gateway with an empty cache. If notifier is nil,
// notifications are logged.
func NewGateway(c *Client, notifier Notifier) *Gateway {
	if notifier == nil {
		notifier = LogNotifier{}
	}

	return &Gateway{
		client:   c,
		notifier: notifier,
		expenses: []Expense{},
	}
}

// begin marks the start of a request.
func (g *Gateway) begin() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.inFlight++
	g.lastError = ""
}

// finish marks the end of a request and applies fn to the state.
func (g *Gateway) finish(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.inFlight--
	fn()
}

// Load replaces the cache with the expenses of the period. Both month
// and year can be empty to load all expenses.
//
// If a newer Load is started before this one completes, the response of
// this one is not applied.
func (g *Gateway) Load(ctx context.Context, month, year string) Result {
	return g.LoadQuery(ctx, Query{Month: month, Year: year})
}

// LoadQuery is Load with all filters of ListExpenses.
func (g *Gateway) LoadQuery(ctx context.Context, q Query) Result {
	g.mu.Lock()
	g.loadSeq++
	seq := g.loadSeq
	g.mu.Unlock()

	g.begin()
	list, err := g.client.ListExpenses(ctx, q)

	var stale bool
	var description string
	g.finish(func() {
		stale = seq != g.loadSeq
		if stale {
			return
		}

		if err != nil {
			description = serverMessage(err, "Failed to fetch expenses.")
			g.lastError = description
			g.expenses = []Expense{}
			return
		}

		g.expenses = append([]Expense{}, list.Expenses...)
		g.budget = list.Budget
	})

	if err != nil {
		if stale {
			return Result{Error: serverMessage(err, "Failed to fetch expenses.")}
		}

		g.notifier.Failure(TitleLoadFailed, description)
		return Result{Error: description}
	}

	return Result{Success: true, Message: list.Message}
}

// Create adds an expense and prepends it to the cache.
func (g *Gateway) Create(ctx context.Context, fields ExpenseFields) Result {
	g.begin()
	resp, err := g.client.AddExpense(ctx, fields)

	if err != nil {
		return g.fail(err, TitleAddFailed, "Failed to add expense.")
	}

	expense := resp.Expense
	g.finish(func() {
		g.expenses = slices.Insert(g.expenses, 0, expense)
	})

	g.notifier.Success(resp.Message)
	return Result{Success: true, Message: resp.Message, Expense: &expense}
}

// Delete deletes an expense and removes it from the cache.
func (g *Gateway) Delete(ctx context.Context, id uuid.UUID) Result {
	g.begin()
	message, err := g.client.DeleteExpense(ctx, id)

	if err != nil {
		return g.fail(err, TitleDeleteFailed, "Failed to delete expense.")
	}

	g.finish(func() {
		g.expenses = slices.DeleteFunc(g.expenses, func(e Expense) bool { return e.ID == id })
	})

	g.notifier.Success(message)
	return Result{Success: true, Message: message}
}

// Update changes an expense and replaces it in the cache with the
// version returned by the server.
func (g *Gateway) Update(ctx context.Context, id uuid.UUID, patch ExpensePatch) Result {
	g.begin()
	resp, err := g.client.UpdateExpense(ctx, id, patch)

	if err != nil {
		return g.fail(err, TitleUpdateFailed, "Failed to update expense.")
	}

	expense := resp.Expense
	g.finish(func() {
		if i := slices.IndexFunc(g.expenses, func(e Expense) bool { return e.ID == id }); i >= 0 {
			g.expenses[i] = expense
		}
	})

	g.notifier.Success(resp.Message)
	return Result{Success: true, Message: resp.Message, Expense: &expense}
}

// fail records a failed mutation. The cache is not changed.
func (g *Gateway) fail(err error, title, fallback string) Result {
	description := serverMessage(err, fallback)

	g.finish(func() {
		g.lastError = description
	})

	g.notifier.Failure(title, description)
	return Result{Error: description}
}

// Expenses returns a copy of the cached expenses, newest first.
func (g *Gateway) Expenses() []Expense {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]Expense{}, g.expenses...)
}

// Budget returns the budget sent with the last successful Load.
func (g *Gateway) Budget() decimal.Decimal {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.budget
}

// Summary computes the budget view for the cached expenses.
func (g *Gateway) Summary() budget.View {
	g.mu.Lock()
	defer g.mu.Unlock()

	return budget.Of(g.expenses, func(e Expense) decimal.Decimal { return e.Amount }, g.budget)
}

// Loading reports if any request is in flight.
func (g *Gateway) Loading() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.inFlight > 0
}

// LastError returns the description of the last failure. It is reset
// when a new operation starts.
func (g *Gateway) LastError() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.lastError
}
