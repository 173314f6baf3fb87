// Package events publishes changes to expense ledgers so that other
// services can react to them.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	ExpenseCreated Type = "expense.created"
	ExpenseUpdated Type = "expense.updated"
	ExpenseDeleted Type = "expense.deleted"
)

// Event describes a single change to a ledger.
type Event struct {
	Type      Type            `json:"type"`
	UserID    uuid.UUID       `json:"userId"`
	ExpenseID uuid.UUID       `json:"expenseId"`
	Amount    decimal.Decimal `json:"amount"`
	Month     string          `json:"month"`
	Year      string          `json:"year"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher sends events to interested parties.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop discards all events.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error {
	return nil
}
