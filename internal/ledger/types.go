package ledger

import (
	"strings"
	"time"

	"github.com/aapka-khata/backend/internal/models"
	"github.com/aapka-khata/backend/internal/types"
	"github.com/shopspring/decimal"
)

// ExpenseInput contains the fields needed to record a new expense.
type ExpenseInput struct {
	RecipientName string
	Reason        string
	Amount        decimal.Decimal
	Date          *time.Time // Defaults to the current time when nil
}

// validate rejects a date that was sent but is empty. Only a missing
// date defaults to now.
func (i ExpenseInput) validate() error {
	if i.Date != nil && i.Date.IsZero() {
		return models.ErrDateInvalid
	}

	return nil
}

func (i ExpenseInput) model(owner models.User) models.Expense {
	e := models.Expense{
		OwnerID:       owner.ID,
		RecipientName: i.RecipientName,
		Reason:        i.Reason,
		Amount:        i.Amount,
	}

	if i.Date != nil {
		e.Date = *i.Date
	}

	return e
}

// ExpensePatch describes a partial update of an expense.
//
// Only fields that are not nil are applied.
type ExpensePatch struct {
	RecipientName *string
	Reason        *string
	Amount        *decimal.Decimal
	Date          *time.Time
}

// validate checks all set fields without touching the database.
func (p ExpensePatch) validate() error {
	if p.RecipientName != nil && strings.TrimSpace(*p.RecipientName) == "" {
		return models.ErrFieldsRequired
	}

	if p.Reason != nil && strings.TrimSpace(*p.Reason) == "" {
		return models.ErrFieldsRequired
	}

	if p.Amount != nil && !p.Amount.IsPositive() {
		return models.ErrAmountNotPositive
	}

	if p.Date != nil && p.Date.IsZero() {
		return models.ErrDateInvalid
	}

	return nil
}

func (p ExpensePatch) apply(e *models.Expense) {
	if p.RecipientName != nil {
		e.RecipientName = *p.RecipientName
	}

	if p.Reason != nil {
		e.Reason = *p.Reason
	}

	if p.Amount != nil {
		e.Amount = *p.Amount
	}

	if p.Date != nil {
		e.Date = *p.Date
	}
}

// Empty reports whether the patch does not change anything.
func (p ExpensePatch) Empty() bool {
	return p.RecipientName == nil && p.Reason == nil && p.Amount == nil && p.Date == nil
}

// Filter narrows down the expenses returned by ListExpenses.
type Filter struct {
	Month     string // English month name, must be set together with Year
	Year      string // Four digit year, must be set together with Month
	Recipient string // Glob pattern matched case-insensitively against the recipient name
}

// Listing is the result of ListExpenses.
type Listing struct {
	Expenses []models.Expense // Most recently added first
	Budget   decimal.Decimal
	Period   types.Period // Zero when not filtered by period
}
