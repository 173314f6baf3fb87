// Package ledger implements the rules for storing, changing and querying
// the expenses of a user.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aapka-khata/backend/internal/events"
	"github.com/aapka-khata/backend/internal/models"
	"github.com/aapka-khata/backend/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the authoritative ledger.
//
// All operations are scoped to the user passed in. Expenses of other
// users are never visible and are treated as non-existent.
type Store struct {
	db        *gorm.DB
	publisher events.Publisher
}

// New returns a Store. If publisher is nil, events are discarded.
func New(db *gorm.DB, publisher events.Publisher) *Store {
	if publisher == nil {
		publisher = events.Noop{}
	}

	return &Store{
		db:        db,
		publisher: publisher,
	}
}

// AddExpense records a new expense for the user.
func (s *Store) AddExpense(ctx context.Context, userID uuid.UUID, input ExpenseInput) (expense models.Expense, err error) {
	defer func() { observe("add", err) }()

	if userID == uuid.Nil {
		return models.Expense{}, models.ErrUnauthorized
	}

	if err = input.validate(); err != nil {
		return models.Expense{}, err
	}

	owner := models.User{DefaultModel: models.DefaultModel{ID: userID}}
	expense = input.model(owner)
	if err = expense.Validate(); err != nil {
		return models.Expense{}, err
	}

	// The owner row is locked so that concurrent adds for the same user
	// do not compute the same seq
	err = s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := findUser(lockForUpdate(tx), userID); err != nil {
			return err
		}

		return tx.Create(&expense).Error
	})
	if err != nil {
		return models.Expense{}, err
	}

	s.publish(ctx, events.ExpenseCreated, expense)
	return expense, nil
}

// ListExpenses returns the expenses of a user matching the filter
// together with the user's budget.
func (s *Store) ListExpenses(ctx context.Context, userID uuid.UUID, filter Filter) (listing Listing, err error) {
	defer func() { observe("list", err) }()

	if userID == uuid.Nil {
		return Listing{}, models.ErrUnauthorized
	}

	period, err := types.ParsePeriod(filter.Month, filter.Year)
	if err != nil {
		return Listing{}, fmt.Errorf("%w: %w", models.ErrValidation, err)
	}

	db := s.db.WithContext(ctx)
	user, err := findUser(db, userID)
	if err != nil {
		return Listing{}, err
	}

	q := db.Where(&models.Expense{OwnerID: userID}).Order("seq DESC")
	if !period.IsZero() {
		q = q.Where(&models.Expense{Month: period.Month, Year: period.Year})
	}

	var expenses []models.Expense
	err = q.Find(&expenses).Error
	if err != nil {
		return Listing{}, err
	}

	if pattern := strings.TrimSpace(filter.Recipient); pattern != "" {
		expenses = matchRecipient(expenses, pattern)
	}

	if expenses == nil {
		expenses = []models.Expense{}
	}

	return Listing{
		Expenses: expenses,
		Budget:   user.Budget,
		Period:   period,
	}, nil
}

// DeleteExpense permanently removes an expense.
func (s *Store) DeleteExpense(ctx context.Context, userID, expenseID uuid.UUID) (err error) {
	defer func() { observe("delete", err) }()

	if userID == uuid.Nil {
		return models.ErrUnauthorized
	}

	var expense models.Expense
	err = s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := findUser(tx, userID); err != nil {
			return err
		}

		var err error
		expense, err = findExpense(tx, userID, expenseID)
		if err != nil {
			return err
		}

		return tx.Unscoped().Delete(&expense).Error
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.ExpenseDeleted, expense)
	return nil
}

// UpdateExpense applies a partial update to an expense.
//
// The patch is validated completely before anything is written.
func (s *Store) UpdateExpense(ctx context.Context, userID, expenseID uuid.UUID, patch ExpensePatch) (expense models.Expense, err error) {
	defer func() { observe("update", err) }()

	if userID == uuid.Nil {
		return models.Expense{}, models.ErrUnauthorized
	}

	if err = patch.validate(); err != nil {
		return models.Expense{}, err
	}

	err = s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := findUser(tx, userID); err != nil {
			return err
		}

		var err error
		expense, err = findExpense(tx, userID, expenseID)
		if err != nil {
			return err
		}

		if patch.Empty() {
			return nil
		}

		patch.apply(&expense)
		return tx.Save(&expense).Error
	})
	if err != nil {
		return models.Expense{}, err
	}

	if !patch.Empty() {
		s.publish(ctx, events.ExpenseUpdated, expense)
	}
	return expense, nil
}

// SetBudget updates the budget of the user.
func (s *Store) SetBudget(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (user models.User, err error) {
	defer func() { observe("set_budget", err) }()

	if userID == uuid.Nil {
		return models.User{}, models.ErrUnauthorized
	}

	if amount.IsNegative() {
		return models.User{}, models.ErrBudgetNegative
	}

	err = s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = findUser(tx, userID)
		if err != nil {
			return err
		}

		user.Budget = amount
		return tx.Save(&user).Error
	})
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// transaction runs fn in a database transaction. Errors from starting or
// committing the transaction do not pass gorm's callbacks and are
// sanitized here.
func (s *Store) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return models.Sanitize(s.db.WithContext(ctx).Transaction(fn))
}

// lockForUpdate locks the selected rows until the transaction ends.
// SQLite ignores the clause, it serializes writes on its single connection.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func findUser(db *gorm.DB, id uuid.UUID) (models.User, error) {
	var user models.User
	err := db.First(&user, "id = ?", id).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.User{}, models.ErrUserNotFound
	}

	return user, err
}

func findExpense(db *gorm.DB, ownerID, id uuid.UUID) (models.Expense, error) {
	var expense models.Expense
	err := db.First(&expense, "id = ? AND owner_id = ?", id, ownerID).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.Expense{}, models.ErrExpenseNotFound
	}

	return expense, err
}

func matchRecipient(expenses []models.Expense, pattern string) []models.Expense {
	pattern = strings.ToLower(pattern)

	var matched []models.Expense
	for _, e := range expenses {
		if glob.Glob(pattern, strings.ToLower(e.RecipientName)) {
			matched = append(matched, e)
		}
	}

	return matched
}

// publish sends an event for the expense. Failures are logged only,
// the ledger operation has already succeeded.
func (s *Store) publish(ctx context.Context, t events.Type, e models.Expense) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:      t,
		UserID:    e.OwnerID,
		ExpenseID: e.ID,
		Amount:    e.Amount,
		Month:     e.Month,
		Year:      e.Year,
		Timestamp: time.Now().In(time.UTC),
	})
	if err != nil {
		log.Warn().Err(err).Str("event", string(t)).Str("expense", e.ID.String()).Msg("Publishing ledger event failed")
	}
}
