package models

import (
	"strings"
	"time"

	"github.com/aapka-khata/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is a single payment recorded in a user's ledger.
type Expense struct {
	DefaultModel
	OwnerID       uuid.UUID `gorm:"not null;index;uniqueIndex:idx_expenses_owner_seq"`
	Seq           int64     `gorm:"not null;uniqueIndex:idx_expenses_owner_seq"` // Position in the owner's ledger, increases with every insert
	RecipientName string    `gorm:"not null"`
	Reason        string    `gorm:"not null"`

	// The maximum value is "999999999999.99999999"
	Amount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date   time.Time

	// Month and Year are derived from Date on every save and
	// are only stored to filter by period cheaply
	Month string `gorm:"index:idx_expenses_period"`
	Year  string `gorm:"index:idx_expenses_period"`
}

func (e Expense) Self() string {
	return "Expense"
}

// Period returns the period the expense is booked in.
func (e Expense) Period() types.Period {
	return types.Period{Month: e.Month, Year: e.Year}
}

// Validate checks the invariants for user supplied fields.
//
// It does not modify the expense.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.RecipientName) == "" || strings.TrimSpace(e.Reason) == "" {
		return ErrFieldsRequired
	}

	if !e.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	return nil
}

// AfterFind enforces dates to be in UTC.
func (e *Expense) AfterFind(tx *gorm.DB) (err error) {
	err = e.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	e.Date = e.Date.In(time.UTC)
	return nil
}

// BeforeCreate assigns the ID and the next position in the owner's ledger.
func (e *Expense) BeforeCreate(tx *gorm.DB) (err error) {
	err = e.DefaultModel.BeforeCreate(tx)
	if err != nil {
		return err
	}

	var last int64
	err = tx.Session(&gorm.Session{NewDB: true}).
		Model(&Expense{}).
		Where(&Expense{OwnerID: e.OwnerID}).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&last).Error
	if err != nil {
		return err
	}

	e.Seq = last + 1
	return nil
}

// BeforeSave
//   - trims whitespace from string fields
//   - validates the expense
//   - sets the timezone for the Date to UTC, defaulting it to now
//   - derives Month and Year from the Date
func (e *Expense) BeforeSave(_ *gorm.DB) (err error) {
	e.RecipientName = strings.TrimSpace(e.RecipientName)
	e.Reason = strings.TrimSpace(e.Reason)

	err = e.Validate()
	if err != nil {
		return err
	}

	if e.Date.IsZero() {
		e.Date = time.Now().In(time.UTC)
	} else {
		e.Date = e.Date.In(time.UTC)
	}

	period := types.PeriodOf(e.Date)
	e.Month = period.Month
	e.Year = period.Year

	return nil
}
