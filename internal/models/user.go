package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User is the owner of a ledger.
//
// The ledger itself is not embedded: expenses live in their own table
// and reference the user through Expense.OwnerID.
type User struct {
	DefaultModel
	FullName     string
	Email        string          `gorm:"uniqueIndex;not null"`
	PasswordHash string          `gorm:"not null"`
	Budget       decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Monthly spending ceiling
	Expenses     []Expense       `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Sessions     []Session       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (u User) Self() string {
	return "User"
}

// BeforeSave
//   - trims whitespace from string fields
//   - normalizes the email address to lower case
//   - ensures the budget is not negative
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.FullName = strings.TrimSpace(u.FullName)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	if u.FullName == "" || u.Email == "" {
		return ErrUserFieldsRequired
	}

	if u.Budget.IsNegative() {
		return ErrBudgetNegative
	}

	return nil
}
