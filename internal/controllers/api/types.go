package api

import (
	"time"

	"github.com/aapka-khata/backend/internal/ledger"
	"github.com/aapka-khata/backend/internal/models"
	ez_uuid "github.com/aapka-khata/backend/internal/uuid"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

type URIExpenseID struct {
	ExpenseID ez_uuid.UUID `uri:"expenseId" binding:"required" format:"UUID"` // ID of the expense
}

type ExpenseEditable struct {
	RecipientName string `json:"recipientName" example:"Landlord"` // Who was paid
	Reason        string `json:"reason" example:"Rent"`            // What was paid for

	// The maximum value is "999999999999.99999999", swagger unfortunately rounds this.
	Amount decimal.Decimal `json:"amount" example:"12000" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // The amount paid. Must be greater than 0

	Date *time.Time `json:"date,omitempty" example:"2024-03-05T00:00:00Z"` // When the payment happened. Defaults to now
}

func (editable ExpenseEditable) input() ledger.ExpenseInput {
	return ledger.ExpenseInput{
		RecipientName: editable.RecipientName,
		Reason:        editable.Reason,
		Amount:        editable.Amount,
		Date:          editable.Date,
	}
}

// patch returns a patch containing the fields that were sent
func (editable ExpenseEditable) patch(fields []string) ledger.ExpensePatch {
	var p ledger.ExpensePatch

	if slices.Contains(fields, "RecipientName") {
		p.RecipientName = &editable.RecipientName
	}

	if slices.Contains(fields, "Reason") {
		p.Reason = &editable.Reason
	}

	if slices.Contains(fields, "Amount") {
		p.Amount = &editable.Amount
	}

	if slices.Contains(fields, "Date") {
		p.Date = editable.Date
	}

	return p
}

// Expense is the API representation of an expense.
type Expense struct {
	ID            uuid.UUID       `json:"id" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	RecipientName string          `json:"recipientName" example:"Landlord"`
	Reason        string          `json:"reason" example:"Rent"`
	Amount        decimal.Decimal `json:"amount" example:"12000"`
	Date          time.Time       `json:"date" example:"2024-03-05T00:00:00Z"`
	Month         string          `json:"month" example:"March"` // Derived from the date
	Year          string          `json:"year" example:"2024"`   // Derived from the date
	CreatedAt     time.Time       `json:"createdAt" example:"2024-03-05T10:11:12.345678Z"`
	UpdatedAt     time.Time       `json:"updatedAt" example:"2024-03-05T10:11:12.345678Z"`
}

func newExpense(model models.Expense) Expense {
	return Expense{
		ID:            model.ID,
		RecipientName: model.RecipientName,
		Reason:        model.Reason,
		Amount:        model.Amount,
		Date:          model.Date,
		Month:         model.Month,
		Year:          model.Year,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

type ExpenseResponse struct {
	Message string   `json:"message" example:"Expense added successfully."`
	Expense *Expense `json:"expense,omitempty"`
}

type ExpenseQueryFilter struct {
	Month     string `form:"month" example:"March"`      // Long English month name. Must be set together with year
	Year      string `form:"year" example:"2024"`        // Four digit year. Must be set together with month
	Recipient string `form:"recipient" example:"groc*"` // Glob pattern for the recipient name, case insensitive
}

func (f ExpenseQueryFilter) filter() ledger.Filter {
	return ledger.Filter{
		Month:     f.Month,
		Year:      f.Year,
		Recipient: f.Recipient,
	}
}

type ExpenseListResponse struct {
	Message    string          `json:"message" example:"Expenses retrieved successfully."`
	Expenses   []Expense       `json:"expenses"`
	Budget     decimal.Decimal `json:"budget" example:"50000"`
	TotalSpent decimal.Decimal `json:"totalSpent" example:"12000"` // Sum of the amounts of all returned expenses
	Balance    decimal.Decimal `json:"balance" example:"38000"`    // Budget minus total spent, can be negative
}

type MessageResponse struct {
	Message string `json:"message" example:"Expense deleted successfully."`
}

type SignUpEditable struct {
	FullName string          `json:"fullName" binding:"required" example:"Asha Rao"`
	Email    string          `json:"email" binding:"required,email" example:"asha@example.com"`
	Password string          `json:"password" binding:"required" example:"correct horse battery staple"`
	Budget   decimal.Decimal `json:"budget" example:"50000"` // Monthly budget. Defaults to 0
}

type SignInEditable struct {
	Email    string `json:"email" binding:"required" example:"asha@example.com"`
	Password string `json:"password" binding:"required" example:"correct horse battery staple"`
}

type BudgetEditable struct {
	Budget decimal.Decimal `json:"budget" example:"50000"` // Monthly budget. Must not be negative
}

// User is the API representation of a user. It never contains the password hash.
type User struct {
	ID       uuid.UUID       `json:"id" example:"0b2e4a44-7c0e-4b5f-a0f9-38c3a1d4b5c2"`
	FullName string          `json:"fullName" example:"Asha Rao"`
	Email    string          `json:"email" example:"asha@example.com"`
	Budget   decimal.Decimal `json:"budget" example:"50000"`
}

func newUser(model models.User) User {
	return User{
		ID:       model.ID,
		FullName: model.FullName,
		Email:    model.Email,
		Budget:   model.Budget,
	}
}

type UserResponse struct {
	Message string `json:"message" example:"Signed in successfully."`
	User    *User  `json:"user,omitempty"`
}
