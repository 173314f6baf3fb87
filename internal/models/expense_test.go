package models_test

import (
	"time"

	"github.com/aapka-khata/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestExpenseDerivesPeriod() {
	user := suite.createTestUser("period@example.com")

	berlin, _ := time.LoadLocation("Europe/Berlin")
	expense := models.Expense{
		OwnerID:       user.ID,
		RecipientName: "  Landlord ",
		Reason:        "Rent",
		Amount:        decimal.NewFromInt(12000),
		Date:          time.Date(2024, 3, 5, 10, 0, 0, 0, berlin),
		Month:         "December",
		Year:          "1999",
	}
	suite.Require().Nil(suite.db.Create(&expense).Error)

	suite.Assert().Equal("March", expense.Month)
	suite.Assert().Equal("2024", expense.Year)
	suite.Assert().Equal("Landlord", expense.RecipientName)
	suite.Assert().Equal(time.UTC, expense.Date.Location())

	// Changing the date recomputes the period
	expense.Date = time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC)
	suite.Require().Nil(suite.db.Save(&expense).Error)

	var reloaded models.Expense
	suite.Require().Nil(suite.db.First(&reloaded, "id = ?", expense.ID).Error)
	suite.Assert().Equal("December", reloaded.Month)
	suite.Assert().Equal("2023", reloaded.Year)
}

func (suite *TestSuiteStandard) TestExpenseDefaultsDateToNow() {
	user := suite.createTestUser("now@example.com")

	before := time.Now().In(time.UTC)
	expense := models.Expense{OwnerID: user.ID, RecipientName: "Cafe", Reason: "Coffee", Amount: decimal.NewFromFloat(3.5)}
	suite.Require().Nil(suite.db.Create(&expense).Error)

	suite.Assert().False(expense.Date.Before(before))
	suite.Assert().Equal(expense.Date.Month().String(), expense.Month)
}

func (suite *TestSuiteStandard) TestExpenseValidation() {
	user := suite.createTestUser("validation@example.com")

	tests := []struct {
		name    string
		expense models.Expense
		err     error
	}{
		{"Zero amount", models.Expense{OwnerID: user.ID, RecipientName: "A", Reason: "B"}, models.ErrAmountNotPositive},
		{"Negative amount", models.Expense{OwnerID: user.ID, RecipientName: "A", Reason: "B", Amount: decimal.NewFromInt(-5)}, models.ErrAmountNotPositive},
		{"Blank recipient", models.Expense{OwnerID: user.ID, RecipientName: "   ", Reason: "B", Amount: decimal.NewFromInt(5)}, models.ErrFieldsRequired},
		{"No reason", models.Expense{OwnerID: user.ID, RecipientName: "A", Amount: decimal.NewFromInt(5)}, models.ErrFieldsRequired},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := suite.db.Create(&tt.expense).Error
			suite.Assert().ErrorIs(err, tt.err)
		})
	}

	var count int64
	suite.Require().Nil(suite.db.Model(&models.Expense{}).Count(&count).Error)
	suite.Assert().Equal(int64(0), count, "Invalid expenses must not be written")
}

func (suite *TestSuiteStandard) TestExpenseSequencePerOwner() {
	alice := suite.createTestUser("alice@example.com")
	bob := suite.createTestUser("bob@example.com")

	create := func(owner models.User) models.Expense {
		e := models.Expense{OwnerID: owner.ID, RecipientName: "R", Reason: "R", Amount: decimal.NewFromInt(1)}
		suite.Require().Nil(suite.db.Create(&e).Error)
		return e
	}

	suite.Assert().Equal(int64(1), create(alice).Seq)
	suite.Assert().Equal(int64(2), create(alice).Seq)
	suite.Assert().Equal(int64(1), create(bob).Seq)
	suite.Assert().Equal(int64(3), create(alice).Seq)
}
