package models_test

import (
	"github.com/aapka-khata/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestUserEmailNormalized() {
	user := suite.createTestUser("  Someone@Example.COM ")
	suite.Assert().Equal("someone@example.com", user.Email)
}

func (suite *TestSuiteStandard) TestUserEmailUnique() {
	_ = suite.createTestUser("taken@example.com")

	duplicate := models.User{FullName: "Other", Email: "TAKEN@example.com", PasswordHash: "x"}
	err := suite.db.Create(&duplicate).Error
	suite.Assert().ErrorIs(err, models.ErrEmailInUse)
	suite.Assert().ErrorIs(err, models.ErrValidation)
}

func (suite *TestSuiteStandard) TestUserValidation() {
	tests := []struct {
		name string
		user models.User
		err  error
	}{
		{"No name", models.User{Email: "a@example.com"}, models.ErrUserFieldsRequired},
		{"No email", models.User{FullName: "A"}, models.ErrUserFieldsRequired},
		{"Negative budget", models.User{FullName: "A", Email: "a@example.com", Budget: decimal.NewFromInt(-1)}, models.ErrBudgetNegative},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := suite.db.Create(&tt.user).Error
			suite.Assert().ErrorIs(err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestUserDeleteCascades() {
	user := suite.createTestUser("cascade@example.com")

	expense := models.Expense{OwnerID: user.ID, RecipientName: "Shop", Reason: "Food", Amount: decimal.NewFromInt(10)}
	suite.Require().Nil(suite.db.Create(&expense).Error)
	suite.Require().Nil(suite.db.Create(&models.Session{Token: "t", UserID: user.ID}).Error)

	suite.Require().Nil(suite.db.Delete(&user).Error)

	var count int64
	suite.Require().Nil(suite.db.Model(&models.Expense{}).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)

	suite.Require().Nil(suite.db.Model(&models.Session{}).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)
}
