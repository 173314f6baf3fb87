package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aapka-khata/backend/internal/controllers/api"
	"github.com/aapka-khata/backend/internal/events"
	"github.com/aapka-khata/backend/internal/httputil"
	"github.com/aapka-khata/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) assertMessage(r *httptest.ResponseRecorder, status int, message string) {
	test.AssertHTTPStatus(suite.T(), r, status)

	var response httputil.HTTPError
	test.DecodeResponse(suite.T(), r, &response)
	suite.Assert().Equal(message, response.Message)
}

func (suite *TestSuiteStandard) TestExpensesWithoutSession() {
	tests := []struct {
		name    string
		method  string
		path    string
		headers map[string]string
		message string
	}{
		{"List, no cookie", http.MethodGet, "/api/expenses", map[string]string{}, "Not authorized, no token"},
		{"Add, no cookie", http.MethodPost, "/api/expenses/add", map[string]string{}, "Not authorized, no token"},
		{"Update, no cookie", http.MethodPut, "/api/expenses/65392deb-5e92-4268-b114-297faad6cdce", map[string]string{}, "Not authorized, no token"},
		{"Delete, no cookie", http.MethodDelete, "/api/expenses/65392deb-5e92-4268-b114-297faad6cdce", map[string]string{}, "Not authorized, no token"},
		{"List, unknown token", http.MethodGet, "/api/expenses", map[string]string{"Cookie": "session=not-a-token"}, "Not authorized, token failed"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.controller, tt.method, "http://example.com"+tt.path, `{"recipientName": "Landlord", "reason": "Rent", "amount": 12000}`, tt.headers)
			test.AssertHTTPStatus(t, &r, http.StatusUnauthorized)

			var response httputil.HTTPError
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.message, response.Message)
		})
	}
}

func (suite *TestSuiteStandard) TestAddAndListExpenses() {
	headers := suite.signUp("asha@example.com")

	rent := suite.addExpense(headers, map[string]any{
		"recipientName": "Landlord",
		"reason":        "Rent",
		"amount":        12000,
		"date":          "2024-03-05T00:00:00Z",
	})
	suite.Assert().Equal("March", rent.Month)
	suite.Assert().Equal("2024", rent.Year)
	suite.Assert().True(rent.Amount.Equal(decimal.NewFromInt(12000)))

	groceries := suite.addExpense(headers, map[string]any{
		"recipientName": "Corner Store",
		"reason":        "Groceries",
		"amount":        250.5,
	})
	suite.Assert().Equal(time.Now().UTC().Month().String(), groceries.Month)

	list := suite.listExpenses(headers, "")
	suite.Assert().Equal("Expenses retrieved successfully.", list.Message)
	suite.Require().Len(list.Expenses, 2)
	suite.Assert().Equal(groceries.ID, list.Expenses[0].ID, "Most recently added expense must be first")
	suite.Assert().Equal(rent.ID, list.Expenses[1].ID)

	suite.Assert().True(list.Budget.Equal(decimal.NewFromInt(50000)), list.Budget.String())
	suite.Assert().True(list.TotalSpent.Equal(decimal.NewFromFloat(12250.5)), list.TotalSpent.String())
	suite.Assert().True(list.Balance.Equal(decimal.NewFromFloat(37749.5)), list.Balance.String())

	published := suite.publisher.Events()
	suite.Require().Len(published, 2)
	suite.Assert().Equal(events.ExpenseCreated, published[0].Type)
	suite.Assert().Equal(rent.ID, published[0].ExpenseID)
}

func (suite *TestSuiteStandard) TestListEmpty() {
	headers := suite.signUp("asha@example.com")

	r := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/api/expenses", "", headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().Contains(r.Body.String(), `"expenses":[]`)

	var list api.ExpenseListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Assert().True(list.TotalSpent.IsZero())
	suite.Assert().True(list.Balance.Equal(decimal.NewFromInt(50000)), list.Balance.String())
}

func (suite *TestSuiteStandard) TestAddExpenseFails() {
	headers := suite.signUp("asha@example.com")

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{"Missing amount", `{"recipientName": "Landlord", "reason": "Rent"}`, "All fields are required."},
		{"Missing recipient", `{"reason": "Rent", "amount": 12000}`, "All fields are required."},
		{"Blank reason", `{"recipientName": "Landlord", "reason": "  ", "amount": 12000}`, "All fields are required."},
		{"Zero amount", `{"recipientName": "Landlord", "reason": "Rent", "amount": 0}`, "Amount must be greater than 0."},
		{"Negative amount", `{"recipientName": "Landlord", "reason": "Rent", "amount": -5}`, "Amount must be greater than 0."},
		{"Zero date", `{"recipientName": "Landlord", "reason": "Rent", "amount": 5, "date": "0001-01-01T00:00:00Z"}`, "Invalid date."},
		{"Empty body", "", httputil.ErrRequestBodyEmpty.Error()},
		{"Broken JSON", `{"recipientName": "Landlord"`, httputil.ErrInvalidBody.Error()},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.controller, http.MethodPost, "http://example.com/api/expenses/add", tt.body, headers)
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response httputil.HTTPError
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.message, response.Message)
		})
	}

	suite.Assert().Empty(suite.listExpenses(headers, "").Expenses)
	suite.Assert().Empty(suite.publisher.Events())
}

func (suite *TestSuiteStandard) TestListFilters() {
	headers := suite.signUp("asha@example.com")

	suite.addExpense(headers, map[string]any{"recipientName": "Landlord", "reason": "Rent", "amount": 12000, "date": "2024-03-05T00:00:00Z"})
	suite.addExpense(headers, map[string]any{"recipientName": "Corner Store", "reason": "Groceries", "amount": 300, "date": "2024-03-20T00:00:00Z"})
	suite.addExpense(headers, map[string]any{"recipientName": "Landlord", "reason": "Rent", "amount": 12000, "date": "2024-04-05T00:00:00Z"})

	march := suite.listExpenses(headers, "?month=March&year=2024")
	suite.Assert().Len(march.Expenses, 2)
	suite.Assert().True(march.TotalSpent.Equal(decimal.NewFromInt(12300)), march.TotalSpent.String())
	suite.Assert().True(march.Balance.Equal(decimal.NewFromInt(37700)), march.Balance.String())

	landlord := suite.listExpenses(headers, "?recipient=land*")
	suite.Assert().Len(landlord.Expenses, 2)

	both := suite.listExpenses(headers, "?month=april&year=2024&recipient=LANDLORD")
	suite.Require().Len(both.Expenses, 1)
	suite.Assert().Equal("April", both.Expenses[0].Month)

	none := suite.listExpenses(headers, "?month=May&year=2023")
	suite.Assert().Empty(none.Expenses)
	suite.Assert().True(none.Balance.Equal(decimal.NewFromInt(50000)))
}

func (suite *TestSuiteStandard) TestListInvalidPeriod() {
	headers := suite.signUp("asha@example.com")

	tests := []struct {
		query   string
		message string
	}{
		{"?month=March", "Month and year must be specified together."},
		{"?year=2024", "Month and year must be specified together."},
		{"?month=Smarch&year=2024", "Invalid month or year."},
		{"?month=March&year=24", "Invalid month or year."},
	}

	for _, tt := range tests {
		r := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/api/expenses"+tt.query, "", headers)
		suite.assertMessage(&r, http.StatusBadRequest, tt.message)
	}
}

func (suite *TestSuiteStandard) TestDeleteExpense() {
	headers := suite.signUp("asha@example.com")
	expense := suite.addExpense(headers, map[string]any{"recipientName": "Landlord", "reason": "Rent", "amount": 12000})

	path := "http://example.com/api/expenses/" + expense.ID.String()

	r := test.Request(suite.T(), suite.controller, http.MethodDelete, path, "", headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response struct {
		Message string `json:"message"`
	}
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Expense deleted successfully.", response.Message)
	suite.Assert().Empty(suite.listExpenses(headers, "").Expenses)

	r = test.Request(suite.T(), suite.controller, http.MethodDelete, path, "", headers)
	suite.assertMessage(&r, http.StatusNotFound, "Expense not found.")

	r = test.Request(suite.T(), suite.controller, http.MethodDelete, "http://example.com/api/expenses/not-a-uuid", "", headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	published := suite.publisher.Events()
	suite.Require().Len(published, 2)
	suite.Assert().Equal(events.ExpenseDeleted, published[1].Type)
}

func (suite *TestSuiteStandard) TestOtherUsersExpense() {
	owner := suite.signUp("asha@example.com")
	other := suite.signUp("ravi@example.com")

	expense := suite.addExpense(owner, map[string]any{"recipientName": "Landlord", "reason": "Rent", "amount": 12000})
	path := "http://example.com/api/expenses/" + expense.ID.String()

	r := test.Request(suite.T(), suite.controller, http.MethodPut, path, `{"reason": "Stolen"}`, other)
	suite.assertMessage(&r, http.StatusNotFound, "Expense not found.")

	r = test.Request(suite.T(), suite.controller, http.MethodDelete, path, "", other)
	suite.assertMessage(&r, http.StatusNotFound, "Expense not found.")

	suite.Assert().Empty(suite.listExpenses(other, "").Expenses)

	list := suite.listExpenses(owner, "")
	suite.Require().Len(list.Expenses, 1)
	suite.Assert().Equal("Rent", list.Expenses[0].Reason)
}

func (suite *TestSuiteStandard) TestUpdateExpense() {
	headers := suite.signUp("asha@example.com")
	expense := suite.addExpense(headers, map[string]any{"recipientName": "Landlord", "reason": "Rent", "amount": 12000, "date": "2024-03-05T00:00:00Z"})
	path := "http://example.com/api/expenses/" + expense.ID.String()

	r := test.Request(suite.T(), suite.controller, http.MethodPut, path, `{"reason": "Rent and deposit", "amount": 24000}`, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response struct {
		Message string      `json:"message"`
		Expense api.Expense `json:"expense"`
	}
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Expense updated successfully.", response.Message)
	suite.Assert().Equal("Landlord", response.Expense.RecipientName, "Fields not sent must not change")
	suite.Assert().Equal("Rent and deposit", response.Expense.Reason)
	suite.Assert().True(response.Expense.Amount.Equal(decimal.NewFromInt(24000)))
	suite.Assert().Equal("March", response.Expense.Month)

	// Changing the date moves the expense to another period
	r = test.Request(suite.T(), suite.controller, http.MethodPut, path, `{"date": "2024-05-01T00:00:00Z"}`, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("May", response.Expense.Month)
	suite.Assert().True(response.Expense.Date.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	suite.Assert().Len(suite.listExpenses(headers, "?month=May&year=2024").Expenses, 1)

	published := suite.publisher.Events()
	suite.Require().Len(published, 3)
	suite.Assert().Equal(events.ExpenseUpdated, published[2].Type)
}

func (suite *TestSuiteStandard) TestUpdateExpenseFails() {
	headers := suite.signUp("asha@example.com")
	expense := suite.addExpense(headers, map[string]any{"recipientName": "Landlord", "reason": "Rent", "amount": 12000})
	path := "http://example.com/api/expenses/" + expense.ID.String()

	tests := []struct {
		name    string
		path    string
		body    string
		status  int
		message string
	}{
		{"Zero amount", path, `{"amount": 0}`, http.StatusBadRequest, "Amount must be greater than 0."},
		{"Blank recipient", path, `{"recipientName": ""}`, http.StatusBadRequest, "All fields are required."},
		{"Zero date", path, `{"date": "0001-01-01T00:00:00Z"}`, http.StatusBadRequest, "Invalid date."},
		{"Empty body", path, "", http.StatusBadRequest, httputil.ErrRequestBodyEmpty.Error()},
		{"Broken JSON", path, `{"reason": `, http.StatusBadRequest, httputil.ErrInvalidBody.Error()},
		{"Unknown expense", "http://example.com/api/expenses/65392deb-5e92-4268-b114-297faad6cdce", `{"reason": "Rent"}`, http.StatusNotFound, "Expense not found."},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.controller, http.MethodPut, tt.path, tt.body, headers)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response httputil.HTTPError
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.message, response.Message)
		})
	}

	list := suite.listExpenses(headers, "")
	suite.Require().Len(list.Expenses, 1)
	suite.Assert().True(list.Expenses[0].Amount.Equal(decimal.NewFromInt(12000)))
	suite.Assert().Equal(expense.Month, list.Expenses[0].Month)
	suite.Assert().Equal(expense.Year, list.Expenses[0].Year)
}

func (suite *TestSuiteStandard) TestExpensesDatabaseClosed() {
	headers := suite.signUp("asha@example.com")
	suite.CloseDB()

	r := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/api/expenses", "", headers)
	suite.assertMessage(&r, http.StatusInternalServerError, "Server error. Please try again later.")
}
