package api_test

import (
	"net/http"
	"testing"

	"github.com/aapka-khata/backend/internal/auth"
	"github.com/aapka-khata/backend/internal/controllers/api"
	"github.com/aapka-khata/backend/internal/httputil"
	"github.com/aapka-khata/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestSignUp() {
	r := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/api/auth/signup", map[string]any{
		"fullName": "Asha Rao",
		"email":    "Asha@Example.com",
		"password": "correct horse battery staple",
		"budget":   50000,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response api.UserResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("User registered successfully.", response.Message)
	suite.Require().NotNil(response.User)
	suite.Assert().Equal("asha@example.com", response.User.Email)
	suite.Assert().True(response.User.Budget.Equal(decimal.NewFromInt(50000)))
	suite.Assert().NotContains(r.Body.String(), "password", "The password hash must never be sent")

	suite.Assert().NotEmpty(test.SessionCookie(suite.T(), &r, auth.CookieName))
}

func (suite *TestSuiteStandard) TestSignUpFails() {
	suite.signUp("asha@example.com")

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"Duplicate email", `{"fullName": "Asha", "email": "ASHA@example.com", "password": "secret"}`, "User with this email already exists."},
		{"Negative budget", `{"fullName": "Ravi", "email": "ravi@example.com", "password": "secret", "budget": -1}`, "Budget must not be negative."},
		{"Blank password", `{"fullName": "Ravi", "email": "ravi@example.com", "password": "   "}`, "All fields are required."},
		{"Empty body", "", httputil.ErrRequestBodyEmpty.Error()},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.controller, http.MethodPost, "http://example.com/api/auth/signup", tt.body)
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response httputil.HTTPError
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.message, response.Message)
		})
	}

	// Binding validation failures only need the right status
	for _, body := range []string{
		`{"email": "ravi@example.com", "password": "secret"}`,
		`{"fullName": "Ravi", "email": "not-an-email", "password": "secret"}`,
		`{"fullName": "Ravi", "email": "ravi@example.com"}`,
	} {
		r := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/api/auth/signup", body)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	}
}

func (suite *TestSuiteStandard) TestSignIn() {
	suite.signUp("asha@example.com")

	r := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/api/auth/signin", map[string]any{
		"email":    "asha@example.com",
		"password": "correct horse battery staple",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response api.UserResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Signed in successfully.", response.Message)
	suite.Require().NotNil(response.User)
	suite.Assert().Equal("Test User", response.User.FullName)

	// The new session works
	headers := map[string]string{"Cookie": auth.CookieName + "=" + test.SessionCookie(suite.T(), &r, auth.CookieName)}
	r = test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/api/auth/check", "", headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

func (suite *TestSuiteStandard) TestSignInFails() {
	suite.signUp("asha@example.com")

	for _, body := range []map[string]any{
		{"email": "asha@example.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "correct horse battery staple"},
	} {
		r := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/api/auth/signin", body)
		suite.assertMessage(&r, http.StatusUnauthorized, "Invalid email or password.")
		suite.Assert().Empty(r.Result().Cookies())
	}

	r := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/api/auth/signin", `{"email": "asha@example.com"}`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCheck() {
	headers := suite.signUp("asha@example.com")

	r := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/api/auth/check", "", headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response api.UserResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("User is authenticated.", response.Message)
	suite.Require().NotNil(response.User)
	suite.Assert().Equal("asha@example.com", response.User.Email)

	r = test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/api/auth/check", "")
	suite.assertMessage(&r, http.StatusUnauthorized, "Not authorized, no token")
}

func (suite *TestSuiteStandard) TestSignOut() {
	headers := suite.signUp("asha@example.com")

	r := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/api/auth/signout", "", headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response api.MessageResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Logged out successfully.", response.Message)

	cookies := r.Result().Cookies()
	suite.Require().Len(cookies, 1)
	suite.Assert().Equal(auth.CookieName, cookies[0].Name)
	suite.Assert().Empty(cookies[0].Value)

	// The session is gone
	r = test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/api/auth/check", "", headers)
	suite.assertMessage(&r, http.StatusUnauthorized, "Not authorized, token failed")

	r = test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/api/auth/signout", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestSetBudget() {
	headers := suite.signUp("asha@example.com")
	suite.addExpense(headers, map[string]any{"recipientName": "Landlord", "reason": "Rent", "amount": 12000})

	r := test.Request(suite.T(), suite.controller, http.MethodPut, "http://example.com/api/auth/budget", `{"budget": 10000}`, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response api.UserResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Budget updated successfully.", response.Message)
	suite.Require().NotNil(response.User)
	suite.Assert().True(response.User.Budget.Equal(decimal.NewFromInt(10000)))

	// Overspending results in a negative balance
	list := suite.listExpenses(headers, "")
	suite.Assert().True(list.Balance.Equal(decimal.NewFromInt(-2000)), list.Balance.String())

	r = test.Request(suite.T(), suite.controller, http.MethodPut, "http://example.com/api/auth/budget", `{"budget": 0}`, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

func (suite *TestSuiteStandard) TestSetBudgetFails() {
	headers := suite.signUp("asha@example.com")

	r := test.Request(suite.T(), suite.controller, http.MethodPut, "http://example.com/api/auth/budget", `{"budget": -1}`, headers)
	suite.assertMessage(&r, http.StatusBadRequest, "Budget must not be negative.")

	r = test.Request(suite.T(), suite.controller, http.MethodPut, "http://example.com/api/auth/budget", `{}`, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), suite.controller, http.MethodPut, "http://example.com/api/auth/budget", `{"budget": "lots"}`, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), suite.controller, http.MethodPut, "http://example.com/api/auth/budget", `{"budget": 100}`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)

	list := suite.listExpenses(headers, "")
	suite.Assert().True(list.Budget.Equal(decimal.NewFromInt(50000)))
}

func (suite *TestSuiteStandard) TestAuthDatabaseClosed() {
	suite.CloseDB()

	r := test.Request(suite.T(), suite.controller, http.MethodPost, "http://example.com/api/auth/signin", map[string]any{
		"email":    "asha@example.com",
		"password": "correct horse battery staple",
	})
	suite.assertMessage(&r, http.StatusInternalServerError, "Server error. Please try again later.")
}
