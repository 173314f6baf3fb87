package api

import (
	"errors"
	"net/http"

	"github.com/aapka-khata/backend/internal/auth"
	"github.com/aapka-khata/backend/internal/httputil"
	"github.com/aapka-khata/backend/internal/models"
	"github.com/aapka-khata/backend/internal/types"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// status returns the appropriate status for an error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrUnauthorized) {
		return http.StatusUnauthorized
	}

	return http.StatusBadRequest
}

type errorMessage struct {
	err     error
	message string
}

// messages are checked in order, the first match wins
var messages = []errorMessage{
	{models.ErrGeneral, "Server error. Please try again later."},
	{models.ErrFieldsRequired, "All fields are required."},
	{models.ErrAmountNotPositive, "Amount must be greater than 0."},
	{models.ErrUserNotFound, "User not found."},
	{models.ErrExpenseNotFound, "Expense not found."},
	{models.ErrBudgetNegative, "Budget must not be negative."},
	{models.ErrDateInvalid, "Invalid date."},
	{types.ErrPeriodIncomplete, "Month and year must be specified together."},
	{types.ErrInvalidPeriod, "Invalid month or year."},
	{models.ErrEmailInUse, "User with this email already exists."},
	{auth.ErrInvalidCredentials, "Invalid email or password."},
	{auth.ErrPasswordRequired, "All fields are required."},
	{models.ErrUserFieldsRequired, "All fields are required."},
}

// message returns the message shown to users for an error
func message(err error) string {
	if i := slices.IndexFunc(messages, func(m errorMessage) bool { return errors.Is(err, m.err) }); i >= 0 {
		return messages[i].message
	}

	if text, ok := httputil.ValidationMessage(err); ok {
		return text
	}

	return err.Error()
}

// httpError writes the response for an error
func httpError(c *gin.Context, err error) {
	httputil.NewError(c, status(err), message(err))
}

var errBudgetMissing = errors.New("the budget must be set")
