package models

import (
	"errors"
	"fmt"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/rs/zerolog/log"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
	ErrUnauthorized     = errors.New("not authorized")
	ErrValidation       = errors.New("validation failed")
)

var (
	ErrUserNotFound    = fmt.Errorf("%w user matching your query", ErrResourceNotFound)
	ErrExpenseNotFound = fmt.Errorf("%w expense matching your query", ErrResourceNotFound)
)

var (
	ErrFieldsRequired     = fmt.Errorf("%w: recipient name, reason and amount are required", ErrValidation)
	ErrAmountNotPositive  = fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	ErrBudgetNegative     = fmt.Errorf("%w: budget must not be negative", ErrValidation)
	ErrDateInvalid        = fmt.Errorf("%w: date must be a valid date", ErrValidation)
	ErrUserFieldsRequired = fmt.Errorf("%w: full name and email are required", ErrValidation)
	ErrEmailInUse         = fmt.Errorf("%w: a user with this email address already exists", ErrValidation)
)

// Sanitize returns err unchanged if it is one of the errors above.
// All other errors are logged and replaced with ErrGeneral so that
// no details about the storage layer reach users.
func Sanitize(err error) error {
	if err == nil {
		return nil
	}

	for _, known := range []error{ErrGeneral, ErrResourceNotFound, ErrValidation, ErrUnauthorized} {
		if errors.Is(err, known) {
			return err
		}
	}

	var sqliteErr *go_sqlite.Error
	if errors.As(err, &sqliteErr) {
		log.Error().Int("sqlite-code", sqliteErr.Code()).Msgf("%T: %v", err, err.Error())
	} else {
		log.Error().Msgf("%T: %v", err, err.Error())
	}

	return ErrGeneral
}
