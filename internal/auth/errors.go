package auth

import (
	"fmt"

	"github.com/aapka-khata/backend/internal/models"
)

var (
	ErrNoToken            = fmt.Errorf("%w, no token", models.ErrUnauthorized)
	ErrTokenFailed        = fmt.Errorf("%w, token failed", models.ErrUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", models.ErrUnauthorized)
	ErrPasswordRequired   = fmt.Errorf("%w: password is required", models.ErrValidation)
)
