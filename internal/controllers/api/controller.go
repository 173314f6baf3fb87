// Package api implements the HTTP handlers for the ledger and for
// authentication.
package api

import (
	"time"

	"github.com/aapka-khata/backend/internal/auth"
	"github.com/aapka-khata/backend/internal/events"
	"github.com/aapka-khata/backend/internal/ledger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Amounts are sent as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Controller holds the dependencies of all handlers.
type Controller struct {
	DB     *gorm.DB
	Ledger *ledger.Store
	Auth   *auth.Manager
}

// New returns a Controller for the database. Ledger events are sent to publisher.
func New(db *gorm.DB, publisher events.Publisher, sessionDuration time.Duration, secureCookie bool) Controller {
	return Controller{
		DB:     db,
		Ledger: ledger.New(db, publisher),
		Auth:   auth.NewManager(db, sessionDuration, secureCookie),
	}
}
