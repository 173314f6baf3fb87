package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is a login session. The token is sent to clients in a cookie.
type Session struct {
	Token        string    `gorm:"primaryKey"`
	UserID       uuid.UUID `gorm:"not null;index"`
	ExpiresAt    time.Time `gorm:"index"`
	LastActivity time.Time
	CreatedAt    time.Time
}

// Expired reports whether the session is expired at the given time.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
