// Package auth resolves the identity of callers. Users sign in with
// email and password and receive a session token in a cookie.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aapka-khata/backend/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Registration contains the data needed to create a user.
type Registration struct {
	FullName string
	Email    string
	Password string
	Budget   decimal.Decimal
}

// Manager manages users and their sessions.
type Manager struct {
	db       *gorm.DB
	duration time.Duration
	secure   bool
}

// NewManager returns a Manager issuing sessions that are valid for duration.
// If secure is true, session cookies are only sent over HTTPS.
func NewManager(db *gorm.DB, duration time.Duration, secure bool) *Manager {
	return &Manager{
		db:       db,
		duration: duration,
		secure:   secure,
	}
}

// Register creates a new user.
func (m *Manager) Register(ctx context.Context, r Registration) (models.User, error) {
	if strings.TrimSpace(r.Password) == "" {
		return models.User{}, ErrPasswordRequired
	}

	hash, err := HashPassword(r.Password)
	if err != nil {
		return models.User{}, models.Sanitize(err)
	}

	user := models.User{
		FullName:     r.FullName,
		Email:        r.Email,
		PasswordHash: hash,
		Budget:       r.Budget,
	}

	err = m.db.WithContext(ctx).Create(&user).Error
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Authenticate returns the user for the credentials.
func (m *Manager) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	var user models.User
	err := m.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.User{}, ErrInvalidCredentials
	} else if err != nil {
		return models.User{}, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// User returns the user with the ID.
func (m *Manager) User(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	err := m.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.User{}, models.ErrUserNotFound
	}

	return user, err
}

// CreateSession starts a new session for the user.
func (m *Manager) CreateSession(ctx context.Context, userID uuid.UUID) (models.Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return models.Session{}, models.Sanitize(err)
	}

	now := time.Now().In(time.UTC)
	session := models.Session{
		Token:        token,
		UserID:       userID,
		ExpiresAt:    now.Add(m.duration),
		LastActivity: now,
	}

	err = m.db.WithContext(ctx).Create(&session).Error
	if err != nil {
		return models.Session{}, err
	}

	return session, nil
}

// ValidateSession returns the session for the token if it exists and is not expired.
// Expired sessions are removed.
func (m *Manager) ValidateSession(ctx context.Context, token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, ErrNoToken
	}

	var session models.Session
	err := m.db.WithContext(ctx).First(&session, "token = ?", token).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.Session{}, ErrTokenFailed
	} else if err != nil {
		return models.Session{}, err
	}

	if session.Expired(time.Now()) {
		if err := m.DeleteSession(ctx, token); err != nil {
			log.Warn().Err(err).Msg("Deleting expired session failed")
		}
		return models.Session{}, ErrTokenFailed
	}

	return session, nil
}

// RenewSession extends the session if it is past the halfway point of its
// lifetime. It reports whether the session was renewed.
func (m *Manager) RenewSession(ctx context.Context, session *models.Session) (bool, error) {
	now := time.Now().In(time.UTC)
	if session.ExpiresAt.Sub(now) >= m.duration/2 {
		return false, nil
	}

	session.ExpiresAt = now.Add(m.duration)
	session.LastActivity = now

	err := m.db.WithContext(ctx).Model(&models.Session{}).Where("token = ?", session.Token).Updates(map[string]any{
		"expires_at":    session.ExpiresAt,
		"last_activity": session.LastActivity,
	}).Error
	if err != nil {
		return false, err
	}

	return true, nil
}

// DeleteSession removes a session.
func (m *Manager) DeleteSession(ctx context.Context, token string) error {
	return m.db.WithContext(ctx).Delete(&models.Session{}, "token = ?", token).Error
}

// CleanExpiredSessions removes all expired sessions and returns how many were removed.
func (m *Manager) CleanExpiredSessions(ctx context.Context) (int64, error) {
	tx := m.db.WithContext(ctx).Where("expires_at <= ?", time.Now().In(time.UTC)).Delete(&models.Session{})
	return tx.RowsAffected, tx.Error
}
