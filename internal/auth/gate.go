package auth

import (
	"errors"
	"net/http"

	"github.com/aapka-khata/backend/internal/httputil"
	"github.com/aapka-khata/backend/internal/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

const contextUserID = "khata-user-id"

// Gate rejects all requests without a valid session.
//
// Sessions are rolling: a session that is past the halfway point of its
// lifetime is renewed.
func (m *Manager) Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(CookieName)

		session, err := m.ValidateSession(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, ErrNoToken):
				httputil.NewError(c, http.StatusUnauthorized, "Not authorized, no token")
			case errors.Is(err, models.ErrGeneral):
				httputil.NewError(c, http.StatusInternalServerError, "Server error. Please try again later.")
			default:
				m.ClearCookie(c)
				httputil.NewError(c, http.StatusUnauthorized, "Not authorized, token failed")
			}
			return
		}

		renewed, err := m.RenewSession(c.Request.Context(), &session)
		if err != nil {
			// The current session is still valid
			log.Warn().Str("request-id", requestid.Get(c)).Err(err).Msg("Renewing session failed")
		} else if renewed {
			m.SetCookie(c, session)
		}

		c.Set(contextUserID, session.UserID)
		c.Next()
	}
}

// UserID returns the ID of the user resolved by Gate, or uuid.Nil.
func UserID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(contextUserID)
	if !ok {
		return uuid.Nil
	}

	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}

	return id
}

// SetCookie sends the session token to the client.
func (m *Manager) SetCookie(c *gin.Context, session models.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, session.Token, int(m.duration.Seconds()), "/", "", m.secure, true)
}

// ClearCookie removes the session cookie from the client.
func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
}
