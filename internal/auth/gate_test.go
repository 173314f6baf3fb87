package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/aapka-khata/backend/internal/auth"
	"github.com/aapka-khata/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) gateRequest(cookie *http.Cookie) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/", suite.manager.Gate(), func(c *gin.Context) {
		c.String(http.StatusOK, auth.UserID(c).String())
	})

	req, _ := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (suite *TestSuiteStandard) TestGate() {
	user := suite.register("gate@example.com")
	session, err := suite.manager.CreateSession(context.Background(), user.ID)
	suite.Require().Nil(err)

	tests := []struct {
		name   string
		cookie *http.Cookie
		status int
		body   string
	}{
		{"No cookie", nil, http.StatusUnauthorized, `{"message":"Not authorized, no token"}`},
		{"Empty cookie", &http.Cookie{Name: auth.CookieName, Value: ""}, http.StatusUnauthorized, `{"message":"Not authorized, no token"}`},
		{"Unknown token", &http.Cookie{Name: auth.CookieName, Value: "forged"}, http.StatusUnauthorized, `{"message":"Not authorized, token failed"}`},
		{"Valid", &http.Cookie{Name: auth.CookieName, Value: session.Token}, http.StatusOK, user.ID.String()},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.gateRequest(tt.cookie)
			suite.Assert().Equal(tt.status, w.Code)
			suite.Assert().Equal(tt.body, w.Body.String())
		})
	}
}

func (suite *TestSuiteStandard) TestGateRenewsCookie() {
	user := suite.register("rolling@example.com")

	old := models.Session{Token: "rolling-token", UserID: user.ID, ExpiresAt: time.Now().Add(5 * time.Minute).In(time.UTC)}
	suite.Require().Nil(suite.db.Create(&old).Error)

	w := suite.gateRequest(&http.Cookie{Name: auth.CookieName, Value: old.Token})
	suite.Assert().Equal(http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	suite.Require().Len(cookies, 1)
	suite.Assert().Equal(old.Token, cookies[0].Value)
	suite.Assert().True(cookies[0].HttpOnly)
	suite.Assert().Equal(http.SameSiteLaxMode, cookies[0].SameSite)
	suite.Assert().Equal(3600, cookies[0].MaxAge)
}

func (suite *TestSuiteStandard) TestGateDatabaseClosed() {
	suite.CloseDB()

	w := suite.gateRequest(&http.Cookie{Name: auth.CookieName, Value: "token"})
	suite.Assert().Equal(http.StatusInternalServerError, w.Code)
}

func (suite *TestSuiteStandard) TestUserIDWithoutGate() {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	suite.Assert().Equal(uuid.Nil, auth.UserID(c))
}
