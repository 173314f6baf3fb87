package api

import (
	"net/http"

	"github.com/aapka-khata/backend/internal/auth"
	"github.com/aapka-khata/backend/internal/httputil"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterAuthRoutes registers the routes for authentication with
// the RouterGroup that is passed.
func (co Controller) RegisterAuthRoutes(r *gin.RouterGroup) {
	gate := co.Auth.Gate()

	{
		r.OPTIONS("/signup", httputil.OptionsPost)
		r.POST("/signup", co.SignUp)
		r.OPTIONS("/signin", httputil.OptionsPost)
		r.POST("/signin", co.SignIn)
	}

	// Routes that need a session
	{
		r.OPTIONS("/check", httputil.OptionsGet)
		r.GET("/check", gate, co.Check)
		r.OPTIONS("/signout", httputil.OptionsPost)
		r.POST("/signout", gate, co.SignOut)
		r.OPTIONS("/budget", httputil.OptionsPut)
		r.PUT("/budget", gate, co.SetBudget)
	}
}

// @Summary		Sign up
// @Description	Creates a new user and signs them in
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		201		{object}	UserResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			user	body		SignUpEditable	true	"User"
// @Router			/api/auth/signup [post]
func (co Controller) SignUp(c *gin.Context) {
	var data SignUpEditable
	err := httputil.BindData(c, &data)
	if err != nil {
		httpError(c, err)
		return
	}

	user, err := co.Auth.Register(c.Request.Context(), auth.Registration{
		FullName: data.FullName,
		Email:    data.Email,
		Password: data.Password,
		Budget:   data.Budget,
	})
	if err != nil {
		httpError(c, err)
		return
	}

	session, err := co.Auth.CreateSession(c.Request.Context(), user.ID)
	if err != nil {
		httpError(c, err)
		return
	}
	co.Auth.SetCookie(c, session)

	apiResource := newUser(user)
	c.JSON(http.StatusCreated, UserResponse{
		Message: "User registered successfully.",
		User:    &apiResource,
	})
}

// @Summary		Sign in
// @Description	Signs in with email and password. The session is sent as cookie.
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200			{object}	UserResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		401			{object}	httputil.HTTPError
// @Failure		500			{object}	httputil.HTTPError
// @Param			credentials	body		SignInEditable	true	"Credentials"
// @Router			/api/auth/signin [post]
func (co Controller) SignIn(c *gin.Context) {
	var data SignInEditable
	err := httputil.BindData(c, &data)
	if err != nil {
		httpError(c, err)
		return
	}

	user, err := co.Auth.Authenticate(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		httpError(c, err)
		return
	}

	session, err := co.Auth.CreateSession(c.Request.Context(), user.ID)
	if err != nil {
		httpError(c, err)
		return
	}
	co.Auth.SetCookie(c, session)

	apiResource := newUser(user)
	c.JSON(http.StatusOK, UserResponse{
		Message: "Signed in successfully.",
		User:    &apiResource,
	})
}

// @Summary		Check session
// @Description	Returns the signed in user
// @Tags			Auth
// @Produce		json
// @Success		200	{object}	UserResponse
// @Failure		401	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Router			/api/auth/check [get]
func (co Controller) Check(c *gin.Context) {
	user, err := co.Auth.User(c.Request.Context(), auth.UserID(c))
	if err != nil {
		httpError(c, err)
		return
	}

	apiResource := newUser(user)
	c.JSON(http.StatusOK, UserResponse{
		Message: "User is authenticated.",
		User:    &apiResource,
	})
}

// @Summary		Sign out
// @Description	Ends the current session
// @Tags			Auth
// @Produce		json
// @Success		200	{object}	MessageResponse
// @Failure		401	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Router			/api/auth/signout [post]
func (co Controller) SignOut(c *gin.Context) {
	token, _ := c.Cookie(auth.CookieName)

	err := co.Auth.DeleteSession(c.Request.Context(), token)
	if err != nil {
		httpError(c, err)
		return
	}
	co.Auth.ClearCookie(c)

	c.JSON(http.StatusOK, MessageResponse{
		Message: "Logged out successfully.",
	})
}

// @Summary		Set budget
// @Description	Updates the monthly budget of the signed in user
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200		{object}	UserResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		401		{object}	httputil.HTTPError
// @Failure		404		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/api/auth/budget [put]
func (co Controller) SetBudget(c *gin.Context) {
	fields, err := httputil.GetBodyFields(c, BudgetEditable{})
	if err != nil {
		httpError(c, err)
		return
	}

	if !slices.Contains(fields, "Budget") {
		httpError(c, errBudgetMissing)
		return
	}

	var data BudgetEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		httpError(c, err)
		return
	}

	user, err := co.Ledger.SetBudget(c.Request.Context(), auth.UserID(c), data.Budget)
	if err != nil {
		httpError(c, err)
		return
	}

	apiResource := newUser(user)
	c.JSON(http.StatusOK, UserResponse{
		Message: "Budget updated successfully.",
		User:    &apiResource,
	})
}
