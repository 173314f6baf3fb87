package httputil

import (
	"github.com/gin-gonic/gin"
)

// HTTPError is used for error responses.
type HTTPError struct {
	Message string `json:"message" example:"Expense not found."`
}

// NewError aborts the request and responds with the message.
func NewError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Message: message,
	})
}
