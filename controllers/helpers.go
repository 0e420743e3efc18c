package controllers

import (
	"errors"
	"net/http"

	"civicfix-be/core"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
)

// respondError maps core errors to HTTP statuses. Every failure keeps
// its distinguishable reason so clients can present actionable feedback.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, core.ErrPaymentRequired):
		status = http.StatusPaymentRequired
	case errors.Is(err, core.ErrForbidden), errors.Is(err, core.ErrQuotaExceeded):
		status = http.StatusForbidden
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrConflict), errors.Is(err, core.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, core.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// currentUser resolves the authenticated principal for this request,
// reusing the record RequireRole already loaded when present.
func currentUser(c *gin.Context) (*models.User, bool) {
	if cached, exists := c.Get("user"); exists {
		if user, ok := cached.(*models.User); ok {
			return user, true
		}
	}

	email, exists := c.Get("email")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	user, err := core.FindUserByEmail(c.Request.Context(), email.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
		return nil, false
	}
	return user, true
}
