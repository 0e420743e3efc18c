package middlewares

import (
	"net/http"

	"civicfix-be/core"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
)

// RequireRole loads the authenticated principal and denies the request
// unless their role is one of the allowed ones. The loaded user is
// cached on the context under "user" so handlers skip a second lookup.
// Must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, exists := c.Get("email")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		user, err := core.FindUserByEmail(c.Request.Context(), email.(string))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
			c.Abort()
			return
		}

		if user.IsBlocked() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is blocked"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Set("user", user)
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized for this action"})
		c.Abort()
	}
}
