package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taxi/internal/service"
)

// AdminAuthMiddleware returns middleware that requires a valid admin
// bearer token on every request it guards.
func AdminAuthMiddleware(authService *service.AdminAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		session, err := authService.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidToken.Error()})
			return
		}

		c.Set("adminUser", session.Username)
		c.Next()
	}
}
