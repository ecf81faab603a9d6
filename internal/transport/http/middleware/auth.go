package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/moodsapp/moods-server/internal/token"
)

const errUnauthorized = "Authentication required"

// Identity decodes a Bearer token if one is present and sets "userID" in the
// gin context. A missing or invalid token leaves the request anonymous; it
// never aborts, because some routes are intentionally public.
func Identity(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			raw := strings.TrimPrefix(header, "Bearer ")
			if subject, ok := tokens.Decode(raw); ok {
				c.Set("userID", subject)
			}
		}
		c.Next()
	}
}

// RequireAuth runs after Identity and rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("userID") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		c.Next()
	}
}
