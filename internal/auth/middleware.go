package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "auth.userID"
	ctxUsername = "auth.username"
	ctxRole     = "auth.role"
)

// Middleware rejects requests without a valid bearer token and records the
// caller's identity and role on the request context.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}

		claims, err := m.Parse(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		c.Set(ctxRole, claims.Role)

		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID, or zero when the
// middleware did not run.
func CurrentUserID(c *gin.Context) int64 {
	id, _ := c.Get(ctxUserID)
	userID, _ := id.(int64)
	return userID
}

// CurrentUsername returns the authenticated user's username.
func CurrentUsername(c *gin.Context) string {
	name, _ := c.Get(ctxUsername)
	username, _ := name.(string)
	return username
}

// CurrentRole returns the authenticated user's role.
func CurrentRole(c *gin.Context) string {
	r, _ := c.Get(ctxRole)
	role, _ := r.(string)
	return role
}
