package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/audily-music-platform/pkg/jwt"
	"github.com/audily-music-platform/pkg/models"
)

// Middleware validates the Bearer token and requires the session it
// names to still exist in Redis. It sets user_id, username, role and
// session_id on the request context.
func Middleware(sessions SessionStore, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := jwt.ValidateToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		session, err := sessions.Get(c.Request.Context(), claims.SessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		c.Set("user_id", session.UserID)
		c.Set("username", session.Username)
		c.Set("role", session.Role)
		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}

// AdminMiddleware runs after Middleware and rejects non-admin sessions.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// UserID reads the authenticated user's id from the request context.
func UserID(c *gin.Context) uint {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
