package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"taskman/internal/constants"
	apierrors "taskman/internal/errors"
)

// RequireAuth rejects requests without a signed-in session. Routes
// that must report 404 before 401 skip this middleware and call
// SessionUserID after loading the target record.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := SessionUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// SessionUserID reads the authenticated user id from the session.
func SessionUserID(c *gin.Context) (uint64, bool) {
	session := sessions.Default(c)
	raw := session.Get(constants.SessionKeyUserID)
	if raw == nil {
		return 0, false
	}

	switch v := raw.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	if v, ok := userID.(uint64); ok {
		return v, true
	}
	return 0, false
}
