// Package middleware provides gin middleware for session auth and admin
// gating.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ecoheroes/recycle-rewards/internal/models"
	"github.com/ecoheroes/recycle-rewards/pkg/logger"
)

// Context keys set by RequireAuth.
const (
	ContextUserKey  = "current_user"
	ContextTokenKey = "session_token"
)

// SessionResolver interface for token lookups.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (uint, error)
}

// UserLoader interface for loading the authenticated user.
type UserLoader interface {
	GetByID(id uint) (*models.User, error)
}

// RequireAuth validates the bearer token and loads the user into the
// request context. Missing or invalid sessions get a structured failure,
// never a raw error.
func RequireAuth(sessions SessionResolver, users UserLoader, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "missing bearer token",
			})
			return
		}

		userID, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid or expired session",
			})
			return
		}

		user, err := users.GetByID(userID)
		if err != nil {
			log.Warn().Err(err).Uint("user_id", userID).Msg("Session resolved to unknown user")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid or expired session",
			})
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}

// RequireAdmin allows only admin users through. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "admin access required",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}

// SessionToken returns the bearer token set by RequireAuth.
func SessionToken(c *gin.Context) (string, bool) {
	val, exists := c.Get(ContextTokenKey)
	if !exists {
		return "", false
	}
	token, ok := val.(string)
	return token, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
