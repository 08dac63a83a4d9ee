package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/fest-registration-api/internal/constants"
	apierrors "github.com/yukikurage/fest-registration-api/internal/errors"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"github.com/yukikurage/fest-registration-api/internal/services"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID == nil {
			apierrors.Unauthenticated(c, "")
			c.Abort()
			return
		}

		// Store user ID and role in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		if role, ok := session.Get(constants.ContextKeyRole).(string); ok {
			c.Set(constants.ContextKeyRole, role)
		}
		c.Next()
	}
}

// RequireRole rejects authenticated callers lacking role. It must run after RequireAuth.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			apierrors.Unauthenticated(c, "")
			c.Abort()
			return
		}
		if principal.Role != role {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetRole retrieves the current role from context, defaulting to USER
func GetRole(c *gin.Context) models.Role {
	switch v := c.Value(constants.ContextKeyRole).(type) {
	case string:
		return models.Role(v)
	case models.Role:
		return v
	default:
		return models.RoleUser
	}
}

// CurrentPrincipal builds the caller identity from context
func CurrentPrincipal(c *gin.Context) (*services.Principal, bool) {
	userID, ok := GetUserID(c)
	if !ok || userID == 0 {
		return nil, false
	}
	return &services.Principal{UserID: userID, Role: GetRole(c)}, true
}

// SaveSession stores the authenticated user in the session
func SaveSession(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	session.Set(constants.ContextKeyRole, string(user.Role))
	return session.Save()
}
