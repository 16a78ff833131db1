package middleware

import (
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/session"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Identify resolves the caller if any credential is present and stores the
// identity in the request context. Anonymous requests pass through.
func Identify(resolver *session.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := resolver.Resolve(c); ok {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// RequireAuth rejects anonymous requests. Must run after Identify.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetIdentity(c) == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles rejects callers whose role is outside the allowed set.
// Anonymous callers get 401, known callers with the wrong role get 403.
// Admins always pass.
func RequireRoles(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetIdentity(c)
		if id == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := id.Role == model.Admin
		for _, role := range roles {
			if id.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetIdentity(c *gin.Context) *session.Identity {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	id, ok := v.(*session.Identity)
	if !ok {
		return nil
	}
	return id
}
