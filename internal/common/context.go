// File: internal/common/context.go
package common

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// AuthorizationHeader is the header name for the bearer ID token.
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens.
	AuthorizationTypeBearer = "Bearer"
	// SessionCookieName carries the signed Firebase session cookie.
	SessionCookieName = "session"

	// SessionStateKey is the Gin context key holding the resolved session
	// tuple (status, identity, profile) for the current request.
	SessionStateKey = "sessionState"
	// UserIDKey is the Gin context key for the authenticated user's ID.
	UserIDKey = "userID"
	// UserRoleKey is the Gin context key for the authenticated user's role.
	UserRoleKey = "userRole"
)

// GetBearerToken retrieves the token string from the Authorization header.
// Returns an empty string if the header is missing or malformed.
func GetBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
		return ""
	}
	return parts[1]
}

// GetUserIDFromContext retrieves the authenticated user's ID from the Gin
// context. Returns an empty string when the request is unauthenticated.
func GetUserIDFromContext(c *gin.Context) string {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return ""
	}
	id, ok := val.(string)
	if !ok {
		return ""
	}
	return id
}

// GetUserRoleFromContext retrieves the authenticated user's role from the
// Gin context.
func GetUserRoleFromContext(c *gin.Context) string {
	val, exists := c.Get(UserRoleKey)
	if !exists {
		return ""
	}
	role, ok := val.(string)
	if !ok {
		return ""
	}
	return role
}
