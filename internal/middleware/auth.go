// File: internal/middleware/auth.go
package middleware

import (
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skills_portfolio_backend/internal/common"
	"skills_portfolio_backend/internal/firebase"
	"skills_portfolio_backend/internal/session"
)

// AuthMiddleware resolves the session tuple for each request before any
// handler runs. It accepts either the session cookie or a Bearer ID token.
// An unresolved session is refused, never treated as logged out; an
// unverified password identity is revoked and refused.
func AuthMiddleware(fbService *firebase.Service, resolver session.ProfileResolver, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("middleware.auth")

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, err := resolveToken(c, fbService)
		if err != nil {
			log.Debug("Session resolution failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("A valid session cookie or Bearer token is required."))
			return
		}

		state := session.Resolve(ctx, firebase.IdentityFromToken(token), resolver, log)
		switch state.Status {
		case session.StatusAuthenticated:
			c.Set(common.SessionStateKey, state)
			c.Set(common.UserIDKey, state.Profile.ID)
			c.Set(common.UserRoleKey, state.Profile.Role)
			c.Next()
		case session.StatusPendingVerification:
			// Forced sign-out for this occurrence: the session must not
			// survive an unverified password identity.
			if err := fbService.RevokeRefreshTokens(ctx, state.Identity.UID); err != nil {
				log.Warn("Failed to revoke unverified identity", zap.String("uid", state.Identity.UID), zap.Error(err))
			}
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Please verify your email address before signing in."))
		default:
			common.RespondWithError(c, common.ErrUnauthorized)
		}
	}
}

// resolveToken verifies the session cookie when present, falling back to a
// Bearer ID token.
func resolveToken(c *gin.Context, fbService *firebase.Service) (*firebaseauth.Token, error) {
	ctx := c.Request.Context()

	if cookie, err := c.Cookie(common.SessionCookieName); err == nil && cookie != "" {
		return fbService.VerifySessionCookie(ctx, cookie)
	}

	bearer := common.GetBearerToken(c)
	if bearer == "" {
		return nil, common.ErrUnauthorized
	}
	return fbService.VerifyIDToken(ctx, bearer)
}

// GetSessionFromContext retrieves the resolved session state set by
// AuthMiddleware. The second return is false when no session was resolved.
func GetSessionFromContext(c *gin.Context) (session.State, bool) {
	val, exists := c.Get(common.SessionStateKey)
	if !exists {
		return session.State{Status: session.StatusUnknown}, false
	}
	state, ok := val.(session.State)
	if !ok {
		return session.State{Status: session.StatusUnknown}, false
	}
	return state, true
}
