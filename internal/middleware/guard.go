// File: internal/middleware/guard.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"skills_portfolio_backend/internal/common"
	"skills_portfolio_backend/internal/session"
)

// ViewGuard enforces the view access table for an authenticated session.
// A role mismatch gets an access-denied payload, not a redirect; the
// client decides how to route from there.
func ViewGuard(view session.View) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := common.GetUserRoleFromContext(c)
		if role == "" {
			common.RespondWithError(c, common.ErrUnauthorized)
			return
		}
		if !session.CanAccess(view, role) {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have access to this area."))
			return
		}
		c.Next()
	}
}
