// File: internal/middleware/error.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skills_portfolio_backend/internal/common"
)

// ErrorHandler renders errors attached via c.Error as APIError payloads.
// Handlers normally respond through common.RespondWithError; this is the
// net underneath for errors that reach the end of the chain unrendered.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			renderFirstError(c, logger)
			return
		}

		// Bare statuses set by the router itself (no matching route or
		// method) still get the APIError response shape.
		switch c.Writer.Status() {
		case http.StatusNotFound:
			notFound := common.ErrNotFound.WithDetails("The requested endpoint does not exist.")
			c.AbortWithStatusJSON(notFound.StatusCode, notFound)
		case http.StatusMethodNotAllowed:
			notAllowed := common.NewAPIError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "The method is not allowed for the requested URL.")
			c.AbortWithStatusJSON(notAllowed.StatusCode, notAllowed)
		}
	}
}

func renderFirstError(c *gin.Context, logger *zap.Logger) {
	ginErr := c.Errors[0]

	if apiErr, ok := common.IsAPIError(ginErr.Err); ok {
		c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
		return
	}

	logger.Error("Unhandled application error",
		zap.Error(ginErr.Err),
		zap.String("path", c.Request.URL.Path),
		zap.Any("meta", ginErr.Meta),
		zap.String("request_id", c.GetString(RequestIDContextKey)),
	)

	resp := common.ErrInternalServer.WithDetails("An unexpected error occurred.")
	// Outside release mode the real error is more useful than the shield.
	if gin.Mode() == gin.DebugMode && ginErr.Err != nil {
		resp.Details = ginErr.Err.Error()
	}
	c.AbortWithStatusJSON(resp.StatusCode, resp)
}
