// File: internal/user/handler.go
package user

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"skills_portfolio_backend/internal/common"
)

// Handler handles HTTP requests for the current user's profile.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new profile handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("user.handler"),
	}
}

// RegisterRoutes sets up the profile routes. All routes require an
// authenticated session.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	profile := group.Group("/profile")
	profile.Use(authMiddleware)
	{
		profile.GET("", h.getProfile)
		profile.PUT("", h.updateProfile)
	}
}

func (h *Handler) getProfile(c *gin.Context) {
	uid := common.GetUserIDFromContext(c)
	if uid == "" {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), uid)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", ToProfileResponse(profile))
}

func (h *Handler) updateProfile(c *gin.Context) {
	uid := common.GetUserIDFromContext(c)
	if uid == "" {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload."))
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), uid, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile updated successfully.", ToProfileResponse(profile))
}
