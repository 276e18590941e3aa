// File: internal/auth/handler.go
package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"skills_portfolio_backend/internal/common"
	"skills_portfolio_backend/internal/config"
	"skills_portfolio_backend/internal/identity"
	"skills_portfolio_backend/internal/middleware"
	"skills_portfolio_backend/internal/session"
	"skills_portfolio_backend/internal/user"
)

// --- DTOs for API requests/responses ---

// SignUpRequest is the payload for creating a password account.
type SignUpRequest struct {
	FullName string `json:"full_name" binding:"required,max=200"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LogInRequest is the payload for credential login.
type LogInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ExchangeRequest carries a client-minted Firebase ID token.
type ExchangeRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// SessionResponse is the resolved session tuple sent to clients.
type SessionResponse struct {
	Status   session.Status       `json:"status"`
	Identity *identity.Identity   `json:"identity,omitempty"`
	Profile  *user.ProfileResponse `json:"profile,omitempty"`
}

func toSessionResponse(state session.State) SessionResponse {
	resp := SessionResponse{Status: state.Status, Identity: state.Identity}
	if state.Profile != nil {
		p := user.ToProfileResponse(state.Profile)
		resp.Profile = &p
	}
	return resp
}

// Handler handles authentication HTTP requests.
type Handler struct {
	service *Service
	cfg     *config.Config
	logger  *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(service *Service, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		logger:  logger.Named("auth.handler"),
	}
}

// RegisterRoutes sets up the auth routes. Only /auth/me requires an
// established session.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	auth := group.Group("/auth")
	{
		auth.POST("/signup", h.signUp)
		auth.POST("/login", h.logIn)
		auth.POST("/session", h.createSession)
		auth.DELETE("/session", h.deleteSession)
		auth.GET("/me", authMiddleware, h.me)
	}
}

func (h *Handler) signUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload."))
		return
	}

	profile, err := h.service.SignUp(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Account created. Check your inbox for the verification email before signing in.", user.ToProfileResponse(profile))
}

func (h *Handler) logIn(c *gin.Context) {
	var req LogInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload."))
		return
	}

	state, cookie, err := h.service.LogIn(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	h.setSessionCookie(c, cookie)
	common.RespondOK(c, "Signed in successfully.", toSessionResponse(*state))
}

func (h *Handler) createSession(c *gin.Context) {
	var req ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("An 'id_token' is required."))
		return
	}

	state, cookie, err := h.service.ExchangeIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	h.setSessionCookie(c, cookie)
	common.RespondOK(c, "Session established.", toSessionResponse(*state))
}

func (h *Handler) deleteSession(c *gin.Context) {
	if cookie, err := c.Cookie(common.SessionCookieName); err == nil && cookie != "" {
		if err := h.service.SignOut(c.Request.Context(), cookie); err != nil {
			h.logger.Warn("Sign-out revocation failed", zap.Error(err))
		}
	}

	h.clearSessionCookie(c)
	common.RespondOK(c, "Signed out.", nil)
}

func (h *Handler) me(c *gin.Context) {
	state, ok := middleware.GetSessionFromContext(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	common.RespondOK(c, "Session retrieved successfully.", toSessionResponse(state))
}

func (h *Handler) setSessionCookie(c *gin.Context, value string) {
	secure := h.cfg.GinMode == "release"
	maxAge := int(h.cfg.SessionCookieExpiry.Seconds())
	c.SetCookie(common.SessionCookieName, value, maxAge, "/", "", secure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	secure := h.cfg.GinMode == "release"
	c.SetCookie(common.SessionCookieName, "", -1, "/", "", secure, true)
}
