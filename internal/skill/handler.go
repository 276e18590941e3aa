// File: internal/skill/handler.go
package skill

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"skills_portfolio_backend/internal/common"
)

// Handler handles HTTP requests for the skills portfolio.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new skill handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("skill.handler"),
	}
}

// RegisterRoutes sets up the skill routes. All routes require an
// authenticated session; guard enforces the skills view.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, middlewares ...gin.HandlerFunc) {
	skills := group.Group("/skills")
	skills.Use(middlewares...)
	{
		skills.GET("", h.listSkills)
		skills.POST("", h.addSkill)
		skills.GET("/:id", h.getSkill)
		skills.PUT("/:id", h.editSkill)
		skills.DELETE("/:id", h.deleteSkill)
		skills.POST("/:id/certifications", h.uploadCertification)
		skills.DELETE("/:id/certifications/:certId", h.deleteCertification)
	}
}

func (h *Handler) listSkills(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	skills, err := h.service.ListSkills(c.Request.Context(), ownerID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Skills retrieved successfully.", ToSkillResponses(skills))
}

func (h *Handler) getSkill(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid skill ID format."))
		return
	}

	skill, err := h.service.GetSkill(c.Request.Context(), id, ownerID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Skill retrieved successfully.", ToSkillResponse(skill))
}

func (h *Handler) addSkill(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)

	var req CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload."))
		return
	}

	skill, err := h.service.AddSkill(c.Request.Context(), ownerID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Skill added successfully.", ToSkillResponse(skill))
}

func (h *Handler) editSkill(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid skill ID format."))
		return
	}

	var req UpdateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload."))
		return
	}

	skill, err := h.service.EditSkill(c.Request.Context(), id, ownerID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Skill updated successfully.", ToSkillResponse(skill))
}

func (h *Handler) deleteSkill(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid skill ID format."))
		return
	}

	if err := h.service.DeleteSkill(c.Request.Context(), id, ownerID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) uploadCertification(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid skill ID format."))
		return
	}

	fileHeader, err := c.FormFile("certification")
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("A 'certification' file is required."))
		return
	}

	cert, err := h.service.UploadCertification(c.Request.Context(), id, ownerID, fileHeader)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Certification uploaded successfully.", CertificationResponse{
		ID:        cert.ID,
		FileName:  cert.FileName,
		BlobPath:  cert.BlobPath,
		CreatedAt: cert.CreatedAt,
	})
}

func (h *Handler) deleteCertification(c *gin.Context) {
	ownerID := common.GetUserIDFromContext(c)
	certID, err := uuid.Parse(c.Param("certId"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid certification ID format."))
		return
	}

	if err := h.service.DeleteCertification(c.Request.Context(), certID, ownerID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
