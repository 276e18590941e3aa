// File: internal/directory/handler.go
package directory

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skills_portfolio_backend/internal/common"
)

// Handler handles HTTP requests for the admin directory.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new directory handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("directory.handler"),
	}
}

// RegisterRoutes sets up the admin directory routes. Middlewares must
// include authentication and the admin view guard.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, middlewares ...gin.HandlerFunc) {
	admin := group.Group("/admin/directory")
	admin.Use(middlewares...)
	{
		admin.GET("", h.search)
		admin.POST("/messages", h.sendBulkMessage)
		admin.GET("/export", h.exportCSV)
	}
}

func (h *Handler) search(c *gin.Context) {
	results, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Directory retrieved successfully.", results)
}

func (h *Handler) sendBulkMessage(c *gin.Context) {
	senderID := common.GetUserIDFromContext(c)

	var req BulkMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload."))
		return
	}

	report, err := h.service.SendBulkMessage(c.Request.Context(), senderID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Bulk message processed.", report)
}

func (h *Handler) exportCSV(c *gin.Context) {
	data, err := h.service.ExportCSV(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="directory.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
