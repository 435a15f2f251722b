package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"opencaption/internal/api/middleware"
	"opencaption/internal/api/v1/dto"
	"opencaption/internal/api/v1/services"
)

// ExportHandler handles export-related HTTP requests
type ExportHandler struct {
	service services.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(service services.ExportService) *ExportHandler {
	return &ExportHandler{
		service: service,
	}
}

// Export handles GET /api/v1/renders/export
func (h *ExportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := middleware.ValidateQuery(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}
	if req.Format == "" {
		req.Format = "csv"
	}

	var contentType string
	switch req.Format {
	case "csv":
		contentType = "text/csv"
	case "json":
		contentType = "application/json"
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"render_attempts.%s\"", req.Format))
	c.Status(http.StatusOK)

	err := h.service.ExportRenderAttempts(c.Request.Context(), req, c.Writer)
	if err == nil {
		return
	}
	if c.Writer.Written() {
		// headers are out, the error can only be logged
		_ = c.Error(err)
		return
	}
	c.Writer.Header().Del("Content-Disposition")
	c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	middleware.HandleError(c, err)
}
