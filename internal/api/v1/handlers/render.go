package handlers

import (
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"opencaption/internal/api/middleware"
	"opencaption/internal/api/v1/dto"
	"opencaption/internal/api/v1/services"
	"opencaption/internal/app/orchestrator"
)

// RenderHandler serves rendered files
type RenderHandler struct {
	service services.CaptionService
}

// NewRenderHandler creates a new render handler
func NewRenderHandler(service services.CaptionService) *RenderHandler {
	return &RenderHandler{
		service: service,
	}
}

// Render handles POST /api/v1/render
// Responds with the rendered video, or the .srt track when srt_only is set
func (h *RenderHandler) Render(c *gin.Context) {
	var req dto.RenderRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	res, err := h.service.Render(c.Request.Context(), orchestrator.RenderRequest{
		MediaID:    req.MediaID,
		StyleID:    req.StyleID,
		Resolution: req.Resolution,
		SRTOnly:    req.SRTOnly,
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	if res.Attempt != nil {
		c.Header("X-Render-Attempt-ID", strconv.FormatInt(res.Attempt.ID, 10))
		if res.Attempt.ArtifactURL != nil {
			c.Header("X-Artifact-URL", *res.Attempt.ArtifactURL)
		}
	}
	c.Header("Content-Type", res.ContentType)
	c.FileAttachment(res.Path, filepath.Base(res.Path))
}
