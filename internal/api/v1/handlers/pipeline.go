package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opencaption/internal/api/middleware"
	"opencaption/internal/api/v1/dto"
	"opencaption/internal/api/v1/services"
	"opencaption/internal/app/model"
	"opencaption/internal/app/orchestrator"
)

// PipelineHandler handles pipeline job endpoints
type PipelineHandler struct {
	service services.CaptionService
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(service services.CaptionService) *PipelineHandler {
	return &PipelineHandler{
		service: service,
	}
}

// Create handles POST /api/v1/pipeline
// Runs the job synchronously. A failed job is returned with its failure
// recorded so the client can resume it.
func (h *PipelineHandler) Create(c *gin.Context) {
	var req dto.PipelineRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	job, err := h.service.RunPipeline(c.Request.Context(), orchestrator.PipelineRequest{
		URL:        req.URL,
		StyleID:    req.StyleID,
		Language:   req.Language,
		Resolution: req.Resolution,
	})
	h.respond(c, job, err, http.StatusCreated)
}

// Get handles GET /api/v1/jobs/:id
func (h *PipelineHandler) Get(c *gin.Context) {
	job, err := h.service.GetJob(c.Request.Context(), c.Param("id"))
	h.respond(c, job, err, http.StatusOK)
}

// Resume handles POST /api/v1/jobs/:id/resume
func (h *PipelineHandler) Resume(c *gin.Context) {
	job, err := h.service.ResumeJob(c.Request.Context(), c.Param("id"))
	h.respond(c, job, err, http.StatusOK)
}

func (h *PipelineHandler) respond(c *gin.Context, job *model.PipelineJob, err error, status int) {
	if err != nil {
		if job != nil && job.Status == model.JobFailed {
			c.Header("X-Job-ID", job.ID)
		}
		middleware.HandleError(c, err)
		return
	}
	c.JSON(status, job)
}
