package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"opencaption/internal/api/errors"
	"opencaption/internal/api/middleware"
	"opencaption/internal/api/v1/dto"
	"opencaption/internal/api/v1/services"
	"opencaption/internal/app/model"
	"opencaption/internal/app/orchestrator"
)

// MediaHandler handles media, transcript and audit endpoints
type MediaHandler struct {
	service services.CaptionService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(service services.CaptionService) *MediaHandler {
	return &MediaHandler{
		service: service,
	}
}

// Upload handles POST /api/v1/media/upload
// Stores a multipart "file" field as new media
func (h *MediaHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("No file uploaded"))
		return
	}
	defer file.Close()

	media, err := h.service.Ingest(c.Request.Context(), orchestrator.Source{Reader: file, OriginalName: header.Filename})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, media)
}

// IngestURL handles POST /api/v1/media/ingest
func (h *MediaHandler) IngestURL(c *gin.Context) {
	var req dto.IngestRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	media, err := h.service.Ingest(c.Request.Context(), orchestrator.Source{URL: req.URL})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, media)
}

// List handles GET /api/v1/media
func (h *MediaHandler) List(c *gin.Context) {
	media, err := h.service.ListMedia(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	if media == nil {
		media = []model.Media{}
	}

	c.JSON(http.StatusOK, dto.MediaListResponse{Media: media})
}

// Get handles GET /api/v1/media/:id
func (h *MediaHandler) Get(c *gin.Context) {
	media, err := h.service.GetMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, media)
}

// Delete handles DELETE /api/v1/media/:id
func (h *MediaHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteMedia(c.Request.Context(), c.Param("id")); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Transcribe handles POST /api/v1/media/:id/transcribe
// The language may be sent as a form field, a JSON body or a query parameter.
func (h *MediaHandler) Transcribe(c *gin.Context) {
	var req dto.TranscribeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBind(&req); err != nil {
			middleware.HandleError(c, errors.NewValidationError("Invalid transcribe request", map[string]string{"language": "is invalid"}))
			return
		}
	}
	if req.Language == "" {
		req.Language = c.Query("language")
	}

	mediaID := c.Param("id")
	transcript, err := h.service.Transcribe(c.Request.Context(), mediaID, req.Language)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TranscriptResponse{MediaID: mediaID, Transcript: transcript})
}

// GetTranscript handles GET /api/v1/media/:id/transcript
func (h *MediaHandler) GetTranscript(c *gin.Context) {
	mediaID := c.Param("id")
	transcript, err := h.service.ActiveTranscript(c.Request.Context(), mediaID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TranscriptResponse{MediaID: mediaID, Transcript: transcript})
}

// UpdateTranscript handles PUT /api/v1/media/:id/transcript
// Saves the edited captions as a new active revision
func (h *MediaHandler) UpdateTranscript(c *gin.Context) {
	var req dto.UpdateTranscriptRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	mediaID := c.Param("id")
	transcript, err := h.service.UpdateTranscript(c.Request.Context(), mediaID, req.ToSegments(), req.Language)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TranscriptResponse{MediaID: mediaID, Transcript: transcript})
}

// ListTranscripts handles GET /api/v1/media/:id/transcripts
func (h *MediaHandler) ListTranscripts(c *gin.Context) {
	mediaID := c.Param("id")
	transcripts, err := h.service.ListTranscripts(c.Request.Context(), mediaID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	if transcripts == nil {
		transcripts = []model.Transcript{}
	}

	c.JSON(http.StatusOK, dto.TranscriptRevisionsResponse{MediaID: mediaID, Transcripts: transcripts})
}

// PromoteTranscript handles POST /api/v1/media/:id/transcripts/:tid/promote
// Makes an earlier revision the active transcript again
func (h *MediaHandler) PromoteTranscript(c *gin.Context) {
	transcriptID, err := strconv.ParseInt(c.Param("tid"), 10, 64)
	if err != nil || transcriptID <= 0 {
		middleware.HandleError(c, errors.NewValidationError("Invalid transcript id", map[string]string{"tid": "must be a positive integer"}))
		return
	}

	mediaID := c.Param("id")
	transcript, err := h.service.PromoteTranscript(c.Request.Context(), mediaID, transcriptID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TranscriptResponse{MediaID: mediaID, Transcript: transcript})
}

// ListRenders handles GET /api/v1/media/:id/renders
func (h *MediaHandler) ListRenders(c *gin.Context) {
	attempts, err := h.service.ListRenderAttempts(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	if attempts == nil {
		attempts = []model.RenderAttempt{}
	}

	c.JSON(http.StatusOK, dto.RenderAttemptsResponse{Attempts: attempts})
}
