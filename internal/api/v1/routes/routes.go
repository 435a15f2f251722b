package routes

import (
	"github.com/gin-gonic/gin"

	"opencaption/internal/api/v1/handlers"
	"opencaption/internal/api/v1/services"
)

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	router.GET("/styles", handlers.ListStyles)

	// Media routes
	mediaHandler := handlers.NewMediaHandler(container.CaptionService)
	media := router.Group("/media")
	{
		media.GET("", mediaHandler.List)
		media.POST("/upload", mediaHandler.Upload)
		media.POST("/ingest", mediaHandler.IngestURL)
		media.GET("/:id", mediaHandler.Get)
		media.DELETE("/:id", mediaHandler.Delete)
		media.POST("/:id/transcribe", mediaHandler.Transcribe)
		media.GET("/:id/transcript", mediaHandler.GetTranscript)
		media.PUT("/:id/transcript", mediaHandler.UpdateTranscript)
		media.GET("/:id/transcripts", mediaHandler.ListTranscripts)
		media.POST("/:id/transcripts/:tid/promote", mediaHandler.PromoteTranscript)
		media.GET("/:id/renders", mediaHandler.ListRenders)
	}

	renderHandler := handlers.NewRenderHandler(container.CaptionService)
	router.POST("/render", renderHandler.Render)

	// Export routes
	if container.ExportService != nil {
		exportHandler := handlers.NewExportHandler(container.ExportService)
		router.GET("/renders/export", exportHandler.Export)
	}

	// Pipeline routes
	pipelineHandler := handlers.NewPipelineHandler(container.CaptionService)
	router.POST("/pipeline", pipelineHandler.Create)
	jobs := router.Group("/jobs")
	{
		jobs.GET("/:id", pipelineHandler.Get)
		jobs.POST("/:id/resume", pipelineHandler.Resume)
	}
}

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	CaptionService services.CaptionService
	ExportService  services.ExportService
}
