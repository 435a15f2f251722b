package services

import (
	"context"
	"io"

	"opencaption/internal/api/v1/dto"
	"opencaption/internal/app/model"
	"opencaption/internal/app/orchestrator"
)

// CaptionService is the pipeline surface the handlers drive. It is
// satisfied by *orchestrator.Orchestrator.
type CaptionService interface {
	Ingest(ctx context.Context, src orchestrator.Source) (*model.Media, error)
	GetMedia(ctx context.Context, id string) (*model.Media, error)
	ListMedia(ctx context.Context) ([]model.Media, error)
	DeleteMedia(ctx context.Context, id string) error

	Transcribe(ctx context.Context, mediaID, language string) (*model.Transcript, error)
	ActiveTranscript(ctx context.Context, mediaID string) (*model.Transcript, error)
	UpdateTranscript(ctx context.Context, mediaID string, segments []model.Segment, language string) (*model.Transcript, error)
	ListTranscripts(ctx context.Context, mediaID string) ([]model.Transcript, error)
	PromoteTranscript(ctx context.Context, mediaID string, transcriptID int64) (*model.Transcript, error)

	Render(ctx context.Context, req orchestrator.RenderRequest) (*orchestrator.RenderResult, error)
	ListRenderAttempts(ctx context.Context, mediaID string) ([]model.RenderAttempt, error)

	RunPipeline(ctx context.Context, req orchestrator.PipelineRequest) (*model.PipelineJob, error)
	ResumeJob(ctx context.Context, jobID string) (*model.PipelineJob, error)
	GetJob(ctx context.Context, id string) (*model.PipelineJob, error)
}

var _ CaptionService = (*orchestrator.Orchestrator)(nil)

// ExportService defines the interface for export operations
type ExportService interface {
	ExportRenderAttempts(ctx context.Context, req dto.ExportRequest, writer io.Writer) error
}
