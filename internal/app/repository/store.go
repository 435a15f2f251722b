package repository

import (
	"context"

	"opencaption/internal/app/model"
)

// Store persists media, transcripts, render attempts and pipeline jobs.
// Lookups of missing rows return an error matching apperrors.ErrNotFound;
// driver failures match apperrors.ErrPersistence.
type Store interface {
	CreateMedia(ctx context.Context, m *model.Media) error
	GetMedia(ctx context.Context, id string) (*model.Media, error)
	ListMedia(ctx context.Context) ([]model.Media, error)
	// DeleteMedia removes the media row; transcripts, render attempts and
	// jobs go with it.
	DeleteMedia(ctx context.Context, id string) error

	// SaveTranscript inserts the transcript with its segments and words in
	// one transaction and sets t.ID and t.CreatedAt. When promote is true
	// the media's active transcript is switched in the same transaction.
	SaveTranscript(ctx context.Context, t *model.Transcript, promote bool) error
	GetTranscript(ctx context.Context, id int64) (*model.Transcript, error)
	GetActiveTranscript(ctx context.Context, mediaID string) (*model.Transcript, error)
	PromoteTranscript(ctx context.Context, mediaID string, transcriptID int64) error
	// ListTranscripts returns transcript headers (no segments), newest first.
	ListTranscripts(ctx context.Context, mediaID string) ([]model.Transcript, error)

	AppendRenderAttempt(ctx context.Context, a *model.RenderAttempt) error
	// ListRenderAttempts returns attempts oldest first. An empty mediaID
	// lists every attempt.
	ListRenderAttempts(ctx context.Context, mediaID string) ([]model.RenderAttempt, error)

	CreateJob(ctx context.Context, j *model.PipelineJob) error
	UpdateJob(ctx context.Context, j *model.PipelineJob) error
	GetJob(ctx context.Context, id string) (*model.PipelineJob, error)

	Close() error
}
