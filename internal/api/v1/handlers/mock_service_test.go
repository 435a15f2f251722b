package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"opencaption/internal/api/v1/services"
	"opencaption/internal/app/model"
	"opencaption/internal/app/orchestrator"
)

type mockCaptionService struct {
	mock.Mock
}

var _ services.CaptionService = (*mockCaptionService)(nil)

func (m *mockCaptionService) Ingest(ctx context.Context, src orchestrator.Source) (*model.Media, error) {
	args := m.Called(ctx, src)
	media, _ := args.Get(0).(*model.Media)
	return media, args.Error(1)
}

func (m *mockCaptionService) GetMedia(ctx context.Context, id string) (*model.Media, error) {
	args := m.Called(ctx, id)
	media, _ := args.Get(0).(*model.Media)
	return media, args.Error(1)
}

func (m *mockCaptionService) ListMedia(ctx context.Context) ([]model.Media, error) {
	args := m.Called(ctx)
	media, _ := args.Get(0).([]model.Media)
	return media, args.Error(1)
}

func (m *mockCaptionService) DeleteMedia(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCaptionService) Transcribe(ctx context.Context, mediaID, language string) (*model.Transcript, error) {
	args := m.Called(ctx, mediaID, language)
	t, _ := args.Get(0).(*model.Transcript)
	return t, args.Error(1)
}

func (m *mockCaptionService) ActiveTranscript(ctx context.Context, mediaID string) (*model.Transcript, error) {
	args := m.Called(ctx, mediaID)
	t, _ := args.Get(0).(*model.Transcript)
	return t, args.Error(1)
}

func (m *mockCaptionService) UpdateTranscript(ctx context.Context, mediaID string, segments []model.Segment, language string) (*model.Transcript, error) {
	args := m.Called(ctx, mediaID, segments, language)
	t, _ := args.Get(0).(*model.Transcript)
	return t, args.Error(1)
}

func (m *mockCaptionService) ListTranscripts(ctx context.Context, mediaID string) ([]model.Transcript, error) {
	args := m.Called(ctx, mediaID)
	ts, _ := args.Get(0).([]model.Transcript)
	return ts, args.Error(1)
}

func (m *mockCaptionService) PromoteTranscript(ctx context.Context, mediaID string, transcriptID int64) (*model.Transcript, error) {
	args := m.Called(ctx, mediaID, transcriptID)
	t, _ := args.Get(0).(*model.Transcript)
	return t, args.Error(1)
}

func (m *mockCaptionService) Render(ctx context.Context, req orchestrator.RenderRequest) (*orchestrator.RenderResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*orchestrator.RenderResult)
	return res, args.Error(1)
}

func (m *mockCaptionService) ListRenderAttempts(ctx context.Context, mediaID string) ([]model.RenderAttempt, error) {
	args := m.Called(ctx, mediaID)
	attempts, _ := args.Get(0).([]model.RenderAttempt)
	return attempts, args.Error(1)
}

func (m *mockCaptionService) RunPipeline(ctx context.Context, req orchestrator.PipelineRequest) (*model.PipelineJob, error) {
	args := m.Called(ctx, req)
	job, _ := args.Get(0).(*model.PipelineJob)
	return job, args.Error(1)
}

func (m *mockCaptionService) ResumeJob(ctx context.Context, jobID string) (*model.PipelineJob, error) {
	args := m.Called(ctx, jobID)
	job, _ := args.Get(0).(*model.PipelineJob)
	return job, args.Error(1)
}

func (m *mockCaptionService) GetJob(ctx context.Context, id string) (*model.PipelineJob, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*model.PipelineJob)
	return job, args.Error(1)
}
