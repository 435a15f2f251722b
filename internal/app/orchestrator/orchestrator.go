// Package orchestrator drives media through ingest, transcription, caption
// composition and burn-in, recording every transition.
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"opencaption/internal/app/api"
	"opencaption/internal/app/encoder"
	apperrors "opencaption/internal/app/errors"
	"opencaption/internal/app/lock"
	"opencaption/internal/app/metrics"
	"opencaption/internal/app/model"
	"opencaption/internal/app/repository"
	"opencaption/internal/app/storage"
	"opencaption/internal/app/subtitle"
	"opencaption/internal/app/worker"
	"opencaption/internal/downloader"
)

// Stage names used in logs, metrics and error context.
const (
	StageIngest     = "ingest"
	StageTranscribe = "transcribe"
	StageCompose    = "compose"
	StageRender     = "render"
)

// StreamInspector reports the streams of a stored media file.
type StreamInspector interface {
	Inspect(ctx context.Context, path string) (*model.FFProbeOutput, error)
}

// Deps are the collaborators of an Orchestrator. Inspector, Mirror, Metrics
// and Logger are optional; without an Inspector ingested files are not
// checked for a video stream.
type Deps struct {
	Store       repository.Store
	Layout      *storage.Layout
	Transcriber api.Transcriber
	Encoder     encoder.Encoder
	Fetcher     downloader.Fetcher
	Inspector   StreamInspector
	Mirror      storage.ArtifactStore
	Locker      lock.Locker
	Pool        *worker.Pool
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
}

// Options tune behaviour that does not come from collaborators.
type Options struct {
	Canvas         subtitle.ScriptOptions
	MaxUploadBytes int64
}

// Orchestrator implements the caption pipeline.
type Orchestrator struct {
	store       repository.Store
	layout      *storage.Layout
	transcriber api.Transcriber
	encoder     encoder.Encoder
	fetcher     downloader.Fetcher
	inspector   StreamInspector
	mirror      storage.ArtifactStore
	locker      lock.Locker
	pool        *worker.Pool
	metrics     *metrics.Metrics
	logger      *zap.Logger
	opts        Options
	newID       func() string
}

// New creates an Orchestrator. A nil Locker defaults to an in-process keyed
// mutex and a nil Pool to a single slot.
func New(d Deps, opts Options) *Orchestrator {
	if d.Locker == nil {
		d.Locker = lock.NewKeyedMutex()
	}
	if d.Pool == nil {
		d.Pool = worker.NewPool(1)
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if opts.Canvas.Width == 0 || opts.Canvas.Height == 0 {
		opts.Canvas = subtitle.DefaultScriptOptions()
	}
	return &Orchestrator{
		store:       d.Store,
		layout:      d.Layout,
		transcriber: d.Transcriber,
		encoder:     d.Encoder,
		fetcher:     d.Fetcher,
		inspector:   d.Inspector,
		mirror:      d.Mirror,
		locker:      d.Locker,
		pool:        d.Pool,
		metrics:     d.Metrics,
		logger:      d.Logger,
		opts:        opts,
		newID:       uuid.NewString,
	}
}

// withMediaLock runs fn while holding the write lock of one media id.
func (o *Orchestrator) withMediaLock(ctx context.Context, mediaID string, fn func() error) error {
	unlock, err := o.locker.Lock(ctx, "media:"+mediaID)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

// observe times one stage, logs its outcome and feeds the metrics.
func (o *Orchestrator) observe(stage, mediaID string, start time.Time, err error) {
	o.metrics.ObserveStage(stage, start, err)
	fields := []zap.Field{
		zap.String("stage", stage),
		zap.String("media_id", mediaID),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		o.logger.Error("stage failed", append(fields, zap.Error(err))...)
		return
	}
	o.logger.Info("stage completed", fields...)
}

// stageError wraps err with the stage and media id, keeping the kind of an
// already classified error and using fallback otherwise.
func stageError(err error, fallback apperrors.Kind, stage, mediaID, msg string) error {
	if err == nil {
		return nil
	}
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindUnknown {
		kind = fallback
	}
	return apperrors.Wrap(err, kind, msg).WithStage(stage).WithMedia(mediaID)
}

// GetMedia returns one media record.
func (o *Orchestrator) GetMedia(ctx context.Context, id string) (*model.Media, error) {
	return o.store.GetMedia(ctx, id)
}

// ListMedia returns every media record.
func (o *Orchestrator) ListMedia(ctx context.Context) ([]model.Media, error) {
	return o.store.ListMedia(ctx)
}

// ActiveTranscript returns the transcript render would use for mediaID.
func (o *Orchestrator) ActiveTranscript(ctx context.Context, mediaID string) (*model.Transcript, error) {
	return o.store.GetActiveTranscript(ctx, mediaID)
}

// ListRenderAttempts returns the audit log, optionally for one media.
func (o *Orchestrator) ListRenderAttempts(ctx context.Context, mediaID string) ([]model.RenderAttempt, error) {
	if mediaID != "" {
		if _, err := o.store.GetMedia(ctx, mediaID); err != nil {
			return nil, err
		}
	}
	return o.store.ListRenderAttempts(ctx, mediaID)
}

// GetJob returns one pipeline job.
func (o *Orchestrator) GetJob(ctx context.Context, id string) (*model.PipelineJob, error) {
	return o.store.GetJob(ctx, id)
}
