package orchestrator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"opencaption/internal/app/model"
	"opencaption/internal/app/style"
	"opencaption/internal/downloader"
)

// PipelineRequest describes a URL-sourced ingest → transcribe → render run.
type PipelineRequest struct {
	URL        string
	StyleID    string
	Language   string
	Resolution string
}

// RunPipeline records a job and drives it to the rendered stage. Completed
// stages are never rolled back; on failure the job is returned together with
// the error so it can be resumed with ResumeJob.
func (o *Orchestrator) RunPipeline(ctx context.Context, req PipelineRequest) (*model.PipelineJob, error) {
	if _, err := downloader.ParseSourceURL(req.URL); err != nil {
		return nil, err
	}
	s, err := style.Resolve(req.StyleID)
	if err != nil {
		return nil, err
	}

	job := &model.PipelineJob{
		ID:         o.newID(),
		SourceURL:  req.URL,
		StyleID:    s.ID,
		Language:   req.Language,
		Resolution: req.Resolution,
		Stage:      model.StageNone,
		Status:     model.JobRunning,
	}
	if err := o.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	o.logger.Info("pipeline job created", zap.String("job_id", job.ID), zap.String("url", req.URL))

	unlock, err := o.locker.Lock(ctx, "job:"+job.ID)
	if err != nil {
		return o.failJob(job, nextStage(job.Stage), err)
	}
	defer unlock()
	return o.advance(ctx, job)
}

// ResumeJob continues a job from the stage after its last completed one.
// Resuming a succeeded job is a no-op.
func (o *Orchestrator) ResumeJob(ctx context.Context, jobID string) (*model.PipelineJob, error) {
	unlock, err := o.locker.Lock(ctx, "job:"+jobID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	job, err := o.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == model.JobSucceeded {
		return job, nil
	}
	job.Status = model.JobRunning
	job.FailedStage = ""
	job.Error = ""
	if err := o.store.UpdateJob(ctx, job); err != nil {
		return job, err
	}
	o.logger.Info("resuming pipeline job", zap.String("job_id", job.ID), zap.String("stage", string(job.Stage)))
	return o.advance(ctx, job)
}

// advance runs the remaining stages, checkpointing the job after each one.
// The context is only checked between stages.
func (o *Orchestrator) advance(ctx context.Context, job *model.PipelineJob) (*model.PipelineJob, error) {
	for !job.Stage.Reached(model.StageRendered) {
		if err := ctx.Err(); err != nil {
			return o.failJob(job, nextStage(job.Stage), err)
		}

		next := nextStage(job.Stage)
		var err error
		switch next {
		case model.StageIngested:
			var media *model.Media
			media, err = o.Ingest(ctx, Source{URL: job.SourceURL})
			if err == nil {
				job.MediaID = &media.ID
			}
		case model.StageTranscribed:
			_, err = o.Transcribe(ctx, *job.MediaID, job.Language)
		case model.StageComposed:
			_, err = o.ComposeScript(ctx, *job.MediaID, job.StyleID)
		case model.StageRendered:
			var res *RenderResult
			res, err = o.Render(ctx, RenderRequest{MediaID: *job.MediaID, StyleID: job.StyleID, Resolution: job.Resolution})
			if err == nil {
				job.OutputPath = res.Path
			}
		}
		if err != nil {
			return o.failJob(job, next, err)
		}

		job.Stage = next
		if next == model.StageRendered {
			now := time.Now().UTC()
			job.Status = model.JobSucceeded
			job.CompletedAt = &now
		}
		if err := o.store.UpdateJob(context.WithoutCancel(ctx), job); err != nil {
			return job, err
		}
	}
	return job, nil
}

func nextStage(s model.Stage) model.Stage {
	switch s {
	case model.StageNone:
		return model.StageIngested
	case model.StageIngested:
		return model.StageTranscribed
	case model.StageTranscribed:
		return model.StageComposed
	default:
		return model.StageRendered
	}
}

// failJob records the failure and returns the job alongside cause.
func (o *Orchestrator) failJob(job *model.PipelineJob, stage model.Stage, cause error) (*model.PipelineJob, error) {
	job.Status = model.JobFailed
	job.FailedStage = string(stage)
	job.Error = cause.Error()
	// the job record must be written even when ctx was cancelled
	if err := o.store.UpdateJob(context.Background(), job); err != nil {
		o.logger.Error("failed to record job failure", zap.String("job_id", job.ID), zap.Error(err))
	}
	return job, cause
}
