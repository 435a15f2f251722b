package orchestrator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"opencaption/internal/app/encoder"
	apperrors "opencaption/internal/app/errors"
	"opencaption/internal/app/model"
	"opencaption/internal/app/storage"
	"opencaption/internal/app/style"
	"opencaption/internal/app/subtitle"
)

// RenderRequest selects what to render. An empty StyleID means the default
// style; an empty Resolution keeps the source size.
type RenderRequest struct {
	MediaID    string
	StyleID    string
	Resolution string
	SRTOnly    bool
}

// RenderResult points at the produced file. Attempt is nil for SRTOnly.
type RenderResult struct {
	Path        string
	ContentType string
	Attempt     *model.RenderAttempt
}

// ComposeScript writes the styled subtitle script for the media's active
// transcript and returns its path.
func (o *Orchestrator) ComposeScript(ctx context.Context, mediaID, styleID string) (path string, err error) {
	start := time.Now()
	defer func() { o.observe(StageCompose, mediaID, start, err) }()

	t, err := o.store.GetActiveTranscript(ctx, mediaID)
	if err != nil {
		return "", err
	}
	s, err := style.Resolve(styleID)
	if err != nil {
		return "", err
	}
	return o.writeScript(t, s)
}

func (o *Orchestrator) writeScript(t *model.Transcript, s style.Style) (string, error) {
	script, err := subtitle.ComposeStyledScript(t, s, o.opts.Canvas)
	if err != nil {
		return "", err
	}
	path := o.layout.ScriptPath(t.MediaID)
	if err := storage.WriteFileAtomic(path, []byte(script)); err != nil {
		return "", err
	}
	return path, nil
}

// Render produces either the plain subtitle track (SRTOnly) or a video with
// the styled captions burned in. Every non-SRTOnly call that finds its media
// and transcript appends exactly one RenderAttempt, success or failure.
func (o *Orchestrator) Render(ctx context.Context, req RenderRequest) (res *RenderResult, err error) {
	start := time.Now()
	defer func() { o.observe(StageRender, req.MediaID, start, err) }()

	media, err := o.store.GetMedia(ctx, req.MediaID)
	if err != nil {
		return nil, err
	}

	err = o.withMediaLock(ctx, media.ID, func() error {
		t, err := o.store.GetActiveTranscript(ctx, media.ID)
		if err != nil {
			return err
		}
		if req.SRTOnly {
			res, err = o.plainTrack(t)
			return err
		}
		res, err = o.burnIn(ctx, media, t, req)
		return err
	})
	if err != nil {
		return nil, stageError(err, apperrors.KindEncoding, StageRender, req.MediaID, "render failed")
	}
	return res, nil
}

// plainTrack returns the .srt path, writing it first when it is missing.
func (o *Orchestrator) plainTrack(t *model.Transcript) (*RenderResult, error) {
	path := o.layout.SRTPath(t.MediaID)
	if !storage.FileExists(path) {
		srt, err := subtitle.ComposePlainTrack(t)
		if err != nil {
			return nil, err
		}
		if err := storage.WriteFileAtomic(path, []byte(srt)); err != nil {
			return nil, err
		}
	}
	return &RenderResult{Path: path, ContentType: "application/x-subrip"}, nil
}

func (o *Orchestrator) burnIn(ctx context.Context, media *model.Media, t *model.Transcript, req RenderRequest) (*RenderResult, error) {
	styleID := req.StyleID
	if styleID == "" {
		styleID = style.Default().ID
	}
	attempt := &model.RenderAttempt{
		MediaID:    media.ID,
		StyleID:    styleID,
		OutputPath: o.layout.RenderPath(media.ID, styleID),
	}
	if req.Resolution != "" {
		resolution := req.Resolution
		attempt.Resolution = &resolution
	}

	renderErr := o.encode(ctx, media, t, attempt, req.Resolution)
	attempt.Success = renderErr == nil
	if renderErr != nil {
		msg := renderErr.Error()
		if detail := apperrors.DetailOf(renderErr); detail != "" {
			msg += "\n" + detail
		}
		attempt.Error = &msg
	}

	// The attempt is recorded even when the caller has gone away.
	if err := o.store.AppendRenderAttempt(context.WithoutCancel(ctx), attempt); err != nil {
		e := apperrors.Persistence(err, "record render attempt").WithMedia(media.ID).WithStage(StageRender)
		if renderErr != nil {
			e = e.WithDetail(renderErr.Error())
		}
		return nil, e
	}
	o.metrics.RenderAttempt(attempt.Success)

	if renderErr != nil {
		return nil, renderErr
	}
	return &RenderResult{Path: attempt.OutputPath, ContentType: "video/mp4", Attempt: attempt}, nil
}

// encode composes the script, runs the encoder and mirrors the output.
func (o *Orchestrator) encode(ctx context.Context, media *model.Media, t *model.Transcript, attempt *model.RenderAttempt, resolution string) error {
	s, err := style.Resolve(attempt.StyleID)
	if err != nil {
		return err
	}
	if resolution != "" {
		if _, _, err := encoder.ParseResolution(resolution); err != nil {
			return err
		}
	}
	if !storage.FileExists(media.Path) {
		return apperrors.NotFound("media file", media.Path)
	}
	scriptPath, err := o.writeScript(t, s)
	if err != nil {
		return err
	}

	err = o.pool.Do(ctx, func(ctx context.Context) error {
		return o.encoder.BurnIn(ctx, encoder.BurnInRequest{
			MediaPath:  media.Path,
			ScriptPath: scriptPath,
			OutputPath: attempt.OutputPath,
			Resolution: resolution,
		})
	})
	if err != nil {
		return err
	}

	if o.mirror != nil {
		url, err := o.mirror.Put(ctx, storage.RenderKey(media.ID, s.ID), attempt.OutputPath, "video/mp4",
			map[string]string{"media-id": media.ID, "style-id": s.ID})
		if err != nil {
			o.logger.Warn("failed to mirror render", zap.String("media_id", media.ID), zap.Error(err))
		} else {
			attempt.ArtifactURL = &url
		}
	}
	return nil
}
