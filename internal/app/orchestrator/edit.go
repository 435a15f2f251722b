package orchestrator

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "opencaption/internal/app/errors"
	"opencaption/internal/app/model"
	"opencaption/internal/app/storage"
)

// UpdateTranscript saves edited segments as a new transcript revision and
// promotes it. An empty language keeps the language of the current
// transcript.
func (o *Orchestrator) UpdateTranscript(ctx context.Context, mediaID string, segments []model.Segment, language string) (*model.Transcript, error) {
	t := &model.Transcript{MediaID: mediaID, Language: language, Segments: segments}
	if t.Segments == nil {
		t.Segments = []model.Segment{}
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}

	err := o.withMediaLock(ctx, mediaID, func() error {
		if _, err := o.store.GetMedia(ctx, mediaID); err != nil {
			return err
		}
		if t.Language == "" {
			if current, err := o.store.GetActiveTranscript(ctx, mediaID); err == nil {
				t.Language = current.Language
			}
		}
		return o.saveRevision(ctx, t)
	})
	if err != nil {
		return nil, stageError(err, apperrors.KindPersistence, "edit", mediaID, "save transcript revision")
	}
	o.logger.Info("transcript revision saved", zap.String("media_id", mediaID), zap.Int64("transcript_id", t.ID))
	return t, nil
}

// ListTranscripts returns the transcript revisions of a media, newest first,
// without their segments.
func (o *Orchestrator) ListTranscripts(ctx context.Context, mediaID string) ([]model.Transcript, error) {
	if _, err := o.store.GetMedia(ctx, mediaID); err != nil {
		return nil, err
	}
	return o.store.ListTranscripts(ctx, mediaID)
}

// PromoteTranscript makes an earlier revision the active transcript again
// and rewrites the .srt and .json artifacts from it.
func (o *Orchestrator) PromoteTranscript(ctx context.Context, mediaID string, transcriptID int64) (*model.Transcript, error) {
	var t *model.Transcript
	err := o.withMediaLock(ctx, mediaID, func() error {
		if err := o.store.PromoteTranscript(ctx, mediaID, transcriptID); err != nil {
			return err
		}
		var err error
		if t, err = o.store.GetTranscript(ctx, transcriptID); err != nil {
			return err
		}
		return o.writeTranscriptArtifacts(t)
	})
	if err != nil {
		return nil, stageError(err, apperrors.KindPersistence, "edit", mediaID, "promote transcript")
	}
	o.logger.Info("transcript promoted", zap.String("media_id", mediaID), zap.Int64("transcript_id", transcriptID))
	return t, nil
}

// DeleteMedia removes the media record (cascading to transcripts, render
// attempts and jobs) and every file derived from it.
func (o *Orchestrator) DeleteMedia(ctx context.Context, mediaID string) error {
	return o.withMediaLock(ctx, mediaID, func() error {
		media, err := o.store.GetMedia(ctx, mediaID)
		if err != nil {
			return err
		}
		attempts, err := o.store.ListRenderAttempts(ctx, mediaID)
		if err != nil {
			return err
		}
		if err := o.store.DeleteMedia(ctx, mediaID); err != nil {
			return err
		}

		if err := o.layout.RemoveArtifacts(mediaID, media.Path); err != nil {
			o.logger.Warn("failed to remove media artifacts", zap.String("media_id", mediaID), zap.Error(err))
		}
		if o.mirror != nil {
			o.deleteMirrored(ctx, mediaID, attempts)
		}
		o.logger.Info("media deleted", zap.String("media_id", mediaID))
		return nil
	})
}

// deleteMirrored removes the mirrored object of every style that was
// uploaded. Failures are logged and otherwise ignored.
func (o *Orchestrator) deleteMirrored(ctx context.Context, mediaID string, attempts []model.RenderAttempt) {
	styles := lo.Uniq(lo.FilterMap(attempts, func(a model.RenderAttempt, _ int) (string, bool) {
		return a.StyleID, a.ArtifactURL != nil
	}))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, styleID := range styles {
		g.Go(func() error {
			key := storage.RenderKey(mediaID, styleID)
			if err := o.mirror.Delete(gctx, key); err != nil {
				o.logger.Warn("failed to delete mirrored render",
					zap.String("media_id", mediaID), zap.String("key", key), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}
