package orchestrator

import (
	"context"
	"time"

	apperrors "opencaption/internal/app/errors"
	"opencaption/internal/app/model"
	"opencaption/internal/app/storage"
	"opencaption/internal/app/subtitle"
)

// Transcribe runs the transcriber on the media file, persists the result as
// a new transcript, promotes it and writes the .srt and .json artifacts.
func (o *Orchestrator) Transcribe(ctx context.Context, mediaID, language string) (t *model.Transcript, err error) {
	start := time.Now()
	defer func() { o.observe(StageTranscribe, mediaID, start, err) }()

	media, err := o.store.GetMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if !storage.FileExists(media.Path) {
		return nil, apperrors.NotFound("media file", media.Path).WithMedia(mediaID).WithStage(StageTranscribe)
	}

	err = o.pool.Do(ctx, func(ctx context.Context) error {
		var err error
		t, err = o.transcriber.Transcribe(ctx, media.Path, language)
		return err
	})
	if err != nil {
		return nil, stageError(err, apperrors.KindTranscription, StageTranscribe, mediaID, "transcription failed")
	}
	if t == nil {
		return nil, apperrors.New(apperrors.KindTranscription, "transcriber returned no transcript").
			WithMedia(mediaID).WithStage(StageTranscribe)
	}

	t.MediaID = mediaID
	if t.Language == "" {
		t.Language = language
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindTranscription, "transcriber returned an invalid transcript").
			WithMedia(mediaID).WithStage(StageTranscribe)
	}

	err = o.withMediaLock(ctx, mediaID, func() error {
		return o.saveRevision(ctx, t)
	})
	if err != nil {
		return nil, stageError(err, apperrors.KindPersistence, StageTranscribe, mediaID, "persist transcript")
	}
	return t, nil
}

// saveRevision stores t as the new active transcript and refreshes the
// plain track and snapshot artifacts. Callers hold the media lock.
func (o *Orchestrator) saveRevision(ctx context.Context, t *model.Transcript) error {
	if err := o.store.SaveTranscript(ctx, t, true); err != nil {
		return err
	}
	return o.writeTranscriptArtifacts(t)
}

func (o *Orchestrator) writeTranscriptArtifacts(t *model.Transcript) error {
	srt, err := subtitle.ComposePlainTrack(t)
	if err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(o.layout.SRTPath(t.MediaID), []byte(srt)); err != nil {
		return err
	}
	snapshot, err := t.MarshalSnapshot()
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindPersistence, "encode transcript snapshot")
	}
	return storage.WriteFileAtomic(o.layout.SnapshotPath(t.MediaID), snapshot)
}
