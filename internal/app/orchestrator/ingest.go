package orchestrator

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"opencaption/internal/app/audio"
	apperrors "opencaption/internal/app/errors"
	"opencaption/internal/app/model"
)

// Source is what Ingest consumes: either an uploaded stream or a URL.
type Source struct {
	Reader       io.Reader
	OriginalName string
	URL          string
}

// Ingest stores a new media file and its record. Either both the file and
// the row exist afterwards or neither does.
func (o *Orchestrator) Ingest(ctx context.Context, src Source) (media *model.Media, err error) {
	if (src.Reader == nil) == (src.URL == "") {
		return nil, apperrors.New(apperrors.KindInvalidInput, "exactly one of upload or url is required")
	}
	id := o.newID()
	start := time.Now()
	defer func() { o.observe(StageIngest, id, start, err) }()

	var (
		path     string
		source   model.MediaSource
		original *string
	)
	if src.Reader != nil {
		name := filepath.Base(strings.TrimSpace(src.OriginalName))
		if name == "." || name == string(filepath.Separator) {
			name = ""
		}
		ext := filepath.Ext(name)
		if ext == "" {
			ext = ".mp4"
		}
		path = o.layout.MediaPath(id, ext)
		if err := o.writeUpload(src.Reader, path); err != nil {
			return nil, stageError(err, apperrors.KindIngest, StageIngest, id, "store upload")
		}
		source = model.SourceUpload
		if name != "" {
			original = &name
		}
	} else {
		err := o.pool.Do(ctx, func(ctx context.Context) error {
			fetched, err := o.fetcher.Fetch(ctx, src.URL, o.layout.MediaDir(), id)
			if err != nil {
				return err
			}
			path = fetched.Path
			if fetched.Title != "" {
				title := fetched.Title
				original = &title
			}
			return nil
		})
		if err != nil {
			return nil, stageError(err, apperrors.KindIngest, StageIngest, id, "fetch "+src.URL)
		}
		source = model.SourceRemoteFetch
	}

	if err := o.checkStreams(ctx, path); err != nil {
		o.removeOrphan(path)
		return nil, stageError(err, apperrors.KindIngest, StageIngest, id, "inspect media")
	}

	media = &model.Media{ID: id, Source: source, OriginalName: original, Path: path}
	if err := o.store.CreateMedia(ctx, media); err != nil {
		o.removeOrphan(path)
		return nil, stageError(err, apperrors.KindPersistence, StageIngest, id, "record media")
	}
	return media, nil
}

// checkStreams rejects files ffprobe cannot read or that carry no video
// stream. An inspector that fails to start is an ingest failure, not bad input.
func (o *Orchestrator) checkStreams(ctx context.Context, path string) error {
	if o.inspector == nil {
		return nil
	}
	info, err := o.inspector.Inspect(ctx, path)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return apperrors.Wrap(err, apperrors.KindInvalidInput, "file is not readable media")
		}
		return apperrors.Wrap(err, apperrors.KindIngest, "run ffprobe")
	}
	if !audio.HasVideoStream(info) {
		return apperrors.New(apperrors.KindInvalidInput, "file has no video stream")
	}
	return nil
}

func (o *Orchestrator) removeOrphan(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		o.logger.Warn("failed to remove orphaned media file", zap.String("path", path), zap.Error(err))
	}
}

func (o *Orchestrator) writeUpload(r io.Reader, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindIngest, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if o.opts.MaxUploadBytes > 0 {
		r = io.LimitReader(r, o.opts.MaxUploadBytes+1)
	}
	n, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindIngest, "write upload")
	}
	if n == 0 {
		return apperrors.New(apperrors.KindInvalidInput, "upload is empty")
	}
	if o.opts.MaxUploadBytes > 0 && n > o.opts.MaxUploadBytes {
		return apperrors.Newf(apperrors.KindInvalidInput, "upload exceeds %d bytes", o.opts.MaxUploadBytes)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperrors.Wrap(err, apperrors.KindIngest, "move upload into place")
	}
	return nil
}
