package api

import (
	"context"

	"opencaption/internal/app/model"
)

// Transcriber converts a media file into a time-aligned transcript.
// Implementations must return an error rather than an empty transcript when
// the underlying engine fails.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string, language string) (*model.Transcript, error)
}

// TranscriberFunc adapts a function to the Transcriber interface.
type TranscriberFunc func(ctx context.Context, mediaPath string, language string) (*model.Transcript, error)

// Transcribe calls f.
func (f TranscriberFunc) Transcribe(ctx context.Context, mediaPath string, language string) (*model.Transcript, error) {
	return f(ctx, mediaPath, language)
}
