package whisper

import (
	"context"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"opencaption/internal/app/api"
	apperrors "opencaption/internal/app/errors"
	"opencaption/internal/app/model"
)

// AudioExtractor turns a video into an audio file small enough to upload.
type AudioExtractor func(ctx context.Context, inputPath, outDir string) (string, error)

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client  *openai.Client
	model   string
	extract AudioExtractor
	logger  *zap.Logger
}

var _ api.Transcriber = (*RemoteTranscriber)(nil)

// NewRemoteTranscriber creates a new RemoteTranscriber instance. extract may
// be nil, in which case the media file is uploaded as is.
func NewRemoteTranscriber(client *openai.Client, modelName string, extract AudioExtractor, logger *zap.Logger) *RemoteTranscriber {
	if modelName == "" {
		modelName = openai.Whisper1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteTranscriber{client: client, model: modelName, extract: extract, logger: logger}
}

// Transcribe uploads the media audio and requests segment and word timestamps.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, mediaPath string, language string) (*model.Transcript, error) {
	inputPath := mediaPath
	if rt.extract != nil {
		tmpDir, err := os.MkdirTemp("", "opencaption-openai-*")
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.KindTranscription, "create temp dir")
		}
		defer os.RemoveAll(tmpDir)

		inputPath, err = rt.extract(ctx, mediaPath, tmpDir)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.KindTranscription, "extract audio")
		}
	}

	req := openai.AudioRequest{
		Model:    rt.model,
		FilePath: inputPath,
		Language: language,
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
			openai.TranscriptionTimestampGranularityWord,
		},
	}
	rt.logger.Debug("requesting transcription", zap.String("file", inputPath), zap.String("model", rt.model))

	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindTranscription, "createTranscription failed")
	}
	return toTranscript(resp), nil
}

func toTranscript(resp openai.AudioResponse) *model.Transcript {
	t := &model.Transcript{
		Language: resp.Language,
		Segments: make([]model.Segment, 0, len(resp.Segments)),
	}
	for _, s := range resp.Segments {
		t.Segments = append(t.Segments, model.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
	}
	if len(t.Segments) == 0 && strings.TrimSpace(resp.Text) != "" {
		t.Segments = append(t.Segments, model.Segment{
			Start: 0,
			End:   resp.Duration,
			Text:  strings.TrimSpace(resp.Text),
		})
	}

	words := make([]model.Word, 0, len(resp.Words))
	for _, w := range resp.Words {
		words = append(words, model.Word{Start: w.Start, End: w.End, Text: w.Word})
	}
	api.AttachWords(t.Segments, words)
	return t
}
