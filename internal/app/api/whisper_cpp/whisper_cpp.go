package whisper_cpp

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"opencaption/internal/app/api"
	apperrors "opencaption/internal/app/errors"
	"opencaption/internal/app/model"
)

// WavConverter produces the 16kHz mono WAV whisper.cpp expects.
type WavConverter func(ctx context.Context, inputPath, outDir string) (string, error)

// LocalTranscriber implements local transcription, using local binary commands.
type LocalTranscriber struct {
	binaryPath string
	modelPath  string
	convert    WavConverter
	logger     *zap.Logger
}

var _ api.Transcriber = (*LocalTranscriber)(nil)

// NewLocalTranscriber creates a new instance of LocalTranscriber. convert may
// be nil when inputs are already 16kHz WAV files.
func NewLocalTranscriber(binaryPath, modelPath string, convert WavConverter, logger *zap.Logger) *LocalTranscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalTranscriber{
		binaryPath: binaryPath,
		modelPath:  modelPath,
		convert:    convert,
		logger:     logger,
	}
}

// Transcribe runs the whisper.cpp binary with full JSON output and converts
// its token stream into segments with word timings.
func (lt *LocalTranscriber) Transcribe(ctx context.Context, mediaPath string, language string) (*model.Transcript, error) {
	tmpDir, err := os.MkdirTemp("", "opencaption-whisper-*")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindTranscription, "create temp dir")
	}
	defer os.RemoveAll(tmpDir)

	inputPath := mediaPath
	if lt.convert != nil {
		inputPath, err = lt.convert(ctx, mediaPath, tmpDir)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.KindTranscription, "convert to 16kHz wav")
		}
	}

	if language == "" {
		language = "auto"
	}
	outputPrefix := filepath.Join(tmpDir, "out")
	args := []string{
		"-m", lt.modelPath,
		"-f", inputPath,
		"-l", language,
		"-ojf",
		"-of", outputPrefix,
	}

	command := exec.CommandContext(ctx, lt.binaryPath, args...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	lt.logger.Info("running whisper.cpp", zap.String("binary", lt.binaryPath), zap.Strings("args", args))
	if err := command.Run(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindTranscription, "whisper.cpp execution failed").
			WithDetail(strings.TrimSpace(stderr.String()))
	}

	data, err := os.ReadFile(outputPrefix + ".json")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindTranscription, "read whisper.cpp output")
	}
	return ParseFullJSON(data)
}

type fullOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets offsets `json:"offsets"`
		Text    string  `json:"text"`
		Tokens  []struct {
			Text    string  `json:"text"`
			Offsets offsets `json:"offsets"`
		} `json:"tokens"`
	} `json:"transcription"`
}

type offsets struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

func ms(v int64) float64 { return float64(v) / 1000 }

// ParseFullJSON converts whisper.cpp "-ojf" output into a transcript.
// Special tokens such as [_BEG_] are skipped, and a token starting with a
// space opens a new word.
func ParseFullJSON(data []byte) (*model.Transcript, error) {
	var out fullOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindTranscription, "decode whisper.cpp output")
	}

	t := &model.Transcript{Language: out.Result.Language, Segments: []model.Segment{}}
	for _, entry := range out.Transcription {
		seg := model.Segment{
			Start: ms(entry.Offsets.From),
			End:   ms(entry.Offsets.To),
			Text:  strings.TrimSpace(entry.Text),
		}

		var words []model.Word
		for _, tok := range entry.Tokens {
			if strings.HasPrefix(tok.Text, "[_") || tok.Text == "" {
				continue
			}
			if len(words) == 0 || strings.HasPrefix(tok.Text, " ") {
				words = append(words, model.Word{
					Start: ms(tok.Offsets.From),
					End:   ms(tok.Offsets.To),
					Text:  strings.TrimSpace(tok.Text),
				})
				continue
			}
			last := &words[len(words)-1]
			last.Text += tok.Text
			last.End = ms(tok.Offsets.To)
		}
		seg.Words = words
		t.Segments = append(t.Segments, seg)
	}
	t.Normalize()
	return t, nil
}
