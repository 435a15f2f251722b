// Package encoder burns a styled subtitle script into a video with ffmpeg.
package encoder

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	apperrors "opencaption/internal/app/errors"
)

// BurnInRequest describes one encode.
type BurnInRequest struct {
	MediaPath  string
	ScriptPath string
	OutputPath string
	// Resolution is optional, formatted as WIDTHxHEIGHT.
	Resolution string
}

// Encoder renders a subtitle script onto a video.
type Encoder interface {
	BurnIn(ctx context.Context, req BurnInRequest) error
}

var resolutionPattern = regexp.MustCompile(`^([1-9]\d{1,4})[x:]([1-9]\d{1,4})$`)

// ParseResolution splits WIDTHxHEIGHT (or WIDTH:HEIGHT) into its parts.
func ParseResolution(value string) (width, height string, err error) {
	m := resolutionPattern.FindStringSubmatch(value)
	if m == nil {
		return "", "", apperrors.InvalidField("resolution", "expected WIDTHxHEIGHT, got "+value)
	}
	return m[1], m[2], nil
}

// FFmpegEncoder shells out to the ffmpeg binary.
type FFmpegEncoder struct {
	binaryPath string
	crf        string
	preset     string
	logger     *zap.Logger
}

var _ Encoder = (*FFmpegEncoder)(nil)

// NewFFmpegEncoder creates an encoder. An empty binaryPath means "ffmpeg" on PATH.
func NewFFmpegEncoder(binaryPath string, logger *zap.Logger) *FFmpegEncoder {
	if binaryPath == "" {
		binaryPath = "ffmpeg"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FFmpegEncoder{binaryPath: binaryPath, crf: "18", preset: "veryfast", logger: logger}
}

// WithQuality overrides the x264 crf and preset. Zero values keep the
// defaults.
func (e *FFmpegEncoder) WithQuality(crf int, preset string) *FFmpegEncoder {
	if crf > 0 {
		e.crf = strconv.Itoa(crf)
	}
	if preset != "" {
		e.preset = preset
	}
	return e
}

// Args builds the ffmpeg argument list for req.
func (e *FFmpegEncoder) Args(req BurnInRequest) ([]string, error) {
	filter, err := VideoFilter(req.ScriptPath, req.Resolution)
	if err != nil {
		return nil, err
	}
	return []string{
		"-y",
		"-i", req.MediaPath,
		"-vf", filter,
		"-c:v", "libx264",
		"-crf", e.crf,
		"-preset", e.preset,
		"-c:a", "copy",
		req.OutputPath,
	}, nil
}

// BurnIn runs ffmpeg. A non-zero exit becomes an encoding error carrying the
// exit code and the tail of stderr.
func (e *FFmpegEncoder) BurnIn(ctx context.Context, req BurnInRequest) error {
	args, err := e.Args(req)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return apperrors.Wrap(err, apperrors.KindEncoding, "create output directory")
	}

	cmd := exec.CommandContext(ctx, e.binaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.logger.Info("running ffmpeg burn-in",
		zap.String("input", req.MediaPath),
		zap.String("script", req.ScriptPath),
		zap.String("output", req.OutputPath))

	if err := cmd.Run(); err != nil {
		msg := "ffmpeg burn-in failed"
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg = "ffmpeg exited with code " + strconv.Itoa(exitErr.ExitCode())
		}
		return apperrors.Wrap(err, apperrors.KindEncoding, msg).WithDetail(tail(stderr.String(), 2000))
	}
	return nil
}

// VideoFilter returns the -vf value: an optional scale step followed by the
// ass filter.
func VideoFilter(scriptPath, resolution string) (string, error) {
	if scriptPath == "" {
		return "", apperrors.RequiredField("script path")
	}
	ass := "ass='" + escapeFilterPath(scriptPath) + "'"
	if resolution == "" {
		return ass, nil
	}
	w, h, err := ParseResolution(resolution)
	if err != nil {
		return "", err
	}
	return "scale=" + w + ":" + h + "," + ass, nil
}

var filterEscaper = strings.NewReplacer(`\`, `\\`, `'`, `'\''`, `:`, `\:`)

func escapeFilterPath(path string) string {
	return filterEscaper.Replace(filepath.ToSlash(path))
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

