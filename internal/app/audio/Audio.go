package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"opencaption/internal/app/model"
)

// Extractor pulls the audio track out of a video so it can be handed to a
// transcriber.
type Extractor struct {
	FFmpegPath  string
	FFprobePath string
}

// NewExtractor creates an Extractor; empty paths fall back to ffmpeg/ffprobe on PATH.
func NewExtractor(ffmpegPath, ffprobePath string) *Extractor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Extractor{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath}
}

// Is16kHzWavFile reports whether the file already is 16kHz PCM WAV, the
// input format whisper.cpp expects.
func (e *Extractor) Is16kHzWavFile(ctx context.Context, filePath string) (bool, error) {
	cmd := exec.CommandContext(ctx, e.FFprobePath, "-v", "quiet", "-print_format", "json", "-show_streams", filePath)
	output, err := cmd.Output()
	if err != nil {
		return false, err
	}

	var streamInfo struct {
		Streams []struct {
			CodecType  string `json:"codec_type"`
			CodecName  string `json:"codec_name"`
			SampleRate int    `json:"sample_rate,string"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(output, &streamInfo); err != nil {
		return false, err
	}

	for _, stream := range streamInfo.Streams {
		if stream.CodecType == "audio" && stream.CodecName == "pcm_s16le" && stream.SampleRate == 16000 {
			return true, nil
		}
	}
	return false, nil
}

// ConvertTo16kHzWav writes a mono 16kHz WAV next to outDir and returns its path.
func (e *Extractor) ConvertTo16kHzWav(ctx context.Context, inputPath, outDir string) (string, error) {
	outputPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))+"_16khz.wav")
	if err := e.run(ctx, "-y", "-i", inputPath, "-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

// ConvertToMp3 writes the audio track as MP3 into outDir and returns its path.
func (e *Extractor) ConvertToMp3(ctx context.Context, inputPath, outDir string) (string, error) {
	outputPath := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))+".mp3")
	if _, err := os.Stat(outputPath); err == nil {
		return outputPath, nil
	}
	if err := e.run(ctx, "-y", "-i", inputPath, "-vn", "-acodec", "libmp3lame", "-q:a", "4", outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

func (e *Extractor) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, e.FFmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("FFmpeg error: %v, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Inspect returns ffprobe's stream and format information for a media file.
func (e *Extractor) Inspect(ctx context.Context, filePath string) (*model.FFProbeOutput, error) {
	cmd := exec.CommandContext(ctx, e.FFprobePath, "-v", "error", "-print_format", "json", "-show_streams", "-show_format", filePath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe error: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	var info model.FFProbeOutput
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("decode ffprobe output: %w", err)
	}
	return &info, nil
}

// HasVideoStream reports whether ffprobe found at least one video stream.
func HasVideoStream(p *model.FFProbeOutput) bool {
	for _, s := range p.Streams {
		if s.CodecType == "video" {
			return true
		}
	}
	return false
}
