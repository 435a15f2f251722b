package audio

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opencaption/internal/app/model"
)

func TestNewExtractor_Defaults(t *testing.T) {
	e := NewExtractor("", "")
	assert.Equal(t, "ffmpeg", e.FFmpegPath)
	assert.Equal(t, "ffprobe", e.FFprobePath)

	e = NewExtractor("/opt/ffmpeg", "/opt/ffprobe")
	assert.Equal(t, "/opt/ffmpeg", e.FFmpegPath)
}

func TestHasVideoStream(t *testing.T) {
	var p model.FFProbeOutput
	assert.False(t, HasVideoStream(&p))

	raw := `{"streams":[{"codec_type":"audio","codec_name":"aac"},{"codec_type":"video","codec_name":"h264","width":1080,"height":1920}],"format":{"duration":"12.5"}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.True(t, HasVideoStream(&p))
	assert.Equal(t, 1920, p.Streams[1].Height)
	assert.Equal(t, "12.5", p.Format.Duration)
}

func TestConvertToMp3_SkipsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "clip.mp3")
	require.NoError(t, os.WriteFile(existing, []byte("mp3"), 0o644))

	e := NewExtractor("/nonexistent/ffmpeg", "")
	got, err := e.ConvertToMp3(context.Background(), "/videos/clip.mp4", dir)
	require.NoError(t, err)
	assert.Equal(t, existing, got)
}

func TestRun_ReportsMissingBinary(t *testing.T) {
	e := NewExtractor(filepath.Join(t.TempDir(), "missing-ffmpeg"), "")
	_, err := e.ConvertTo16kHzWav(context.Background(), "in.mp4", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FFmpeg error")
}
