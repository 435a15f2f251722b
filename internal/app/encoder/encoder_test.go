package encoder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "opencaption/internal/app/errors"
)

func TestVideoFilter(t *testing.T) {
	tests := []struct {
		name       string
		script     string
		resolution string
		expected   string
		wantErr    error
	}{
		{"no_scale", "/data/captions/m1.ass", "", "ass='/data/captions/m1.ass'", nil},
		{"with_scale", "/data/captions/m1.ass", "720x1280", "scale=720:1280,ass='/data/captions/m1.ass'", nil},
		{"escapes_colon_and_quote", "/data/it's:here.ass", "", `ass='/data/it'\''s\:here.ass'`, nil},
		{"colon_resolution", "/a.ass", "720:1280", "scale=720:1280,ass='/a.ass'", nil},
		{"bad_resolution", "/a.ass", "720p", "", apperrors.ErrInvalidInput},
		{"zero_resolution", "/a.ass", "0x1280", "", apperrors.ErrInvalidInput},
		{"missing_script", "", "", "", apperrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VideoFilter(tt.script, tt.resolution)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFFmpegEncoder_Args(t *testing.T) {
	e := NewFFmpegEncoder("", nil)
	args, err := e.Args(BurnInRequest{
		MediaPath:  "in.mp4",
		ScriptPath: "c.ass",
		OutputPath: "out.mp4",
		Resolution: "1080x1920",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"-y", "-i", "in.mp4",
		"-vf", "scale=1080:1920,ass='c.ass'",
		"-c:v", "libx264", "-crf", "18", "-preset", "veryfast",
		"-c:a", "copy", "out.mp4",
	}, args)
}

func TestFFmpegEncoder_WithQuality(t *testing.T) {
	e := NewFFmpegEncoder("", nil).WithQuality(23, "slow")
	args, err := e.Args(BurnInRequest{MediaPath: "in.mp4", ScriptPath: "c.ass", OutputPath: "out.mp4"})
	require.NoError(t, err)
	assert.Contains(t, strings.Join(args, " "), "-crf 23 -preset slow")

	e = NewFFmpegEncoder("", nil).WithQuality(0, "")
	args, err = e.Args(BurnInRequest{MediaPath: "in.mp4", ScriptPath: "c.ass", OutputPath: "out.mp4"})
	require.NoError(t, err)
	assert.Contains(t, strings.Join(args, " "), "-crf 18 -preset veryfast")
}

func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"+body), 0o755))
	return bin
}

func TestFFmpegEncoder_BurnIn(t *testing.T) {
	// the last argument is the output path
	bin := fakeFFmpeg(t, `for last; do :; done; echo video > "$last"`+"\n")
	out := filepath.Join(t.TempDir(), "renders", "m1_clean-pro.mp4")

	err := NewFFmpegEncoder(bin, nil).BurnIn(context.Background(), BurnInRequest{
		MediaPath: "in.mp4", ScriptPath: "c.ass", OutputPath: out,
	})
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestFFmpegEncoder_BurnInFailure(t *testing.T) {
	bin := fakeFFmpeg(t, "echo \"No such filter: 'ass'\" >&2\nexit 1\n")

	err := NewFFmpegEncoder(bin, nil).BurnIn(context.Background(), BurnInRequest{
		MediaPath: "in.mp4", ScriptPath: "c.ass", OutputPath: filepath.Join(t.TempDir(), "o.mp4"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrEncoding))
	assert.Contains(t, err.Error(), "code 1")
	assert.Equal(t, "No such filter: 'ass'", apperrors.DetailOf(err))
}

func TestTail(t *testing.T) {
	long := ""
	for i := 0; i < 10; i++ {
		long += fmt.Sprint(i)
	}
	assert.Equal(t, "789", tail(long, 3))
	assert.Equal(t, "abc", tail("  abc\n", 10))
}
