package downloader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "opencaption/internal/app/errors"
)

type stubFetcher struct {
	calls []string
}

func (s *stubFetcher) Fetch(ctx context.Context, rawURL, destDir, baseName string) (*Fetched, error) {
	s.calls = append(s.calls, rawURL)
	return &Fetched{Path: filepath.Join(destDir, baseName+".mp4")}, nil
}

func TestRouter_Dispatch(t *testing.T) {
	yt, web := &stubFetcher{}, &stubFetcher{}
	r := NewRouter(yt, web)

	_, err := r.Fetch(context.Background(), "https://www.youtube.com/watch?v=abc", "/tmp", "m1")
	require.NoError(t, err)
	_, err = r.Fetch(context.Background(), "https://youtu.be/abc", "/tmp", "m2")
	require.NoError(t, err)
	_, err = r.Fetch(context.Background(), "https://cdn.example.com/v.mp4", "/tmp", "m3")
	require.NoError(t, err)

	assert.Len(t, yt.calls, 2)
	assert.Equal(t, []string{"https://cdn.example.com/v.mp4"}, web.calls)
}

func TestParseSourceURL(t *testing.T) {
	for _, bad := range []string{"", "ftp://host/file", "/local/path.mp4", "https://"} {
		_, err := ParseSourceURL(bad)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "url %q", bad)
	}
	u, err := ParseSourceURL("  https://example.com/a.mp4 ")
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)
}

func TestExtensionFor(t *testing.T) {
	u, _ := url.Parse("https://x/clip.MOV")
	assert.Equal(t, ".mov", extensionFor(u, ""))

	u, _ = url.Parse("https://x/stream")
	assert.Equal(t, ".webm", extensionFor(u, "video/webm; codecs=vp9"))
	assert.Equal(t, ".mp4", extensionFor(u, "application/octet-stream"))
}

func newVideoServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/clip.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Write([]byte("fake mp4 payload"))
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head>
<meta property="og:title" content="My Clip">
<meta property="og:video" content="/clip.mp4">
</head><body></body></html>`))
	})
	mux.HandleFunc("/video-tag", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><title>Tagged</title><body><video><source src="clip.mp4" type="video/mp4"></video></body></html>`))
	})
	mux.HandleFunc("/empty-page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body>nothing here</body></html>`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestHTTPFetcher_DirectLink(t *testing.T) {
	server := newVideoServer(t)
	dir := t.TempDir()

	got, err := NewHTTPFetcher(server.Client(), nil, 0, nil).Fetch(context.Background(), server.URL+"/clip.mp4", dir, "m1")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "m1.mp4"), got.Path)
	assert.Equal(t, "clip.mp4", got.Title)
	data, err := os.ReadFile(got.Path)
	require.NoError(t, err)
	assert.Equal(t, "fake mp4 payload", string(data))
}

func TestHTTPFetcher_ResolvesPage(t *testing.T) {
	server := newVideoServer(t)
	f := NewHTTPFetcher(server.Client(), nil, 0, nil)

	got, err := f.Fetch(context.Background(), server.URL+"/page", t.TempDir(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "My Clip", got.Title)
	assert.EqualValues(t, len("fake mp4 payload"), got.Size)

	got, err = f.Fetch(context.Background(), server.URL+"/video-tag", t.TempDir(), "m2")
	require.NoError(t, err)
	assert.Equal(t, "Tagged", got.Title)
}

func TestHTTPFetcher_Failures(t *testing.T) {
	server := newVideoServer(t)
	dir := t.TempDir()

	_, err := NewHTTPFetcher(server.Client(), nil, 0, nil).Fetch(context.Background(), server.URL+"/missing", dir, "m1")
	assert.True(t, errors.Is(err, apperrors.ErrIngest))

	_, err = NewHTTPFetcher(server.Client(), nil, 0, nil).Fetch(context.Background(), server.URL+"/empty-page", dir, "m2")
	assert.True(t, errors.Is(err, apperrors.ErrIngest))

	_, err = NewHTTPFetcher(server.Client(), nil, 4, nil).Fetch(context.Background(), server.URL+"/clip.mp4", dir, "m3")
	assert.True(t, errors.Is(err, apperrors.ErrIngest))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed downloads must not leave files behind")
}

func TestBestMuxedFormat(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, AudioChannels: 2, Bitrate: 130000},
		{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`, Width: 1920, Bitrate: 4000000},
		{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Width: 640, AudioChannels: 2, Bitrate: 500000},
		{ItagNo: 22, MimeType: `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, Width: 1280, AudioChannels: 2, Bitrate: 1200000},
		{ItagNo: 43, MimeType: `video/webm; codecs="vp8.0, vorbis"`, Width: 640, AudioChannels: 2, Bitrate: 9000000},
	}

	best, ok := bestMuxedFormat(formats)
	require.True(t, ok)
	assert.Equal(t, 22, best.ItagNo)

	_, ok = bestMuxedFormat(formats[:2])
	assert.False(t, ok)
}
