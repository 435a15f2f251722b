package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutPaths(t *testing.T) {
	l, err := NewLayout(t.TempDir())
	require.NoError(t, err)

	assert.DirExists(t, l.MediaDir())
	assert.DirExists(t, l.CaptionsDir())
	assert.DirExists(t, l.RendersDir())

	assert.Equal(t, filepath.Join(l.Root, "media", "m1.mp4"), l.MediaPath("m1", ".MP4"))
	assert.Equal(t, filepath.Join(l.Root, "media", "m1.mov"), l.MediaPath("m1", "mov"))
	assert.Equal(t, filepath.Join(l.Root, "captions", "m1.srt"), l.SRTPath("m1"))
	assert.Equal(t, filepath.Join(l.Root, "captions", "m1.json"), l.SnapshotPath("m1"))
	assert.Equal(t, filepath.Join(l.Root, "captions", "m1.ass"), l.ScriptPath("m1"))
	assert.Equal(t, filepath.Join(l.Root, "renders", "m1_clean-pro.mp4"), l.RenderPath("m1", "clean-pro"))
	assert.Equal(t, "renders/m1_clean-pro.mp4", RenderKey("m1", "clean-pro"))
}

func TestRemoveArtifacts(t *testing.T) {
	l, err := NewLayout(t.TempDir())
	require.NoError(t, err)

	media := l.MediaPath("m1", ".mp4")
	keep := l.RenderPath("m10", "clean-pro")
	for _, p := range []string{media, l.SRTPath("m1"), l.ScriptPath("m1"), l.RenderPath("m1", "clean-pro"), l.RenderPath("m1", "mrbeast-pop"), keep} {
		require.NoError(t, WriteFileAtomic(p, []byte("x")))
	}

	require.NoError(t, l.RemoveArtifacts("m1", media))

	assert.NoFileExists(t, media)
	assert.NoFileExists(t, l.SRTPath("m1"))
	assert.NoFileExists(t, l.RenderPath("m1", "mrbeast-pop"))
	assert.FileExists(t, keep, "other media ids sharing a prefix are untouched")
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "a.srt")
	require.NoError(t, WriteFileAtomic(path, []byte("one")))
	require.NoError(t, WriteFileAtomic(path, []byte("two")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Dir(path)))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

// fakeS3 answers the handful of S3 calls the mirror makes.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	meta    map[string]http.Header
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[path] = string(body)
		f.meta[path] = r.Header.Clone()
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestMinioStore_PutAndDelete(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}, meta: map[string]http.Header{}}
	server := httptest.NewServer(fake)
	defer server.Close()

	endpoint := strings.TrimPrefix(server.URL, "http://")
	store, err := NewMinioStore(context.Background(), MinioConfig{
		Endpoint: endpoint, AccessKey: "minioadmin", SecretKey: "minioadmin", Bucket: "renders",
	})
	require.NoError(t, err)

	local := filepath.Join(t.TempDir(), "m1_clean-pro.mp4")
	require.NoError(t, os.WriteFile(local, []byte("video bytes"), 0o644))

	url, err := store.Put(context.Background(), RenderKey("m1", "clean-pro"), local, "video/mp4", map[string]string{"media-id": "m1"})
	require.NoError(t, err)
	assert.Equal(t, "http://"+endpoint+"/renders/renders/m1_clean-pro.mp4", url)

	fake.mu.Lock()
	// plain HTTP uploads use aws-chunked framing around the payload
	assert.Contains(t, fake.objects["renders/renders/m1_clean-pro.mp4"], "video bytes")
	assert.Equal(t, "m1", fake.meta["renders/renders/m1_clean-pro.mp4"].Get("X-Amz-Meta-Media-Id"))
	fake.mu.Unlock()

	require.NoError(t, store.Delete(context.Background(), RenderKey("m1", "clean-pro")))
	fake.mu.Lock()
	assert.Empty(t, fake.objects)
	fake.mu.Unlock()
}
