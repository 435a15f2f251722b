package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/stretchr/testify/mock"

	"opencaption/internal/app/encoder"
	"opencaption/internal/app/model"
	"opencaption/internal/app/storage"
	"opencaption/internal/downloader"
)

// MockEncoder is a testify mock of encoder.Encoder. When WriteOutput is set
// a successful BurnIn also creates the output file.
type MockEncoder struct {
	mock.Mock
	mu sync.Mutex

	WriteOutput bool
	Requests    []encoder.BurnInRequest
}

var _ encoder.Encoder = (*MockEncoder)(nil)

// NewMockEncoder creates a MockEncoder that writes output files.
func NewMockEncoder() *MockEncoder {
	return &MockEncoder{WriteOutput: true}
}

// BurnIn implements encoder.Encoder.
func (m *MockEncoder) BurnIn(ctx context.Context, req encoder.BurnInRequest) error {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	err := m.Called(ctx, req).Error(0)
	if err == nil && m.WriteOutput {
		if mkErr := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); mkErr != nil {
			return mkErr
		}
		return os.WriteFile(req.OutputPath, []byte("rendered"), 0o644)
	}
	return err
}

// Calls returns the number of BurnIn invocations.
func (m *MockEncoder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// MockFetcher is a testify mock of downloader.Fetcher. A successful Fetch
// writes Payload to destDir/baseName.mp4.
type MockFetcher struct {
	mock.Mock
	Payload []byte
}

var _ downloader.Fetcher = (*MockFetcher)(nil)

// NewMockFetcher creates a MockFetcher with a small fake payload.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{Payload: []byte("fake video")}
}

// Fetch implements downloader.Fetcher.
func (m *MockFetcher) Fetch(ctx context.Context, rawURL, destDir, baseName string) (*downloader.Fetched, error) {
	args := m.Called(ctx, rawURL, destDir, baseName)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if v := args.Get(0); v != nil {
		return v.(*downloader.Fetched), nil
	}
	path := filepath.Join(destDir, baseName+".mp4")
	if err := os.WriteFile(path, m.Payload, 0o644); err != nil {
		return nil, err
	}
	return &downloader.Fetched{Path: path, Title: filepath.Base(rawURL), Size: int64(len(m.Payload))}, nil
}

// MockArtifactStore is a testify mock of storage.ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

var _ storage.ArtifactStore = (*MockArtifactStore)(nil)

// Put implements storage.ArtifactStore.
func (m *MockArtifactStore) Put(ctx context.Context, key, localPath, contentType string, metadata map[string]string) (string, error) {
	args := m.Called(ctx, key, localPath, contentType, metadata)
	return args.String(0), args.Error(1)
}

// Delete implements storage.ArtifactStore.
func (m *MockArtifactStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// MockInspector is a testify mock of orchestrator.StreamInspector.
type MockInspector struct {
	mock.Mock
}

// Inspect implements orchestrator.StreamInspector.
func (m *MockInspector) Inspect(ctx context.Context, path string) (*model.FFProbeOutput, error) {
	args := m.Called(ctx, path)
	p, _ := args.Get(0).(*model.FFProbeOutput)
	return p, args.Error(1)
}

// WithStreams builds an ffprobe result with one stream per codec type.
func WithStreams(codecTypes ...string) *model.FFProbeOutput {
	var p model.FFProbeOutput
	for _, ct := range codecTypes {
		p.Streams = append(p.Streams, model.FFProbeStream{CodecType: ct})
	}
	return &p
}
