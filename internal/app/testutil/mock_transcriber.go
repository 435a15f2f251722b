package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"opencaption/internal/app/api"
	"opencaption/internal/app/model"
)

// MockTranscriber is a testify mock of api.Transcriber.
type MockTranscriber struct {
	mock.Mock
	mu sync.Mutex

	CallHistory []TranscriptionCall
}

// TranscriptionCall represents a single transcription call for tracking
type TranscriptionCall struct {
	MediaPath string
	Language  string
}

var _ api.Transcriber = (*MockTranscriber)(nil)

// NewMockTranscriber creates a new MockTranscriber
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{}
}

// Transcribe implements api.Transcriber.
func (m *MockTranscriber) Transcribe(ctx context.Context, mediaPath string, language string) (*model.Transcript, error) {
	m.mu.Lock()
	m.CallHistory = append(m.CallHistory, TranscriptionCall{MediaPath: mediaPath, Language: language})
	m.mu.Unlock()

	args := m.Called(ctx, mediaPath, language)
	var t *model.Transcript
	if v := args.Get(0); v != nil {
		t = v.(*model.Transcript)
	}
	return t, args.Error(1)
}

// Calls returns the number of Transcribe invocations.
func (m *MockTranscriber) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CallHistory)
}
