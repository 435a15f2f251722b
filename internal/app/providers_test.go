package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"opencaption/internal/app/api/openai/whisper"
	"opencaption/internal/app/api/whisper_cpp"
	"opencaption/internal/app/encoder"
	"opencaption/internal/app/lock"
	"opencaption/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Database.DSN = filepath.Join(cfg.DataDir, "opencaption.db")
	return cfg
}

func TestInitializeApplication_Local(t *testing.T) {
	cfg := testConfig(t)

	application, cleanup, err := InitializeApplication(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, application.Orchestrator)
	assert.NotNil(t, application.Metrics)

	media, err := application.Orchestrator.ListMedia(context.Background())
	require.NoError(t, err)
	assert.Empty(t, media)
	assert.DirExists(t, filepath.Join(cfg.DataDir, "media"))
}

func TestInitializeApplication_BadRedisURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.Redis.URL = "not-a-redis-url"

	_, _, err := InitializeApplication(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestProvideTranscriber(t *testing.T) {
	cfg := testConfig(t)
	extractor := provideExtractor(cfg)

	tr, err := provideTranscriber(cfg, extractor, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &whisper_cpp.LocalTranscriber{}, tr)

	cfg.Transcriber.Provider = "openai"
	cfg.Transcriber.OpenAIAPIKey = "sk-1234567890abcdef1234567890"
	tr, err = provideTranscriber(cfg, extractor, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &whisper.RemoteTranscriber{}, tr)

	cfg.Transcriber.OpenAIAPIKey = ""
	_, err = provideTranscriber(cfg, extractor, zap.NewNop())
	assert.Error(t, err)

	cfg.Transcriber.Provider = "nope"
	_, err = provideTranscriber(cfg, extractor, zap.NewNop())
	assert.Error(t, err)
}

func TestProvideLocker_DefaultsToKeyedMutex(t *testing.T) {
	locker, cleanup, err := provideLocker(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &lock.KeyedMutex{}, locker)
}

func TestProvideMirror_DisabledWithoutEndpoint(t *testing.T) {
	mirror, err := provideMirror(context.Background(), testConfig(t))
	require.NoError(t, err)
	assert.Nil(t, mirror)
}

func TestProvideEncoder_UsesConfiguredQuality(t *testing.T) {
	cfg := testConfig(t)
	cfg.Encoder.CRF = 28
	enc := provideEncoder(cfg, zap.NewNop()).(*encoder.FFmpegEncoder)
	args, err := enc.Args(encoder.BurnInRequest{MediaPath: "in.mp4", ScriptPath: "c.ass", OutputPath: "out.mp4"})
	require.NoError(t, err)
	assert.Contains(t, args, "28")
}
