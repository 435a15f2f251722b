package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/kkdai/youtube/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"opencaption/internal/app/api"
	"opencaption/internal/app/api/openai"
	"opencaption/internal/app/api/openai/whisper"
	"opencaption/internal/app/api/whisper_cpp"
	"opencaption/internal/app/audio"
	"opencaption/internal/app/encoder"
	"opencaption/internal/app/lock"
	"opencaption/internal/app/logging"
	"opencaption/internal/app/metrics"
	"opencaption/internal/app/orchestrator"
	"opencaption/internal/app/repository"
	"opencaption/internal/app/repository/pg"
	"opencaption/internal/app/repository/sqlite"
	"opencaption/internal/app/storage"
	"opencaption/internal/app/subtitle"
	"opencaption/internal/app/worker"
	"opencaption/internal/config"
	"opencaption/internal/downloader"
)

// Application bundles the long-lived components built from a Config.
type Application struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	Progress     *downloader.Progress
	Orchestrator *orchestrator.Orchestrator
}

// NewApplication is the final provider of the injector.
func NewApplication(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics, progress *downloader.Progress, orch *orchestrator.Orchestrator) *Application {
	return &Application{
		Config:       cfg,
		Logger:       logger,
		Metrics:      m,
		Progress:     progress,
		Orchestrator: orch,
	}
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.Log.Development, cfg.Log.Level)
}

func provideStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, func(), error) {
	var (
		store repository.Store
		err   error
	)
	switch cfg.Database.Driver {
	case "postgres":
		store, err = pg.Open(ctx, cfg.Database.DSN)
	default:
		store, err = sqlite.NewSQLiteDB(ctx, cfg.Database.DSN)
	}
	if err != nil {
		return nil, nil, err
	}
	logger.Info("database opened", zap.String("driver", cfg.Database.Driver))
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

func provideLayout(cfg *config.Config) (*storage.Layout, error) {
	return storage.NewLayout(cfg.DataDir)
}

func provideExtractor(cfg *config.Config) *audio.Extractor {
	return audio.NewExtractor(cfg.Encoder.FFmpegPath, cfg.Encoder.FFprobePath)
}

// provideTranscriber picks the local whisper.cpp binary or the OpenAI API.
func provideTranscriber(cfg *config.Config, extractor *audio.Extractor, logger *zap.Logger) (api.Transcriber, error) {
	switch cfg.Transcriber.Provider {
	case "openai":
		client, err := openai.NewClient(cfg.Transcriber.OpenAIAPIKey, cfg.Transcriber.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		return whisper.NewRemoteTranscriber(client, cfg.Transcriber.OpenAIModel, extractor.ConvertToMp3, logger), nil
	case "whisper_cpp":
		return whisper_cpp.NewLocalTranscriber(cfg.Transcriber.BinaryPath, cfg.Transcriber.ModelPath, extractor.ConvertTo16kHzWav, logger), nil
	default:
		return nil, fmt.Errorf("unknown transcriber provider %q", cfg.Transcriber.Provider)
	}
}

func provideEncoder(cfg *config.Config, logger *zap.Logger) encoder.Encoder {
	return encoder.NewFFmpegEncoder(cfg.Encoder.FFmpegPath, logger).WithQuality(cfg.Encoder.CRF, cfg.Encoder.Preset)
}

func provideProgress(cfg *config.Config) *downloader.Progress {
	return downloader.NewProgress(cfg.Fetch.Progress && downloader.IsTTY(os.Stderr), os.Stderr)
}

func provideFetcher(cfg *config.Config, progress *downloader.Progress, logger *zap.Logger) downloader.Fetcher {
	httpClient := &http.Client{Timeout: cfg.Fetch.Timeout}
	return downloader.NewRouter(
		downloader.NewYouTubeFetcher(&youtube.Client{HTTPClient: httpClient}, progress, cfg.Fetch.MaxBytes, logger),
		downloader.NewHTTPFetcher(httpClient, progress, cfg.Fetch.MaxBytes, logger),
	)
}

// provideMirror returns nil when no MinIO endpoint is configured.
func provideMirror(ctx context.Context, cfg *config.Config) (storage.ArtifactStore, error) {
	if cfg.Minio.Endpoint == "" {
		return nil, nil
	}
	store, err := storage.NewMinioStore(ctx, storage.MinioConfig{
		Endpoint:  cfg.Minio.Endpoint,
		AccessKey: cfg.Minio.AccessKey,
		SecretKey: cfg.Minio.SecretKey,
		Bucket:    cfg.Minio.Bucket,
		Region:    cfg.Minio.Region,
		UseSSL:    cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// provideLocker uses Redis leases when redis.url is set, so several
// processes sharing one database serialise writes per media.
func provideLocker(ctx context.Context, cfg *config.Config, logger *zap.Logger) (lock.Locker, func(), error) {
	if cfg.Redis.URL == "" {
		return lock.NewKeyedMutex(), func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
	return lock.NewRedisLocker(client, cfg.Redis.LockTTL, logger), cleanup, nil
}

func providePool(cfg *config.Config) *worker.Pool {
	return worker.NewPool(cfg.Worker.Size)
}

func provideOptions(cfg *config.Config) orchestrator.Options {
	return orchestrator.Options{
		Canvas:         subtitle.ScriptOptions{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height},
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
}

func provideOrchestrator(
	store repository.Store,
	layout *storage.Layout,
	transcriber api.Transcriber,
	enc encoder.Encoder,
	fetcher downloader.Fetcher,
	extractor *audio.Extractor,
	mirror storage.ArtifactStore,
	locker lock.Locker,
	pool *worker.Pool,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts orchestrator.Options,
) *orchestrator.Orchestrator {
	return orchestrator.New(orchestrator.Deps{
		Store:       store,
		Layout:      layout,
		Transcriber: transcriber,
		Encoder:     enc,
		Fetcher:     fetcher,
		Inspector:   extractor,
		Mirror:      mirror,
		Locker:      locker,
		Pool:        pool,
		Metrics:     m,
		Logger:      logger,
	}, opts)
}
