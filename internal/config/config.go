package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultDataDir        = "./data"
	DefaultHTTPPort       = "8080"
	DefaultWorkerSize     = 2
	DefaultMaxUploadBytes = 2 << 30
	DefaultCanvasWidth    = 1080
	DefaultCanvasHeight   = 1920
	DefaultLockTTL        = 10 * time.Minute
	DefaultFetchTimeout   = 30 * time.Minute
	DefaultWhisperModel   = "./models/ggml-base.bin"
)

// Config is the full application configuration.
type Config struct {
	DataDir        string            `yaml:"data_dir"`
	MaxUploadBytes int64             `yaml:"max_upload_bytes"`
	Database       DatabaseConfig    `yaml:"database"`
	Transcriber    TranscriberConfig `yaml:"transcriber"`
	Encoder        EncoderConfig     `yaml:"encoder"`
	Worker         WorkerConfig      `yaml:"worker"`
	Server         ServerConfig      `yaml:"server"`
	Fetch          FetchConfig       `yaml:"fetch"`
	Redis          RedisConfig       `yaml:"redis"`
	Minio          MinioConfig       `yaml:"minio"`
	Canvas         CanvasConfig      `yaml:"canvas"`
	Log            LogConfig         `yaml:"log"`
}

// DatabaseConfig selects the store. An empty DSN for sqlite means
// <data_dir>/opencaption.db.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// TranscriberConfig selects and configures the speech-to-text backend.
type TranscriberConfig struct {
	Provider      string `yaml:"provider"`
	BinaryPath    string `yaml:"binary_path"`
	ModelPath     string `yaml:"model_path"`
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	OpenAIModel   string `yaml:"openai_model"`
}

// EncoderConfig configures ffmpeg.
type EncoderConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
	CRF         int    `yaml:"crf"`
	Preset      string `yaml:"preset"`
}

// WorkerConfig bounds concurrent collaborator calls.
type WorkerConfig struct {
	Size int `yaml:"size"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	Environment  string        `yaml:"environment"`
}

// FetchConfig configures remote downloads.
type FetchConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	MaxBytes int64         `yaml:"max_bytes"`
	Progress bool          `yaml:"progress"`
}

// RedisConfig enables the distributed media lock when URL is set.
type RedisConfig struct {
	URL     string        `yaml:"url"`
	LockTTL time.Duration `yaml:"lock_ttl"`
}

// MinioConfig enables mirroring rendered videos when Endpoint is set.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// CanvasConfig is the subtitle script's PlayRes.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Development bool   `yaml:"development"`
	Level       string `yaml:"level"`
}

// Default returns a configuration that runs locally with whisper.cpp and
// SQLite.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

// Load reads the YAML file at path, expands ${VAR} references, fills
// defaults, applies OPENCAPTION_* overrides and validates the result. An
// empty path skips the file.
func Load(path string) (*Config, error) {
	c := &Config{}
	if path != "" {
		path = os.ExpandEnv(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		expanded := os.Expand(string(data), func(key string) string { return os.Getenv(key) })
		if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	c.applyEnv()
	c.setDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// Save writes c as YAML, creating the directory when needed.
func Save(c *Config, path string) error {
	path = os.ExpandEnv(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfigPath returns $OPENCAPTION_CONFIG, or opencaption.yaml when
// that file exists in the working directory, or "".
func DefaultConfigPath() string {
	if path := os.Getenv("OPENCAPTION_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat("opencaption.yaml"); err == nil {
		return "opencaption.yaml"
	}
	return ""
}

func (c *Config) setDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.DSN == "" {
		c.Database.DSN = filepath.Join(c.DataDir, "opencaption.db")
	}
	if c.Transcriber.Provider == "" {
		c.Transcriber.Provider = "whisper_cpp"
	}
	if c.Transcriber.BinaryPath == "" {
		c.Transcriber.BinaryPath = "whisper-cli"
	}
	if c.Transcriber.ModelPath == "" {
		c.Transcriber.ModelPath = DefaultWhisperModel
	}
	if c.Encoder.FFmpegPath == "" {
		c.Encoder.FFmpegPath = "ffmpeg"
	}
	if c.Encoder.FFprobePath == "" {
		c.Encoder.FFprobePath = "ffprobe"
	}
	if c.Encoder.CRF == 0 {
		c.Encoder.CRF = 18
	}
	if c.Encoder.Preset == "" {
		c.Encoder.Preset = "veryfast"
	}
	if c.Worker.Size == 0 {
		c.Worker.Size = DefaultWorkerSize
	}
	if c.Server.Port == "" {
		c.Server.Port = DefaultHTTPPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Minute
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Minute
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 2 * time.Minute
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = DefaultFetchTimeout
	}
	if c.Fetch.MaxBytes == 0 {
		c.Fetch.MaxBytes = c.MaxUploadBytes
	}
	if c.Redis.LockTTL == 0 {
		c.Redis.LockTTL = DefaultLockTTL
	}
	if c.Minio.Bucket == "" {
		c.Minio.Bucket = "opencaption"
	}
	if c.Canvas.Width == 0 {
		c.Canvas.Width = DefaultCanvasWidth
	}
	if c.Canvas.Height == 0 {
		c.Canvas.Height = DefaultCanvasHeight
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// applyEnv overlays environment variables on values read from the file.
func (c *Config) applyEnv() {
	setString(&c.DataDir, "OPENCAPTION_DATA_DIR")
	setString(&c.Database.Driver, "OPENCAPTION_DB_DRIVER")
	setString(&c.Database.DSN, "OPENCAPTION_DB_DSN")
	setString(&c.Transcriber.Provider, "OPENCAPTION_TRANSCRIBER")
	setString(&c.Transcriber.BinaryPath, "OPENCAPTION_WHISPER_BINARY")
	setString(&c.Transcriber.ModelPath, "OPENCAPTION_WHISPER_MODEL")
	setString(&c.Transcriber.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.Transcriber.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&c.Encoder.FFmpegPath, "OPENCAPTION_FFMPEG")
	setString(&c.Encoder.FFprobePath, "OPENCAPTION_FFPROBE")
	setString(&c.Server.Host, "OPENCAPTION_HOST")
	setString(&c.Server.Port, "OPENCAPTION_PORT")
	setString(&c.Server.Environment, "OPENCAPTION_ENV")
	setString(&c.Redis.URL, "OPENCAPTION_REDIS_URL")
	setString(&c.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Minio.Bucket, "MINIO_BUCKET")
	setString(&c.Log.Level, "OPENCAPTION_LOG_LEVEL")
	if v, ok := os.LookupEnv("OPENCAPTION_WORKERS"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Worker.Size = n
		}
	}
	if v, ok := os.LookupEnv("MINIO_USE_SSL"); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Minio.UseSSL = b
		}
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	add(ValidateOneOf(c.Database.Driver, "database.driver", "sqlite", "postgres"))
	if c.Database.DSN == "" {
		add(fmt.Errorf("database.dsn is required for %s", c.Database.Driver))
	}

	add(ValidateOneOf(c.Transcriber.Provider, "transcriber.provider", "whisper_cpp", "openai"))
	if c.Transcriber.Provider == "openai" {
		add(ValidateAPIKey(c.Transcriber.OpenAIAPIKey, "OpenAI"))
		if c.Transcriber.OpenAIBaseURL != "" {
			add(ValidateURL(c.Transcriber.OpenAIBaseURL, "openai base"))
		}
	}

	add(ValidateEncoder(c.Encoder.CRF, c.Encoder.Preset))
	add(ValidateConcurrency(c.Worker.Size, "worker"))
	add(ValidatePort(c.Server.Port, "server"))
	add(ValidateTimeout(c.Server.ReadTimeout, "server read"))
	add(ValidateTimeout(c.Server.WriteTimeout, "server write"))
	add(ValidateTimeout(c.Fetch.Timeout, "fetch"))
	if c.Redis.URL != "" {
		add(ValidateURL(c.Redis.URL, "redis", "redis", "rediss"))
		add(ValidateTimeout(c.Redis.LockTTL, "redis lock"))
	}
	if c.Minio.Endpoint != "" && (c.Minio.AccessKey == "" || c.Minio.SecretKey == "") {
		add(errors.New("minio access_key and secret_key are required when endpoint is set"))
	}
	add(ValidateCanvas(c.Canvas.Width, c.Canvas.Height))

	return errors.Join(errs...)
}
