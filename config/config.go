package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendHTTP = "http"
	BackendS3   = "s3"

	DefaultStorageURL    = "http://127.0.0.1:4567"
	DefaultSummarizerURL = "http://127.0.0.1:8000"
	DefaultNotifyTTL     = 3 * time.Second

	envPrefix = "MINICLOUD"
)

var (
	ErrUnknownBackend   = errors.New("config: unknown storage backend")
	ErrNoStorageURL     = errors.New("config: storage url missing")
	ErrNoSummarizerURL  = errors.New("config: summarizer url missing")
	ErrNoBucket         = errors.New("config: s3 bucket name missing")
	ErrInvalidNotifyTTL = errors.New("config: notify ttl must be positive")
)

type S3Config struct {
	ApiURL     string `mapstructure:"api_url"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type Config struct {
	Path                  string        `mapstructure:"-"`
	Backend               string        `mapstructure:"backend"`
	StorageURL            string        `mapstructure:"storage_url"`
	SummarizerURL         string        `mapstructure:"summarizer_url"`
	NotifyTTL             time.Duration `mapstructure:"notify_ttl"`
	DiscardStaleSummaries bool          `mapstructure:"discard_stale_summaries"`
	S3                    S3Config      `mapstructure:"s3"`
}

// Load builds the configuration from defaults, an optional config file and
// the environment, in increasing order of precedence. A .env file in the
// working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not found, using environment variables only")
	}

	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			_, notFound := err.(viper.ConfigFileNotFoundError)
			if !notFound && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config read '%s': %w", path, err)
			}
			slog.Warn("config file not found, using defaults and environment", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config decode: %w", err)
	}
	cfg.Path = v.ConfigFileUsed()
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("backend", BackendHTTP)
	v.SetDefault("storage_url", DefaultStorageURL)
	v.SetDefault("summarizer_url", DefaultSummarizerURL)
	v.SetDefault("notify_ttl", DefaultNotifyTTL)
	v.SetDefault("discard_stale_summaries", false)
	v.SetDefault("s3.api_url", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.region", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// S3 settings keep their historical unprefixed names as a fallback.
	v.BindEnv("s3.api_url", envPrefix+"_S3_API_URL", "API_URL")
	v.BindEnv("s3.access_key", envPrefix+"_S3_ACCESS_KEY", "ACCESS_KEY")
	v.BindEnv("s3.secret_key", envPrefix+"_S3_SECRET_KEY", "SECRET_KEY")
	v.BindEnv("s3.bucket_name", envPrefix+"_S3_BUCKET_NAME", "BUCKET_NAME")
	v.BindEnv("s3.region", envPrefix+"_S3_REGION", "REGION")

	return v
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendHTTP:
		if c.StorageURL == "" {
			return ErrNoStorageURL
		}
	case BackendS3:
		if c.S3.BucketName == "" {
			return ErrNoBucket
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	if c.SummarizerURL == "" {
		return ErrNoSummarizerURL
	}

	if c.NotifyTTL <= 0 {
		return ErrInvalidNotifyTTL
	}

	return nil
}
