package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"MINICLOUD_BACKEND", "MINICLOUD_STORAGE_URL", "MINICLOUD_SUMMARIZER_URL",
		"MINICLOUD_NOTIFY_TTL", "MINICLOUD_DISCARD_STALE_SUMMARIES",
		"MINICLOUD_S3_BUCKET_NAME", "MINICLOUD_S3_REGION",
		"API_URL", "ACCESS_KEY", "SECRET_KEY", "BUCKET_NAME", "REGION",
	}
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendHTTP, cfg.Backend)
	assert.Equal(t, DefaultStorageURL, cfg.StorageURL)
	assert.Equal(t, DefaultSummarizerURL, cfg.SummarizerURL)
	assert.Equal(t, DefaultNotifyTTL, cfg.NotifyTTL)
	assert.False(t, cfg.DiscardStaleSummaries)
	assert.Empty(t, cfg.S3.BucketName)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MINICLOUD_BACKEND", "S3")
	t.Setenv("MINICLOUD_STORAGE_URL", "http://storage.test:9000")
	t.Setenv("MINICLOUD_SUMMARIZER_URL", "http://ai.test:8000")
	t.Setenv("MINICLOUD_NOTIFY_TTL", "5s")
	t.Setenv("MINICLOUD_DISCARD_STALE_SUMMARIES", "true")
	t.Setenv("BUCKET_NAME", "test-bucket")
	t.Setenv("REGION", "test-region")
	t.Setenv("API_URL", "https://test-api.example.com")
	t.Setenv("ACCESS_KEY", "test-access-key")
	t.Setenv("SECRET_KEY", "test-secret-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendS3, cfg.Backend)
	assert.Equal(t, "http://storage.test:9000", cfg.StorageURL)
	assert.Equal(t, "http://ai.test:8000", cfg.SummarizerURL)
	assert.Equal(t, 5*time.Second, cfg.NotifyTTL)
	assert.True(t, cfg.DiscardStaleSummaries)
	assert.Equal(t, S3Config{
		ApiURL:     "https://test-api.example.com",
		AccessKey:  "test-access-key",
		SecretKey:  "test-secret-key",
		BucketName: "test-bucket",
		Region:     "test-region",
	}, cfg.S3)
	assert.NoError(t, cfg.Validate())
}

func TestLoadPrefixedS3EnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("BUCKET_NAME", "legacy-bucket")
	t.Setenv("MINICLOUD_S3_BUCKET_NAME", "prefixed-bucket")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "prefixed-bucket", cfg.S3.BucketName)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "minicloud.json")
	content := `{
	"storage_url": "http://file.test:4567",
	"summarizer_url": "http://file-ai.test:8000",
	"notify_ttl": "10s",
	"s3": {"bucket_name": "file-bucket"}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "http://file.test:4567", cfg.StorageURL)
	assert.Equal(t, "http://file-ai.test:8000", cfg.SummarizerURL)
	assert.Equal(t, 10*time.Second, cfg.NotifyTTL)
	assert.Equal(t, "file-bucket", cfg.S3.BucketName)

	t.Setenv("MINICLOUD_STORAGE_URL", "http://env.test:4567")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env.test:4567", cfg.StorageURL)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultStorageURL, cfg.StorageURL)
}

func TestLoadBrokenFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Backend:       BackendHTTP,
			StorageURL:    DefaultStorageURL,
			SummarizerURL: DefaultSummarizerURL,
			NotifyTTL:     DefaultNotifyTTL,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"Valid http", func(*Config) {}, nil},
		{"Unknown backend", func(c *Config) { c.Backend = "ftp" }, ErrUnknownBackend},
		{"Missing storage url", func(c *Config) { c.StorageURL = "" }, ErrNoStorageURL},
		{"Missing summarizer url", func(c *Config) { c.SummarizerURL = "" }, ErrNoSummarizerURL},
		{"Zero ttl", func(c *Config) { c.NotifyTTL = 0 }, ErrInvalidNotifyTTL},
		{"S3 without bucket", func(c *Config) { c.Backend = BackendS3 }, ErrNoBucket},
		{"S3 ignores storage url", func(c *Config) {
			c.Backend = BackendS3
			c.StorageURL = ""
			c.S3.BucketName = "b"
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.target == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.target)
		})
	}
}
