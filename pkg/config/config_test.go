package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 3, cfg.Scrape.MaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.Scrape.RetryWaitMin)
	assert.Equal(t, 7*time.Second, cfg.Scrape.RetryWaitMax)
	assert.Equal(t, 1500*time.Millisecond, cfg.Scrape.ScrollPause)
	assert.Equal(t, 30, cfg.Scrape.MaxScrolls)
	assert.Equal(t, 15*time.Second, cfg.Scrape.TableWait)
	assert.True(t, cfg.Scrape.Headless)
	assert.Equal(t, "output/", cfg.Storage.KeyPrefix)
	assert.Equal(t, "output/merged_output.parquet", cfg.Storage.MergedKey)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "zero max attempts",
			modify:  func(c *Config) { c.Scrape.MaxAttempts = 0 },
			wantErr: "max attempts must be positive",
		},
		{
			name:    "negative retry wait",
			modify:  func(c *Config) { c.Scrape.RetryWaitMin = -time.Second },
			wantErr: "retry wait minimum cannot be negative",
		},
		{
			name: "inverted retry window",
			modify: func(c *Config) {
				c.Scrape.RetryWaitMin = 10 * time.Second
				c.Scrape.RetryWaitMax = 5 * time.Second
			},
			wantErr: "retry wait maximum must not be below the minimum",
		},
		{
			name:    "empty storage directory",
			modify:  func(c *Config) { c.Storage.LocalDirectory = "" },
			wantErr: "storage directory is required",
		},
		{
			name:    "empty merged key",
			modify:  func(c *Config) { c.Storage.MergedKey = "" },
			wantErr: "merged artifact key is required",
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MALSCRAPER_MAX_ATTEMPTS", "5")
	t.Setenv("MALSCRAPER_STORAGE_DIR", "/tmp/mal")
	t.Setenv("MALSCRAPER_KEY_PREFIX", "runs/")
	t.Setenv("MALSCRAPER_HEADLESS", "false")
	t.Setenv("MALSCRAPER_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 5, cfg.Scrape.MaxAttempts)
	assert.Equal(t, "/tmp/mal", cfg.Storage.LocalDirectory)
	assert.Equal(t, "runs/", cfg.Storage.KeyPrefix)
	assert.False(t, cfg.Scrape.Headless)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("MALSCRAPER_MAX_ATTEMPTS", "-2")
	t.Setenv("MALSCRAPER_REQUESTS_PER_MINUTE", "nope")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 3, cfg.Scrape.MaxAttempts)
	assert.Equal(t, 20, cfg.RateLimit.RequestsPerMinute)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
scrape:
  max_attempts: 4
  table_wait: 20s
storage:
  key_prefix: "archive/"
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, 4, cfg.Scrape.MaxAttempts)
	assert.Equal(t, 20*time.Second, cfg.Scrape.TableWait)
	assert.Equal(t, "archive/", cfg.Storage.KeyPrefix)
	assert.Equal(t, "warn", cfg.Logging.Level)
	// Unset fields keep defaults
	assert.Equal(t, 30, cfg.Scrape.MaxScrolls)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"storage-dir":         "/var/mal",
		"key-prefix":          "b7/",
		"max-attempts":        6,
		"requests-per-minute": 0,
		"headless":            false,
		"log-level":           "error",
	})

	assert.Equal(t, "/var/mal", cfg.Storage.LocalDirectory)
	assert.Equal(t, "b7/", cfg.Storage.KeyPrefix)
	assert.Equal(t, 6, cfg.Scrape.MaxAttempts)
	assert.Equal(t, 0, cfg.RateLimit.RequestsPerMinute)
	assert.False(t, cfg.Scrape.Headless)
	assert.Equal(t, "error", cfg.Logging.Level)

	// Empty values do not clobber existing settings
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"storage-dir":  "",
		"max-attempts": 0,
	})
	assert.Equal(t, "/var/mal", cfg.Storage.LocalDirectory)
	assert.Equal(t, 6, cfg.Scrape.MaxAttempts)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Scrape.MaxAttempts = 7
	require.NoError(t, cfg.Save(path))

	reloaded := DefaultConfig()
	require.NoError(t, reloaded.LoadFromFile(path))
	assert.Equal(t, 7, reloaded.Scrape.MaxAttempts)
	assert.Equal(t, cfg.Storage, reloaded.Storage)
}
