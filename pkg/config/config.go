package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the MyAnimeList batch scraper
type Config struct {
	// Scrape settings: retry policy and page rendering budgets
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Storage settings: blob store location and key layout
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// Rate limiting between page fetches
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ScrapeConfig holds per-user scraping configuration
type ScrapeConfig struct {
	MaxAttempts  int           `yaml:"max_attempts" json:"max_attempts"`
	RetryWaitMin time.Duration `yaml:"retry_wait_min" json:"retry_wait_min"`
	RetryWaitMax time.Duration `yaml:"retry_wait_max" json:"retry_wait_max"`
	ScrollPause  time.Duration `yaml:"scroll_pause" json:"scroll_pause"`
	MaxScrolls   int           `yaml:"max_scrolls" json:"max_scrolls"`
	TableWait    time.Duration `yaml:"table_wait" json:"table_wait"`
	Headless     bool          `yaml:"headless" json:"headless"`
}

// StorageConfig holds blob store configuration
type StorageConfig struct {
	// LocalDirectory is the directory backing the filesystem blob store
	LocalDirectory string `yaml:"local_directory" json:"local_directory"`
	// KeyPrefix is prepended to every per-batch key
	KeyPrefix string `yaml:"key_prefix" json:"key_prefix"`
	// MergedKey is the well-known key for the final merged artifact
	MergedKey string `yaml:"merged_key" json:"merged_key"`
}

// RateLimitConfig holds pacing configuration between page fetches
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			MaxAttempts:  3,
			RetryWaitMin: 3 * time.Second,
			RetryWaitMax: 7 * time.Second,
			ScrollPause:  1500 * time.Millisecond,
			MaxScrolls:   30,
			TableWait:    15 * time.Second,
			Headless:     true,
		},
		Storage: StorageConfig{
			LocalDirectory: "./data",
			KeyPrefix:      "output/",
			MergedKey:      "output/merged_output.parquet",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 20,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if attempts := os.Getenv("MALSCRAPER_MAX_ATTEMPTS"); attempts != "" {
		var val int
		fmt.Sscanf(attempts, "%d", &val)
		if val > 0 {
			c.Scrape.MaxAttempts = val
		}
	}

	if rpm := os.Getenv("MALSCRAPER_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if dir := os.Getenv("MALSCRAPER_STORAGE_DIR"); dir != "" {
		c.Storage.LocalDirectory = dir
	}

	if prefix := os.Getenv("MALSCRAPER_KEY_PREFIX"); prefix != "" {
		c.Storage.KeyPrefix = prefix
	}

	if headless := os.Getenv("MALSCRAPER_HEADLESS"); headless != "" {
		c.Scrape.Headless = strings.ToLower(headless) != "false"
	}

	if logLevel := os.Getenv("MALSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".malscraper.yaml",
		".malscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "malscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "malscraper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".malscraper.yaml"),
		filepath.Join(os.Getenv("HOME"), ".malscraper.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Scrape.MaxAttempts <= 0 {
		errs = append(errs, errors.New("max attempts must be positive"))
	}
	if c.Scrape.RetryWaitMin < 0 {
		errs = append(errs, errors.New("retry wait minimum cannot be negative"))
	}
	if c.Scrape.RetryWaitMax < c.Scrape.RetryWaitMin {
		errs = append(errs, errors.New("retry wait maximum must not be below the minimum"))
	}
	if c.Scrape.MaxScrolls <= 0 {
		errs = append(errs, errors.New("max scrolls must be positive"))
	}
	if c.Scrape.TableWait <= 0 {
		errs = append(errs, errors.New("table wait must be positive"))
	}

	if c.Storage.LocalDirectory == "" {
		errs = append(errs, errors.New("storage directory is required"))
	}
	if c.Storage.MergedKey == "" {
		errs = append(errs, errors.New("merged artifact key is required"))
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if dir, ok := flags["storage-dir"].(string); ok && dir != "" {
		c.Storage.LocalDirectory = dir
	}
	if prefix, ok := flags["key-prefix"].(string); ok && prefix != "" {
		c.Storage.KeyPrefix = prefix
	}
	if attempts, ok := flags["max-attempts"].(int); ok && attempts > 0 {
		c.Scrape.MaxAttempts = attempts
	}
	if rpm, ok := flags["requests-per-minute"].(int); ok && rpm >= 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Scrape.Headless = headless
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".malscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
