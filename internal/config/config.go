// Package config provides configuration loading and structs for recall.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/recall/internal/models"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Search    SearchConfig    `yaml:"search"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Scraper   ScraperConfig   `yaml:"scraper"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string   `yaml:"host"`
	Port               int      `yaml:"port"`
	CORSOrigins        []string `yaml:"cors_origins"`
	RequestTimeoutSecs int      `yaml:"request_timeout_secs"`
}

// RequestTimeout returns the per-request timeout.
func (s *ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSecs) * time.Second
}

// StorageConfig holds paths of the persisted stores.
type StorageConfig struct {
	EmbeddingsPath string `yaml:"embeddings_path"`
	HistoryPath    string `yaml:"history_path"`
	ScrapedDir     string `yaml:"scraped_dir"`
	LogDir         string `yaml:"log_dir"`
}

// EmbeddingConfig selects and configures the embedder.
type EmbeddingConfig struct {
	Provider   string       `yaml:"provider"` // local, openai or mock
	ModelPath  string       `yaml:"model_path"`
	Dimensions int          `yaml:"dimensions"`
	MaxTokens  int          `yaml:"max_tokens"`
	CacheSize  int          `yaml:"cache_size"`
	OpenAI     OpenAIConfig `yaml:"openai"`
}

// OpenAIConfig holds settings for an OpenAI-compatible embeddings API.
type OpenAIConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// APIKey reads the key from the configured environment variable.
func (o *OpenAIConfig) APIKey() string {
	return os.Getenv(o.APIKeyEnv)
}

// ChunkingConfig holds chunk window settings in words.
type ChunkingConfig struct {
	Size    int  `yaml:"size"`
	Overlap *int `yaml:"overlap"`
}

// OverlapOrDefault returns the configured overlap; defaults to 10 when unset.
func (c *ChunkingConfig) OverlapOrDefault() int {
	if c.Overlap != nil {
		return *c.Overlap
	}
	return 10
}

// SearchConfig holds query settings.
type SearchConfig struct {
	HistoryLimit int `yaml:"history_limit"`
}

// IngestConfig holds ingestion settings.
type IngestConfig struct {
	Pattern        string `yaml:"pattern"`
	Watch          bool   `yaml:"watch"`
	DebounceMillis int    `yaml:"debounce_millis"`
}

// ScraperConfig holds browser history scraping settings.
type ScraperConfig struct {
	ChromeHistoryPath string  `yaml:"chrome_history_path"`
	Limit             int     `yaml:"limit"`
	TimeoutSecs       int     `yaml:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	UserAgent         string  `yaml:"user_agent"`
}

// Default returns a configuration with every default applied and paths relative to the working directory.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", models.ErrParse, err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.EmbeddingsPath = expandPath(cfg.Storage.EmbeddingsPath, configDir)
	cfg.Storage.HistoryPath = expandPath(cfg.Storage.HistoryPath, configDir)
	cfg.Storage.ScrapedDir = expandPath(cfg.Storage.ScrapedDir, configDir)
	cfg.Storage.LogDir = expandPath(cfg.Storage.LogDir, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	if cfg.Scraper.ChromeHistoryPath != "" {
		cfg.Scraper.ChromeHistoryPath = expandPath(cfg.Scraper.ChromeHistoryPath, configDir)
	}

	return &cfg, nil
}

// Validate reports settings that would make a component fail at runtime.
func (c *Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunking.size must be positive", models.ErrInvalidConfiguration)
	}
	if overlap := c.Chunking.OverlapOrDefault(); overlap < 0 || overlap >= c.Chunking.Size {
		return fmt.Errorf("%w: chunking.overlap %d must be in [0, %d)", models.ErrInvalidConfiguration, overlap, c.Chunking.Size)
	}
	switch c.Embedding.Provider {
	case "local", "openai", "mock":
	default:
		return fmt.Errorf("%w: unknown embedding provider %q (supported: local, openai, mock)",
			models.ErrInvalidConfiguration, c.Embedding.Provider)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", models.ErrInvalidConfiguration, c.Server.Port)
	}
	if c.Scraper.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: scraper.requests_per_second must not be negative", models.ErrInvalidConfiguration)
	}
	return nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// a leading "~/" is the home directory; other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, strings.TrimPrefix(path, "~/"))
	}
	return path
}
