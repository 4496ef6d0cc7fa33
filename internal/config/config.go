// Package config provides configuration loading and structs for the tanya
// document question-answering service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Chunker    ChunkerConfig    `yaml:"chunker"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	History    HistoryConfig    `yaml:"history"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Watch      WatchConfig      `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	RequestTimeoutSecs int    `yaml:"request_timeout_secs"`
	MaxUploadMB        int    `yaml:"max_upload_mb"`
}

// Addr returns host:port.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RequestTimeout returns the per-request timeout.
func (s *ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSecs) * time.Second
}

// MaxUploadBytes returns the upload size limit in bytes.
func (s *ServerConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// ChunkerConfig holds segment size settings, in characters.
type ChunkerConfig struct {
	ChunkSize    int  `yaml:"chunk_size"`
	ChunkOverlap *int `yaml:"chunk_overlap"`
}

// OverlapOrDefault returns the overlap; defaults to 50 when unset. An
// explicit 0 is kept.
func (c *ChunkerConfig) OverlapOrDefault() int {
	if c.ChunkOverlap != nil {
		return *c.ChunkOverlap
	}
	return defaultChunkOverlap
}

// RetrievalConfig holds retrieval settings.
type RetrievalConfig struct {
	TopK      int  `yaml:"top_k"`
	Fuzziness *int `yaml:"fuzziness"`
}

// FuzzinessOrDefault returns the keyword retry edit distance. An explicit 0
// disables the retry.
func (r *RetrievalConfig) FuzzinessOrDefault() int {
	if r.Fuzziness != nil {
		return *r.Fuzziness
	}
	return defaultFuzziness
}

// EmbeddingConfig selects and configures the embedding provider.
// Provider is one of "openai" (any OpenAI-compatible endpoint), "onnx",
// "hashing" or "mock".
type EmbeddingConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	BatchSize   int    `yaml:"batch_size"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  *int   `yaml:"max_retries"`
	CacheSize   int    `yaml:"cache_size"`
	Dimensions  int    `yaml:"dimensions"`
	ModelPath   string `yaml:"model_path"`
	MaxTokens   int    `yaml:"max_tokens"`
}

// APIKey reads the API key from the environment variable named by APIKeyEnv.
func (e *EmbeddingConfig) APIKey() string {
	if e.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(e.APIKeyEnv)
}

// Timeout returns the per-request timeout.
func (e *EmbeddingConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSecs) * time.Second
}

// Retries returns the retry budget; an explicit 0 disables retries.
func (e *EmbeddingConfig) Retries() int {
	if e.MaxRetries != nil {
		return *e.MaxRetries
	}
	return defaultMaxRetries
}

// GenerationConfig selects and configures the language model.
// Provider is one of "openai", "anthropic" or "openrouter".
type GenerationConfig struct {
	Provider    string   `yaml:"provider"`
	Model       string   `yaml:"model"`
	BaseURL     string   `yaml:"base_url"`
	APIKeyEnv   string   `yaml:"api_key_env"`
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   int64    `yaml:"max_tokens"`
	TimeoutSecs int      `yaml:"timeout_secs"`
	MaxRetries  *int     `yaml:"max_retries"`
}

// APIKey reads the API key from the environment variable named by APIKeyEnv.
func (g *GenerationConfig) APIKey() string {
	if g.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(g.APIKeyEnv)
}

// Timeout returns the per-call timeout.
func (g *GenerationConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// Retries returns the retry budget; an explicit 0 disables retries.
func (g *GenerationConfig) Retries() int {
	if g.MaxRetries != nil {
		return *g.MaxRetries
	}
	return defaultMaxRetries
}

// SamplingTemperature returns the temperature. An explicit 0 is kept and
// asks for deterministic output.
func (g *GenerationConfig) SamplingTemperature() float64 {
	if g.Temperature != nil {
		return *g.Temperature
	}
	return defaultTemperature
}

// HistoryConfig holds the transcript database location.
type HistoryConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// FetchConfig holds settings for downloading web pages.
type FetchConfig struct {
	UserAgent   string `yaml:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxBytesMB  int    `yaml:"max_bytes_mb"`
}

// Timeout returns the fetch timeout.
func (f *FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSecs) * time.Second
}

// WatchConfig holds file watch settings.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// Debounce returns the debounce interval.
func (w *WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// Default returns a fully defaulted config.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads and parses the config file at path, expands paths, applies
// defaults and validates the result.
// Returns an error if the file cannot be read or parsed or is invalid.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.History.DatabasePath = expandPath(cfg.History.DatabasePath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path when it is non-empty, otherwise returns Default().
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	return Load(path)
}

// LoadEnv loads .env files (default ".env") into the process environment.
// Missing files are ignored; variables already set are not overridden.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
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
// other relative paths are relative to the home directory. Empty paths, ":memory:" and
// "file:" URIs are returned unchanged.
func expandPath(path string, configDir string) string {
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
