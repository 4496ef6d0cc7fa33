package config

import (
	"fmt"

	"github.com/hyperjump/tanya/internal/models"
)

var (
	embeddingProviders  = map[string]bool{"openai": true, "onnx": true, "hashing": true, "mock": true}
	generationProviders = map[string]bool{"openai": true, "anthropic": true, "openrouter": true}
)

// Validate checks cfg for values that would make a component fail later.
// It returns the first problem found as a *models.ConfigError.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return &models.ConfigError{Field: "server.port", Reason: fmt.Sprintf("out of range: %d", c.Server.Port)}
	}
	size, overlap := c.Chunker.ChunkSize, c.Chunker.OverlapOrDefault()
	if size <= 0 {
		return &models.ConfigError{Field: "chunker.chunk_size", Reason: fmt.Sprintf("must be positive, got %d", size)}
	}
	if overlap < 0 || overlap >= size {
		return &models.ConfigError{
			Field:  "chunker.chunk_overlap",
			Reason: fmt.Sprintf("must satisfy 0 <= overlap < chunk_size (%d), got %d", size, overlap),
		}
	}
	if c.Retrieval.TopK < 0 {
		return &models.ConfigError{Field: "retrieval.top_k", Reason: "must not be negative"}
	}
	if f := c.Retrieval.FuzzinessOrDefault(); f < 0 || f > 2 {
		return &models.ConfigError{Field: "retrieval.fuzziness", Reason: fmt.Sprintf("must be within [0, 2], got %d", f)}
	}
	if !embeddingProviders[c.Embedding.Provider] {
		return &models.ConfigError{Field: "embedding.provider", Reason: fmt.Sprintf("unsupported provider %q", c.Embedding.Provider)}
	}
	if c.Embedding.Provider == "onnx" && c.Embedding.ModelPath == "" {
		return &models.ConfigError{Field: "embedding.model_path", Reason: "required for the onnx provider"}
	}
	if c.Embedding.Retries() < 0 || c.Generation.Retries() < 0 {
		return &models.ConfigError{Field: "max_retries", Reason: "must not be negative"}
	}
	if !generationProviders[c.Generation.Provider] {
		return &models.ConfigError{Field: "generation.provider", Reason: fmt.Sprintf("unsupported provider %q", c.Generation.Provider)}
	}
	if t := c.Generation.SamplingTemperature(); t < 0 || t > 2 {
		return &models.ConfigError{Field: "generation.temperature", Reason: fmt.Sprintf("must be within [0, 2], got %g", t)}
	}
	if c.Generation.MaxTokens < 0 {
		return &models.ConfigError{Field: "generation.max_tokens", Reason: "must not be negative"}
	}
	return nil
}
