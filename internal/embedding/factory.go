package embedding

import (
	"fmt"

	"github.com/hyperjump/tanya/internal/config"
	"go.uber.org/zap"
)

// NewFromConfig creates the configured embedder wrapped in a Gateway.
func NewFromConfig(cfg *config.EmbeddingConfig, logger *zap.Logger) (*Gateway, error) {
	var (
		inner Embedder
		err   error
	)
	switch cfg.Provider {
	case "openai", "":
		inner, err = NewOpenAIEmbedder(OpenAIConfig{
			APIKey:     cfg.APIKey(),
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Timeout:    cfg.Timeout(),
			MaxRetries: cfg.Retries(),
		})
	case "onnx":
		inner, err = NewONNXEmbedder(ONNXConfig{
			ModelPath:  cfg.ModelPath,
			Dimensions: cfg.Dimensions,
			MaxTokens:  cfg.MaxTokens,
		})
	case "hashing":
		inner = NewHashingEmbedder(cfg.Dimensions)
	case "mock":
		inner = NewMockEmbedder(cfg.Dimensions)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s embedder: %w", cfg.Provider, err)
	}
	return NewGateway(inner,
		WithBatchSize(cfg.BatchSize),
		WithCache(cfg.CacheSize),
		WithLogger(logger),
	), nil
}
