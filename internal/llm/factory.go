package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/hyperjump/tanya/internal/config"
)

// NewFromConfig builds a Client from the generation section of the config.
// The API key is read from the environment variable the config names.
func NewFromConfig(ctx context.Context, cfg *config.GenerationConfig, logger *zap.Logger) (*Client, error) {
	temperature := cfg.SamplingTemperature()
	return New(ctx, Config{
		Provider:    cfg.Provider,
		APIKey:      cfg.APIKey(),
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: &temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout(),
		MaxRetries:  cfg.Retries(),
	}, WithLogger(logger))
}
