// Package llm implements answer generation on top of charm.land/fantasy.
// Gemini is reached through its OpenAI-compatible endpoint with the openai
// provider; anthropic and openrouter are also supported.
package llm

import (
	"context"
	"fmt"
	"time"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"
	"charm.land/fantasy/providers/openai"
	"charm.land/fantasy/providers/openrouter"
	"github.com/hyperjump/tanya/internal/models"
	"github.com/hyperjump/tanya/internal/synth"
	"github.com/hyperjump/tanya/pkg/utils"
	"go.uber.org/zap"
)

// Config configures a Client.
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature *float64 // nil leaves the provider default
	MaxTokens   int64
	Timeout     time.Duration
	MaxRetries  int
}

// Client generates text with a fantasy language model. Transient failures
// are retried with exponential backoff up to MaxRetries times.
type Client struct {
	model  fantasy.LanguageModel
	cfg    Config
	logger *zap.Logger

	// call performs one attempt; sleep waits between attempts.
	call  func(ctx context.Context, prompt string) (string, error)
	sleep func(context.Context, time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for cfg.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if cfg.Model == "" {
		return nil, &models.ConfigError{Field: "generation.model", Reason: "must be set"}
	}
	if cfg.APIKey == "" {
		return nil, &models.ConfigError{Field: "generation.api_key_env", Reason: "API key is empty"}
	}
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	model, err := provider.LanguageModel(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("get language model: %w", err)
	}
	return newClient(model, cfg, opts...), nil
}

func newClient(model fantasy.LanguageModel, cfg Config, opts ...Option) *Client {
	c := &Client{model: model, cfg: cfg, sleep: sleepContext}
	c.call = c.generateOnce
	for _, opt := range opts {
		opt(c)
	}
	c.logger = utils.OrNop(c.logger)
	return c
}

func newProvider(cfg Config) (fantasy.Provider, error) {
	var (
		provider fantasy.Provider
		err      error
	)
	switch cfg.Provider {
	case "openai", "":
		opts := []openai.Option{openai.WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		provider, err = openai.New(opts...)
	case "anthropic":
		opts := []anthropic.Option{anthropic.WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		provider, err = anthropic.New(opts...)
	case "openrouter":
		provider, err = openrouter.New(openrouter.WithAPIKey(cfg.APIKey))
	default:
		return nil, &models.ConfigError{Field: "generation.provider", Reason: fmt.Sprintf("unsupported provider %q", cfg.Provider)}
	}
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	return provider, nil
}

// Generate sends prompt as a single user turn and returns the response text.
// Errors are *models.ServiceError for the generation service.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, retryDelay(attempt-1)); err != nil {
				break
			}
		}
		text, err := c.call(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !Retryable(err) || ctx.Err() != nil {
			break
		}
		c.logger.Warn("generation failed; retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", c.cfg.MaxRetries),
			zap.Error(err))
	}
	return "", &models.ServiceError{
		Service:    models.ServiceGeneration,
		StatusCode: StatusCode(lastErr),
		Err:        lastErr,
	}
}

func (c *Client) generateOnce(ctx context.Context, prompt string) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	call := fantasy.AgentCall{Prompt: prompt}
	if c.cfg.Temperature != nil {
		t := *c.cfg.Temperature
		call.Temperature = &t
	}
	if c.cfg.MaxTokens > 0 {
		m := c.cfg.MaxTokens
		call.MaxOutputTokens = &m
	}
	result, err := fantasy.NewAgent(c.model).Generate(ctx, call)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return result.Response.Content.Text(), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retryDelay is exponential backoff from 200ms, capped at 5s.
func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 5 {
		attempt = 5
	}
	d := 200 * time.Millisecond << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

var _ synth.Generator = (*Client)(nil)
