package embedding

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/hyperjump/tanya/internal/models"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIConfig configures an OpenAIEmbedder. Any OpenAI-compatible
// embeddings endpoint works, including Gemini's.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int // declared dimension; 0 means learn from the first response
	Timeout    time.Duration
	MaxRetries int
}

// OpenAIEmbedder calls an OpenAI-compatible /embeddings endpoint. Transient
// failures (connection errors, 408, 429, 5xx) are retried by the client with
// exponential backoff; other 4xx responses fail immediately.
type OpenAIEmbedder struct {
	client     openai.Client
	model      string
	dimensions atomic.Int64
}

// NewOpenAIEmbedder creates an embedder for cfg.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.Model == "" {
		return nil, &models.ConfigError{Field: "embedding.model", Reason: "must be set"}
	}
	if cfg.APIKey == "" {
		return nil, &models.ConfigError{Field: "embedding.api_key_env", Reason: "API key is empty"}
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	e := &OpenAIEmbedder{client: openai.NewClient(opts...), model: cfg.Model}
	e.dimensions.Store(int64(cfg.Dimensions))
	return e, nil
}

// Embed embeds a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch sends texts in one request and returns vectors in input order.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, &models.ServiceError{
			Service:    models.ServiceEmbedding,
			StatusCode: statusCode(err),
			Err:        fmt.Errorf("create embeddings: %w", err),
		}
	}
	if len(resp.Data) != len(texts) {
		return nil, &models.ServiceError{
			Service: models.ServiceEmbedding,
			Err:     fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data)),
		}
	}
	data := resp.Data
	sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })
	out := make([][]float32, len(data))
	for i, d := range data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		out[i] = vec
	}
	if len(out) > 0 {
		e.dimensions.CompareAndSwap(0, int64(len(out[0])))
	}
	return out, nil
}

// statusCode extracts the HTTP status from an API error, or 0.
func statusCode(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Dimensions returns the configured or observed dimension.
func (e *OpenAIEmbedder) Dimensions() int { return int(e.dimensions.Load()) }

// Close is a no-op; the HTTP client needs no teardown.
func (e *OpenAIEmbedder) Close() error { return nil }
