package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hyperjump/tanya/internal/models"
	"github.com/hyperjump/tanya/pkg/utils"
	"go.uber.org/zap"
)

// DefaultBatchSize is the number of texts sent per request when unset.
const DefaultBatchSize = 32

// Gateway fronts an Embedder with batching, an optional LRU cache and
// uniform error reporting. A batch either succeeds completely or returns an
// error matching models.ErrEmbeddingService; partial results are never returned.
type Gateway struct {
	embedder  Embedder
	batchSize int
	cache     *VectorCache
	logger    *zap.Logger

	mu  sync.Mutex
	dim int
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithBatchSize caps the number of texts per call to the underlying embedder.
func WithBatchSize(n int) GatewayOption {
	return func(g *Gateway) {
		if n > 0 {
			g.batchSize = n
		}
	}
}

// WithCache enables an LRU cache of the given capacity. 0 disables caching.
func WithCache(capacity int) GatewayOption {
	return func(g *Gateway) {
		if capacity > 0 {
			g.cache = NewVectorCache(capacity)
		} else {
			g.cache = nil
		}
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) GatewayOption {
	return func(g *Gateway) { g.logger = l }
}

// NewGateway wraps embedder.
func NewGateway(embedder Embedder, opts ...GatewayOption) *Gateway {
	g := &Gateway{embedder: embedder, batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = utils.OrNop(g.logger)
	return g
}

// Embed embeds a single text.
func (g *Gateway) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds texts in order. Cached texts are served from the cache;
// the rest are sent in batches of at most batchSize, deduplicated.
func (g *Gateway) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var pending []string
	positions := make(map[string][]int)
	for i, t := range texts {
		if g.cache != nil {
			if v, ok := g.cache.Get(t); ok {
				out[i] = v
				continue
			}
		}
		if _, seen := positions[t]; !seen {
			pending = append(pending, t)
		}
		positions[t] = append(positions[t], i)
	}

	for start := 0; start < len(pending); start += g.batchSize {
		end := start + g.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]
		vecs, err := g.embedder.EmbedBatch(ctx, batch)
		if err != nil {
			g.logger.Warn("embedding batch failed", zap.Int("batch_size", len(batch)), zap.Error(err))
			return nil, asServiceError(err)
		}
		if len(vecs) != len(batch) {
			return nil, asServiceError(fmt.Errorf("expected %d embeddings, got %d", len(batch), len(vecs)))
		}
		for i, v := range vecs {
			if err := g.checkDimensions(len(v)); err != nil {
				return nil, asServiceError(err)
			}
			for _, pos := range positions[batch[i]] {
				out[pos] = v
			}
		}
	}
	// Cache only after the whole call succeeded.
	if g.cache != nil {
		for _, t := range pending {
			g.cache.Put(t, out[positions[t][0]])
		}
	}
	fields := []zap.Field{zap.Int("texts", len(texts)), zap.Int("requested", len(pending))}
	if g.cache != nil {
		st := g.cache.Stats()
		fields = append(fields,
			zap.Int("cache_entries", st.Entries),
			zap.Int64("cache_hits", st.Hits),
			zap.Int64("cache_misses", st.Misses))
	}
	g.logger.Debug("embedded texts", fields...)
	return out, nil
}

func (g *Gateway) checkDimensions(n int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n == 0 {
		return fmt.Errorf("%w: empty embedding", models.ErrDimensionMismatch)
	}
	if g.dim == 0 {
		g.dim = n
		return nil
	}
	if n != g.dim {
		return fmt.Errorf("%w: got %d, expected %d", models.ErrDimensionMismatch, n, g.dim)
	}
	return nil
}

// Dimensions returns the observed embedding dimension, or the underlying
// embedder's declared dimension before the first call.
func (g *Gateway) Dimensions() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.dim != 0 {
		return g.dim
	}
	return g.embedder.Dimensions()
}

// Close closes the underlying embedder.
func (g *Gateway) Close() error {
	return g.embedder.Close()
}

// asServiceError wraps err as an embedding ServiceError unless it already is one.
func asServiceError(err error) error {
	var se *models.ServiceError
	if errors.As(err, &se) && se.Service == models.ServiceEmbedding {
		return err
	}
	return &models.ServiceError{Service: models.ServiceEmbedding, Err: err}
}
