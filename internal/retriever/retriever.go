// Package retriever finds the segments of a snapshot most relevant to a query.
package retriever

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/tanya/internal/embedding"
	"github.com/hyperjump/tanya/internal/indexer"
	"github.com/hyperjump/tanya/internal/models"
	"github.com/hyperjump/tanya/internal/vector"
	"github.com/hyperjump/tanya/pkg/utils"
	"go.uber.org/zap"
)

// scoreEpsilon is the similarity below which a vector hit carries no signal.
const scoreEpsilon = 1e-9

// Retriever embeds queries and searches snapshots. When a query embeds to
// the zero vector, or every vector hit scores zero, it falls back to the
// snapshot's keyword index.
type Retriever struct {
	embedder embedding.Embedder
	topK     int
	logger   *zap.Logger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithLogger sets a logger for retrieval events.
func WithLogger(l *zap.Logger) Option {
	return func(r *Retriever) { r.logger = l }
}

// New creates a retriever. topK is used when callers pass k <= 0; a
// non-positive topK means vector.DefaultK.
func New(embedder embedding.Embedder, topK int, opts ...Option) (*Retriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("retriever: embedder must not be nil")
	}
	if topK <= 0 {
		topK = vector.DefaultK
	}
	r := &Retriever{embedder: embedder, topK: topK}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = utils.OrNop(r.logger)
	return r, nil
}

// TopK returns the default number of hits.
func (r *Retriever) TopK() int { return r.topK }

// EmbedQuery embeds query as a single-text batch.
func (r *Retriever) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vecs, err := r.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, &models.ServiceError{
			Service: models.ServiceEmbedding,
			Err:     fmt.Errorf("expected 1 query embedding, got %d", len(vecs)),
		}
	}
	return vecs[0], nil
}

// Search returns up to k hits from snap for an already embedded query,
// best-first. An empty or nil snapshot yields an empty result, never an error.
func (r *Retriever) Search(ctx context.Context, snap *indexer.Snapshot, query string, queryVec []float32, k int) ([]models.SearchHit, error) {
	if k <= 0 {
		k = r.topK
	}
	if snap.Len() == 0 {
		return []models.SearchHit{}, nil
	}
	if utils.IsZero(queryVec) {
		r.logger.Debug("query embedded to zero vector; using keyword fallback")
		return r.keywordSearch(ctx, snap, query, k)
	}
	hits, err := snap.Vectors.Search(ctx, queryVec, k)
	if errors.Is(err, models.ErrInvalidIndex) {
		return []models.SearchHit{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	if noSignal(hits) {
		kw, err := r.keywordSearch(ctx, snap, query, k)
		if err != nil {
			return nil, err
		}
		if len(kw) > 0 {
			r.logger.Debug("vector hits carry no signal; using keyword fallback", zap.Int("hits", len(kw)))
			return kw, nil
		}
	}
	return hits, nil
}

// Retrieve embeds query and searches snap.
func (r *Retriever) Retrieve(ctx context.Context, snap *indexer.Snapshot, query string, k int) ([]models.SearchHit, error) {
	vec, err := r.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.Search(ctx, snap, query, vec, k)
}

func (r *Retriever) keywordSearch(ctx context.Context, snap *indexer.Snapshot, query string, k int) ([]models.SearchHit, error) {
	if snap.Keywords == nil {
		return []models.SearchHit{}, nil
	}
	kw, err := snap.Keywords.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	hits := make([]models.SearchHit, 0, len(kw))
	for _, h := range kw {
		e, ok := snap.Vectors.Entry(h.Position)
		if !ok {
			continue
		}
		hits = append(hits, models.SearchHit{Entry: e, Score: h.Score})
	}
	return hits, nil
}

func noSignal(hits []models.SearchHit) bool {
	for _, h := range hits {
		if h.Score > scoreEpsilon {
			return false
		}
	}
	return true
}
