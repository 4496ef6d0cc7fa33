package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/tanya/internal/embedding"
	"github.com/hyperjump/tanya/internal/keyword"
	"github.com/hyperjump/tanya/internal/models"
	"github.com/hyperjump/tanya/internal/vector"
	"github.com/hyperjump/tanya/pkg/utils"
	"go.uber.org/zap"
)

// Builder turns blocks into a Snapshot: preprocess, chunk, embed, index.
// A Builder holds no per-build state and may be used concurrently.
type Builder struct {
	chunker    *Chunker
	embedder   embedding.Embedder
	preprocess bool
	keywords   bool
	fuzziness  int
	logger     *zap.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets a logger for build events.
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// WithPreprocess toggles whitespace normalization of blocks before chunking
// (default on).
func WithPreprocess(on bool) BuilderOption {
	return func(b *Builder) { b.preprocess = on }
}

// WithKeywordIndex toggles building the Bleve keyword index alongside the
// vector index (default on).
func WithKeywordIndex(on bool) BuilderOption {
	return func(b *Builder) { b.keywords = on }
}

// WithKeywordFuzziness sets the edit distance the keyword index retries with
// when an exact match finds nothing. 0 disables the retry.
func WithKeywordFuzziness(n int) BuilderOption {
	return func(b *Builder) { b.fuzziness = n }
}

// NewBuilder creates a builder with the given chunker and embedder.
func NewBuilder(chunker *Chunker, embedder embedding.Embedder, opts ...BuilderOption) *Builder {
	b := &Builder{
		chunker:    chunker,
		embedder:   embedder,
		preprocess: true,
		keywords:   true,
		fuzziness:  keyword.DefaultFuzziness,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = utils.OrNop(b.logger)
	return b
}

// Build creates a snapshot from blocks. It fails with models.ErrEmptyInput
// when no block has text and with models.ErrEmbeddingService when the
// embedder fails. Nothing is returned on failure, so callers can keep their
// previous snapshot.
func (b *Builder) Build(ctx context.Context, blocks []models.Block) (*Snapshot, error) {
	start := time.Now()
	if b.preprocess {
		blocks = PreprocessBlocks(blocks)
	}
	segments, err := b.chunker.Chunk(blocks)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(segments))
	for i, s := range segments {
		texts[i] = s.Text
	}
	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(vectors) != len(segments) {
		return nil, &models.ServiceError{
			Service: models.ServiceEmbedding,
			Err:     fmt.Errorf("expected %d embeddings, got %d", len(segments), len(vectors)),
		}
	}
	entries := make([]models.IndexEntry, len(segments))
	for i := range segments {
		entries[i] = models.IndexEntry{Vector: vectors[i], Segment: segments[i]}
	}
	vecIndex, err := vector.Build(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to build vector index: %w", err)
	}
	snap := &Snapshot{
		Sources: sourcesOf(segments),
		Vectors: vecIndex,
		BuiltAt: time.Now().UTC(),
	}
	if b.keywords {
		kw, err := keyword.Build(segments, keyword.WithFuzziness(b.fuzziness))
		if err != nil {
			return nil, fmt.Errorf("failed to build keyword index: %w", err)
		}
		snap.Keywords = kw
	}
	b.logger.Info("snapshot built",
		zap.String("source", snap.Source()),
		zap.Int("blocks", len(blocks)),
		zap.Int("segments", len(segments)),
		zap.Int("dimensions", vecIndex.Dimensions()),
		zap.Duration("took", time.Since(start)))
	return snap, nil
}

// sourcesOf returns the distinct sources of segments in first-seen order.
func sourcesOf(segments []models.Segment) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range segments {
		if !seen[s.Source] {
			seen[s.Source] = true
			out = append(out, s.Source)
		}
	}
	return out
}
