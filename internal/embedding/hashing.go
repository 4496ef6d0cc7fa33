package embedding

import (
	"context"
	"hash/fnv"

	"github.com/hyperjump/tanya/pkg/utils"
)

// DefaultHashingDimensions is the vector size of a HashingEmbedder built with 0.
const DefaultHashingDimensions = 512

// HashingEmbedder is a local bag-of-words embedder using signed feature
// hashing over Terms. Texts sharing vocabulary get similar vectors, so it is
// usable offline and in tests where MockEmbedder's random vectors are not.
// Text without terms embeds to the zero vector.
type HashingEmbedder struct {
	dimensions int
}

// NewHashingEmbedder creates a hashing embedder with the given dimensions.
func NewHashingEmbedder(dimensions int) *HashingEmbedder {
	if dimensions <= 0 {
		dimensions = DefaultHashingDimensions
	}
	return &HashingEmbedder{dimensions: dimensions}
}

// Embed returns the L2-normalized hashed term-frequency vector of text.
func (e *HashingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec := make([]float32, e.dimensions)
	for _, term := range Terms(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(term))
		sum := h.Sum32()
		sign := float32(1)
		if sum&(1<<31) != 0 {
			sign = -1
		}
		vec[int(sum%uint32(e.dimensions))] += sign
	}
	utils.NormalizeL2(vec)
	return vec, nil
}

// EmbedBatch calls Embed for each text.
func (e *HashingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Dimensions returns the embedding dimension.
func (e *HashingEmbedder) Dimensions() int { return e.dimensions }

// Close is a no-op.
func (e *HashingEmbedder) Close() error { return nil }
