// Package embedding maps text to fixed-length vectors: a provider-agnostic
// Embedder interface, a batching Gateway in front of it, and concrete
// OpenAI-compatible, ONNX, hashing and mock embedders.
package embedding

import "context"

// Embedder produces vector embeddings for text. EmbedBatch returns one
// vector per input, in input order.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
