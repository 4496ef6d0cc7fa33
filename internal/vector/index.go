// Package vector provides an immutable in-memory vector index with exact
// nearest-neighbour search.
package vector

import (
	"context"

	"github.com/hyperjump/tanya/internal/models"
)

// DefaultK is the number of hits returned when a caller passes k <= 0.
const DefaultK = 3

// Searcher defines similarity search over a built index.
type Searcher interface {
	Search(ctx context.Context, query []float32, k int) ([]models.SearchHit, error)
	Len() int
	Dimensions() int
}

var _ Searcher = (*Index)(nil)
