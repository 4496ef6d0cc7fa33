package vector

import (
	"context"
	"fmt"
	"sort"

	"github.com/hyperjump/tanya/internal/models"
	"github.com/hyperjump/tanya/pkg/utils"
)

// Index is a brute-force cosine-similarity index. Stored vectors are
// L2-normalized copies, so scoring is a plain inner product. An Index is
// never modified after Build and is safe for concurrent searches.
type Index struct {
	dimensions int
	entries    []models.IndexEntry
}

// Build creates an index over entries, preserving their order.
// Fails with models.ErrEmptyIndex when entries is empty and with
// models.ErrDimensionMismatch when vectors differ in length.
func Build(entries []models.IndexEntry) (*Index, error) {
	if len(entries) == 0 {
		return nil, models.ErrEmptyIndex
	}
	dim := len(entries[0].Vector)
	if dim == 0 {
		return nil, fmt.Errorf("%w: entry 0 has an empty vector", models.ErrDimensionMismatch)
	}
	stored := make([]models.IndexEntry, len(entries))
	for i, e := range entries {
		if len(e.Vector) != dim {
			return nil, fmt.Errorf("%w: entry %d has %d dimensions, expected %d",
				models.ErrDimensionMismatch, i, len(e.Vector), dim)
		}
		stored[i] = models.IndexEntry{Vector: utils.Normalized(e.Vector), Segment: e.Segment}
	}
	return &Index{dimensions: dim, entries: stored}, nil
}

// Search returns up to k entries ordered by descending cosine similarity to
// query. Equal scores keep insertion order. k <= 0 means DefaultK.
// Fails with models.ErrInvalidIndex on a nil or empty index.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]models.SearchHit, error) {
	if x == nil || len(x.entries) == 0 {
		return nil, models.ErrInvalidIndex
	}
	if len(query) != x.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d",
			models.ErrDimensionMismatch, len(query), x.dimensions)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = DefaultK
	}
	q := utils.Normalized(query)
	hits := make([]models.SearchHit, len(x.entries))
	for i, e := range x.entries {
		hits[i] = models.SearchHit{Entry: e, Score: InnerProduct(q, e.Vector)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k:k], nil
}

// Entry returns the entry at insertion position i.
func (x *Index) Entry(i int) (models.IndexEntry, bool) {
	if x == nil || i < 0 || i >= len(x.entries) {
		return models.IndexEntry{}, false
	}
	return x.entries[i], true
}

// Len returns the number of entries in the index.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.entries)
}

// Dimensions returns the vector dimension shared by all entries.
func (x *Index) Dimensions() int {
	if x == nil {
		return 0
	}
	return x.dimensions
}
