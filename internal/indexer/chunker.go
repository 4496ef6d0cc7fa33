// Package indexer turns raw text blocks into a searchable snapshot:
// blocks are chunked into overlapping segments, embedded, and indexed.
package indexer

import (
	"fmt"
	"strings"

	"github.com/hyperjump/tanya/internal/models"
)

// Default chunking parameters, in characters.
const (
	DefaultChunkSize    = 300
	DefaultChunkOverlap = 50
)

// Chunker splits text into overlapping fixed-size character windows.
// Sizes count Unicode code points, not bytes. Cuts ignore word boundaries.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in characters).
// It fails with a *models.ConfigError unless 0 <= overlap < size.
func NewChunker(chunkSize, chunkOverlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, &models.ConfigError{Field: "chunk_size", Reason: fmt.Sprintf("must be positive, got %d", chunkSize)}
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, &models.ConfigError{
			Field:  "chunk_overlap",
			Reason: fmt.Sprintf("must satisfy 0 <= overlap < chunk_size (%d), got %d", chunkSize, chunkOverlap),
		}
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// Size returns the maximum segment length.
func (c *Chunker) Size() int { return c.chunkSize }

// Overlap returns the number of characters shared by neighbouring segments.
func (c *Chunker) Overlap() int { return c.chunkOverlap }

// Chunk splits each block into segments. Blocks are trimmed first and
// whitespace-only blocks are skipped. SequenceIndex counts up per source,
// continuing across blocks that share a source.
// Fails with models.ErrEmptyInput when no block has text.
func (c *Chunker) Chunk(blocks []models.Block) ([]models.Segment, error) {
	step := c.chunkSize - c.chunkOverlap
	var segments []models.Segment
	next := make(map[string]int)
	for _, b := range blocks {
		runes := []rune(strings.TrimSpace(b.Text))
		if len(runes) == 0 {
			continue
		}
		for start := 0; ; start += step {
			end := start + c.chunkSize
			if end > len(runes) {
				end = len(runes)
			}
			segments = append(segments, models.Segment{
				Text:          string(runes[start:end]),
				Source:        b.Source,
				SequenceIndex: next[b.Source],
			})
			next[b.Source]++
			if end >= len(runes) {
				break
			}
		}
	}
	if len(segments) == 0 {
		return nil, models.ErrEmptyInput
	}
	return segments, nil
}
