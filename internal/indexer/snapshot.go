package indexer

import (
	"strings"
	"time"

	"github.com/hyperjump/tanya/internal/keyword"
	"github.com/hyperjump/tanya/internal/vector"
)

// Snapshot is an immutable, fully built index over one ingestion. Vectors
// and Keywords share positions: keyword hit i is vector entry i.
// Keywords may be nil.
type Snapshot struct {
	Sources  []string
	Vectors  *vector.Index
	Keywords *keyword.Index
	BuiltAt  time.Time
}

// Source returns the snapshot's source identifiers joined with ", ".
func (s *Snapshot) Source() string {
	if s == nil {
		return ""
	}
	return strings.Join(s.Sources, ", ")
}

// Len returns the number of indexed segments.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return s.Vectors.Len()
}

// Close releases the keyword index. The vector index needs no teardown.
func (s *Snapshot) Close() error {
	if s == nil {
		return nil
	}
	return s.Keywords.Close()
}
