// Package keyword provides an in-memory Bleve index over a snapshot's
// segments, used for lexical retrieval when a query carries no vector signal.
package keyword

// Hit is a single keyword search hit. Position is the segment's insertion
// position in the snapshot, which is also its position in the vector index.
type Hit struct {
	Position int
	Score    float64
}

// DefaultFuzziness is the edit distance used when an exact match finds nothing.
const DefaultFuzziness = 1
