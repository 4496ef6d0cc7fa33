package models

// Segment is a bounded, overlapping slice of a source's text. It is the unit
// of retrieval and is never modified after the chunker produces it.
type Segment struct {
	Text          string `json:"text"`
	Source        string `json:"source"`
	SequenceIndex int    `json:"sequence_index"`
}

// IndexEntry pairs a segment with its embedding.
type IndexEntry struct {
	Vector  []float32 `json:"-"`
	Segment Segment   `json:"segment"`
}

// SearchHit is a single search result; Score is higher-is-better.
type SearchHit struct {
	Entry IndexEntry `json:"entry"`
	Score float64    `json:"score"`
}

// Segments returns the segments of hits in order.
func Segments(hits []SearchHit) []Segment {
	out := make([]Segment, len(hits))
	for i, h := range hits {
		out[i] = h.Entry.Segment
	}
	return out
}
