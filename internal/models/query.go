package models

import (
	"strings"
	"time"
)

// AskRequest is a question posed against the current session.
type AskRequest struct {
	Query string `json:"query"`
}

// Validate trims the query and rejects an empty one.
func (r *AskRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return ErrEmptyQuery
	}
	return nil
}

// Citation identifies a segment that was handed to the generator as context.
type Citation struct {
	Source        string  `json:"source"`
	SequenceIndex int     `json:"sequence_index"`
	Score         float64 `json:"score"`
	Text          string  `json:"text"`
}

// Answer is the result of asking a question against a ready session.
// Fallback is true when no context was retrieved and the fixed fallback
// sentence was returned without calling the generator.
type Answer struct {
	Query    string     `json:"query"`
	Text     string     `json:"answer"`
	Sources  []Citation `json:"sources"`
	Fallback bool       `json:"fallback"`
	TookMs   int64      `json:"took_ms"`
}

// CitationsFromHits converts search hits into citations, preserving order.
func CitationsFromHits(hits []SearchHit) []Citation {
	out := make([]Citation, 0, len(hits))
	for _, h := range hits {
		out = append(out, Citation{
			Source:        h.Entry.Segment.Source,
			SequenceIndex: h.Entry.Segment.SequenceIndex,
			Score:         h.Score,
			Text:          h.Entry.Segment.Text,
		})
	}
	return out
}

// SessionState is the lifecycle state of a session.
type SessionState string

const (
	StateEmpty SessionState = "empty"
	StateReady SessionState = "ready"
)

// Status is a point-in-time view of a session.
type Status struct {
	State      SessionState `json:"state"`
	SessionID  string       `json:"session_id,omitempty"`
	Source     string       `json:"source,omitempty"`
	Segments   int          `json:"segments"`
	Dimensions int          `json:"dimensions"`
	BuiltAt    *time.Time   `json:"built_at,omitempty"`
}
