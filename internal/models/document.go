// Package models defines the data structures shared by the ingestion and
// question-answering pipeline: blocks, segments, index entries, answers and
// the error taxonomy.
package models

import (
	"strings"
	"time"
)

// Block is one piece of raw text handed to the core by an extractor,
// tagged with the identifier of the source it came from.
type Block struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Blank reports whether the block holds no text after trimming.
func (b Block) Blank() bool {
	return strings.TrimSpace(b.Text) == ""
}

// Document is the extracted form of a single source.
type Document struct {
	Source      string     `json:"source"`
	Kind        SourceKind `json:"kind"`
	Blocks      []Block    `json:"blocks"`
	ExtractedAt time.Time  `json:"extracted_at"`
}

// HasText reports whether at least one block carries non-whitespace text.
func (d *Document) HasText() bool {
	if d == nil {
		return false
	}
	for _, b := range d.Blocks {
		if !b.Blank() {
			return true
		}
	}
	return false
}
