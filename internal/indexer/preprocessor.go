package indexer

import (
	"strings"
	"unicode"

	"github.com/hyperjump/tanya/internal/models"
)

// Preprocess normalizes text for indexing (trim, collapse whitespace).
// Extractors hand over text with layout whitespace (PDF line breaks, table
// padding) that would otherwise waste chunk budget.
func Preprocess(text string) string {
	text = strings.TrimSpace(text)
	var b strings.Builder
	b.Grow(len(text))
	wasSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !wasSpace {
				b.WriteRune(' ')
				wasSpace = true
			}
		} else {
			b.WriteRune(r)
			wasSpace = false
		}
	}
	return b.String()
}

// PreprocessBlocks returns a copy of blocks with Preprocess applied to each
// text. Blocks that become empty are dropped.
func PreprocessBlocks(blocks []models.Block) []models.Block {
	out := make([]models.Block, 0, len(blocks))
	for _, b := range blocks {
		text := Preprocess(b.Text)
		if text == "" {
			continue
		}
		out = append(out, models.Block{Text: text, Source: b.Source})
	}
	return out
}
