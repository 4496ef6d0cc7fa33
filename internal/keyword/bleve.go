package keyword

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/tanya/internal/models"
)

// segmentDoc is the Bleve document for one segment.
type segmentDoc struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Index is a memory-only Bleve index. It is built once and then only read.
type Index struct {
	index     bleve.Index
	size      int
	fuzziness int
}

// Option configures an Index.
type Option func(*Index)

// WithFuzziness sets the edit distance of the fuzzy retry. 0 disables it.
func WithFuzziness(n int) Option {
	return func(x *Index) { x.fuzziness = n }
}

func newIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so a query term
	// matches the word as written in the document.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textFieldMapping)
	sourceFieldMapping := bleve.NewKeywordFieldMapping()
	sourceFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("source", sourceFieldMapping)
	im.DefaultMapping = docMapping
	return im
}

// Build indexes segments in memory, keyed by position.
func Build(segments []models.Segment, opts ...Option) (*Index, error) {
	idx, err := bleve.NewMemOnly(newIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	batch := idx.NewBatch()
	for i, s := range segments {
		if err := batch.Index(strconv.Itoa(i), segmentDoc{Text: s.Text, Source: s.Source}); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("failed to index segment %d: %w", i, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("failed to commit Bleve batch: %w", err)
	}
	x := &Index{index: idx, size: len(segments), fuzziness: DefaultFuzziness}
	for _, opt := range opts {
		opt(x)
	}
	return x, nil
}

// Search runs a match query over segment text and returns up to limit hits,
// best-first with ties broken by position. When the exact match finds
// nothing, the query is retried with per-term fuzzy matching.
func (x *Index) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if x == nil || x.size == 0 || limit <= 0 {
		return nil, nil
	}
	mq := bleve.NewMatchQuery(query)
	mq.SetField("text")
	hits, err := x.run(ctx, mq, limit)
	if err != nil || len(hits) > 0 || x.fuzziness <= 0 {
		return hits, err
	}
	fq := x.buildFuzzyQuery(query)
	if fq == nil {
		return nil, nil
	}
	return x.run(ctx, fq, limit)
}

func (x *Index) run(ctx context.Context, q blevequery.Query, limit int) ([]Hit, error) {
	// Fetch every match so the position tie-break is applied before the cut.
	req := bleve.NewSearchRequestOptions(q, x.size, 0, false)
	res, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		pos, err := strconv.Atoi(h.ID)
		if err != nil {
			return nil, fmt.Errorf("unexpected document id %q: %w", h.ID, err)
		}
		out = append(out, Hit{Position: pos, Score: h.Score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Position < out[j].Position
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// buildFuzzyQuery creates a disjunction of FuzzyQueries, one per term.
// Returns nil when the query has no terms.
func (x *Index) buildFuzzyQuery(query string) blevequery.Query {
	terms := tokenizeQuery(query)
	if len(terms) == 0 {
		return nil
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(x.fuzziness)
		fq.SetField("text")
		queries = append(queries, fq)
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// tokenizeQuery splits query into lowercase terms, stripping punctuation.
func tokenizeQuery(query string) []string {
	words := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?\"'()[]{}")
		if w != "" {
			terms = append(terms, w)
		}
	}
	return terms
}

// Len returns the number of indexed segments.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return x.size
}

// Close releases the Bleve index.
func (x *Index) Close() error {
	if x == nil || x.index == nil {
		return nil
	}
	return x.index.Close()
}
