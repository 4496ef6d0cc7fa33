package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hyperjump/tanya/internal/embedding"
	"github.com/hyperjump/tanya/internal/indexer"
	"github.com/hyperjump/tanya/internal/keyword"
	"github.com/hyperjump/tanya/internal/models"
	"github.com/hyperjump/tanya/internal/vector"
)

func segments(n int) []models.Segment {
	out := make([]models.Segment, n)
	for i := range out {
		out[i] = models.Segment{
			Text:          fmt.Sprintf("segment %d talks about topic %d and shared vocabulary", i, i%37),
			Source:        "bench.txt",
			SequenceIndex: i,
		}
	}
	return out
}

func BenchmarkVectorIndexSearch(b *testing.B) {
	ctx := context.Background()
	emb := embedding.NewHashingEmbedder(384)
	segs := segments(1000)
	entries := make([]models.IndexEntry, len(segs))
	for i, s := range segs {
		v, _ := emb.Embed(ctx, s.Text)
		entries[i] = models.IndexEntry{Vector: v, Segment: s}
	}
	idx, err := vector.Build(entries)
	if err != nil {
		b.Fatal(err)
	}
	query, _ := emb.Embed(ctx, "topic 12 shared vocabulary")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = idx.Search(ctx, query, 10)
	}
}

func BenchmarkKeywordIndexSearch(b *testing.B) {
	idx, err := keyword.Build(segments(1000))
	if err != nil {
		b.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = idx.Search(ctx, "topic vocabulary", 10)
	}
}

func BenchmarkChunker(b *testing.B) {
	chunker, err := indexer.NewChunker(500, 50)
	if err != nil {
		b.Fatal(err)
	}
	blocks := []models.Block{{Text: strings.Repeat("a long paragraph of extracted text ", 2000), Source: "bench.txt"}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = chunker.Chunk(blocks)
	}
}

func BenchmarkHashingEmbedder_Embed(b *testing.B) {
	e := embedding.NewHashingEmbedder(384)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Embed(ctx, "benchmark query text for embedding")
	}
}
