package indexer

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/hyperjump/tanya/internal/models"
)

// reconstruct joins segments of one source, dropping the overlap prefix of
// every segment after the first.
func reconstruct(segs []models.Segment, overlap int) string {
	var b strings.Builder
	for i, s := range segs {
		r := []rune(s.Text)
		if i > 0 {
			r = r[overlap:]
		}
		b.WriteString(string(r))
	}
	return b.String()
}

func TestNewChunker_Validation(t *testing.T) {
	tests := []struct {
		name          string
		size, overlap int
		wantErr       bool
	}{
		{"defaults", DefaultChunkSize, DefaultChunkOverlap, false},
		{"zero overlap", 10, 0, false},
		{"max overlap", 10, 9, false},
		{"overlap equals size", 10, 10, true},
		{"overlap exceeds size", 10, 11, true},
		{"negative overlap", 10, -1, true},
		{"zero size", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewChunker(tt.size, tt.overlap)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewChunker(%d, %d) error = %v, wantErr %v", tt.size, tt.overlap, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, models.ErrConfiguration) {
					t.Errorf("error %v should match ErrConfiguration", err)
				}
				return
			}
			if c.Size() != tt.size || c.Overlap() != tt.overlap {
				t.Errorf("got size=%d overlap=%d", c.Size(), c.Overlap())
			}
		})
	}
}

func TestChunker_Chunk(t *testing.T) {
	c, err := NewChunker(10, 3)
	if err != nil {
		t.Fatal(err)
	}
	text := "abcdefghijklmnopqrstuvwxyz"
	segs, err := c.Chunk([]models.Block{{Text: text, Source: "doc"}})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"abcdefghij", "hijklmnopq", "opqrstuvwx", "vwxyz"}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d: %+v", len(segs), len(want), segs)
	}
	for i, s := range segs {
		if s.Text != want[i] {
			t.Errorf("segment %d = %q, want %q", i, s.Text, want[i])
		}
		if s.SequenceIndex != i {
			t.Errorf("segment %d SequenceIndex=%d", i, s.SequenceIndex)
		}
		if s.Source != "doc" {
			t.Errorf("segment %d Source=%q", i, s.Source)
		}
	}
}

func TestChunker_ReconstructsAndBoundsLength(t *testing.T) {
	texts := []string{
		"Electric vehicles use batteries. Batteries store energy chemically.",
		"short",
		strings.Repeat("ünïcödé ", 40),
		"exactly10!",
	}
	params := [][2]int{{40, 5}, {10, 0}, {10, 9}, {7, 3}, {300, 50}}
	for _, p := range params {
		c, err := NewChunker(p[0], p[1])
		if err != nil {
			t.Fatal(err)
		}
		for _, text := range texts {
			segs, err := c.Chunk([]models.Block{{Text: text, Source: "s"}})
			if err != nil {
				t.Fatalf("size=%d overlap=%d: %v", p[0], p[1], err)
			}
			for _, s := range segs {
				if n := utf8.RuneCountInString(s.Text); n > p[0] {
					t.Errorf("size=%d: segment length %d exceeds size", p[0], n)
				}
			}
			if got := reconstruct(segs, p[1]); got != strings.TrimSpace(text) {
				t.Errorf("size=%d overlap=%d: reconstruction mismatch\n got %q\nwant %q", p[0], p[1], got, text)
			}
		}
	}
}

func TestChunker_Deterministic(t *testing.T) {
	c, _ := NewChunker(12, 4)
	blocks := []models.Block{
		{Text: "The quick brown fox jumps over the lazy dog.", Source: "a"},
		{Text: "Pack my box with five dozen liquor jugs.", Source: "b"},
	}
	first, err := c.Chunk(blocks)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Chunk(blocks)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("chunking should be deterministic")
	}
}

func TestChunker_SequencePerSource(t *testing.T) {
	c, _ := NewChunker(5, 0)
	segs, err := c.Chunk([]models.Block{
		{Text: "aaaaabbbbb", Source: "x"},
		{Text: "ccccc", Source: "y"},
		{Text: "ddddd", Source: "x"},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		src string
		seq int
	}{{"x", 0}, {"x", 1}, {"y", 0}, {"x", 2}}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments", len(segs))
	}
	for i, w := range want {
		if segs[i].Source != w.src || segs[i].SequenceIndex != w.seq {
			t.Errorf("segment %d = (%s,%d), want (%s,%d)", i, segs[i].Source, segs[i].SequenceIndex, w.src, w.seq)
		}
	}
}

func TestChunker_ChunkEmpty(t *testing.T) {
	c, _ := NewChunker(5, 1)
	tests := []struct {
		name   string
		blocks []models.Block
	}{
		{"nil", nil},
		{"empty text", []models.Block{{Text: "", Source: "s"}}},
		{"whitespace only", []models.Block{{Text: "   \n\t  ", Source: "s"}, {Text: " ", Source: "t"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs, err := c.Chunk(tt.blocks)
			if !errors.Is(err, models.ErrEmptyInput) {
				t.Errorf("error = %v, want ErrEmptyInput", err)
			}
			if segs != nil {
				t.Errorf("expected nil segments, got %v", segs)
			}
		})
	}
}

func TestChunker_SkipsBlankBlocks(t *testing.T) {
	c, _ := NewChunker(5, 1)
	segs, err := c.Chunk([]models.Block{{Text: " ", Source: "s"}, {Text: "hello", Source: "s"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 1 || segs[0].SequenceIndex != 0 {
		t.Errorf("got %+v", segs)
	}
}

func TestPreprocess(t *testing.T) {
	if Preprocess("  a  b  ") != "a b" {
		t.Error("expected trimmed and collapsed spaces")
	}
	if Preprocess("line\n\n\tbreak") != "line break" {
		t.Error("expected newlines and tabs collapsed")
	}
}

func TestPreprocessBlocks(t *testing.T) {
	out := PreprocessBlocks([]models.Block{
		{Text: "  one\n two ", Source: "a"},
		{Text: " \n ", Source: "a"},
		{Text: "three", Source: "b"},
	})
	want := []models.Block{{Text: "one two", Source: "a"}, {Text: "three", Source: "b"}}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("got %+v, want %+v", out, want)
	}
}
