package keyword

import (
	"context"
	"reflect"
	"testing"

	"github.com/hyperjump/tanya/internal/models"
)

func buildTestIndex(t *testing.T, texts ...string) *Index {
	t.Helper()
	segs := make([]models.Segment, len(texts))
	for i, s := range texts {
		segs[i] = models.Segment{Text: s, Source: "doc", SequenceIndex: i}
	}
	idx, err := Build(segs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestIndex_SearchFindsContent(t *testing.T) {
	idx := buildTestIndex(t,
		"The Bayes app is referenced in this report.",
		"Electric vehicles use batteries.",
		"Batteries store energy chemically.",
	)
	if idx.Len() != 3 {
		t.Errorf("Len = %d", idx.Len())
	}
	ctx := context.Background()

	// Standard analyzer (no stemming) so "bayes" matches "Bayes".
	hits, err := idx.Search(ctx, "bayes", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Position != 0 {
		t.Errorf("hits = %+v, want position 0", hits)
	}

	hits, err = idx.Search(ctx, "batteries", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits for batteries, got %+v", hits)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Score > hits[i-1].Score {
			t.Error("hits should be ordered best-first")
		}
	}
}

func TestIndex_SearchLimitAndTies(t *testing.T) {
	idx := buildTestIndex(t, "alpha beta", "alpha beta", "alpha beta", "gamma")
	hits, err := idx.Search(context.Background(), "alpha", 2)
	if err != nil {
		t.Fatal(err)
	}
	got := []int{}
	for _, h := range hits {
		got = append(got, h.Position)
	}
	if !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("positions = %v, want [0 1]", got)
	}
}

func TestIndex_FuzzyRetry(t *testing.T) {
	idx := buildTestIndex(t, "Photosynthesis converts light into chemical energy.")
	hits, err := idx.Search(context.Background(), "photosynthesys", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Errorf("fuzzy retry should find the misspelled term, got %+v", hits)
	}

	strict, err := Build([]models.Segment{{Text: "Photosynthesis converts light."}}, WithFuzziness(0))
	if err != nil {
		t.Fatal(err)
	}
	defer strict.Close()
	hits, _ = strict.Search(context.Background(), "photosynthesys", 5)
	if len(hits) != 0 {
		t.Errorf("fuzziness 0 should disable retry, got %+v", hits)
	}
}

func TestIndex_NoMatchAndNil(t *testing.T) {
	idx := buildTestIndex(t, "one two three")
	hits, err := idx.Search(context.Background(), "zzzzzzzz", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %+v", hits)
	}
	var nilIdx *Index
	if hits, err := nilIdx.Search(context.Background(), "x", 3); err != nil || hits != nil {
		t.Errorf("nil index: %v, %v", hits, err)
	}
	if err := nilIdx.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestTokenizeQuery(t *testing.T) {
	got := tokenizeQuery("  What do Electric vehicles use? ")
	want := []string{"what", "do", "electric", "vehicles", "use"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
