// Package integration exercises the ingest and ask pipeline across package
// boundaries with real extractors, indices and history storage.
package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/tanya/internal/embedding"
	"github.com/hyperjump/tanya/internal/extract"
	"github.com/hyperjump/tanya/internal/history"
	"github.com/hyperjump/tanya/internal/indexer"
	"github.com/hyperjump/tanya/internal/models"
	"github.com/hyperjump/tanya/internal/retriever"
	"github.com/hyperjump/tanya/internal/session"
	"github.com/hyperjump/tanya/internal/synth"
)

const notes = `Machine learning algorithms learn patterns from labelled data.

Semantic search uses embeddings to find passages with similar meaning.

The quarterly budget review is scheduled for the first Monday of March.`

func TestIntegration_IngestAndAsk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte(notes), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := history.NewSQLiteStore(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	emb := embedding.NewHashingEmbedder(256)
	chunker, err := indexer.NewChunker(120, 20)
	if err != nil {
		t.Fatal(err)
	}
	r, err := retriever.New(emb, 1)
	if err != nil {
		t.Fatal(err)
	}
	var prompts []string
	gen := synth.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return "The review is on the first Monday of March.", nil
	})
	sess, err := session.New(indexer.NewBuilder(chunker, emb), r, synth.New(gen), session.WithHistory(store))
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Clear()

	ctx := context.Background()
	doc, err := extract.NewExtractor().Extract(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(doc.Blocks))
	}

	status, err := sess.Ingest(ctx, doc.Blocks)
	if err != nil {
		t.Fatal(err)
	}
	if status.State != models.StateReady || status.Segments != 3 || status.Dimensions != 256 {
		t.Fatalf("unexpected status %+v", status)
	}

	answer, err := sess.Ask(ctx, "When is the quarterly budget review?")
	if err != nil {
		t.Fatal(err)
	}
	if answer.Fallback {
		t.Fatal("unexpected fallback answer")
	}
	if len(answer.Sources) != 1 || !strings.Contains(answer.Sources[0].Text, "budget review") {
		t.Errorf("expected the budget paragraph as the only source, got %+v", answer.Sources)
	}
	if len(prompts) != 1 || !strings.Contains(prompts[0], "first Monday of March") {
		t.Errorf("prompt did not carry the retrieved context: %q", prompts)
	}

	turns, err := sess.History(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 1 || turns[0].Answer != answer.Text {
		t.Errorf("expected one recorded turn, got %+v", turns)
	}

	sess.Clear()
	if _, err := sess.Ask(ctx, "anything"); !errors.Is(err, models.ErrSessionNotReady) {
		t.Errorf("expected ErrSessionNotReady after clear, got %v", err)
	}
}
