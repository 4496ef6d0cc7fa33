package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/tanya/internal/models"
)

func TestSQLiteStore_AppendList(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	turns := []*models.Turn{
		{SessionID: "s1", Question: "q1", Answer: "a1", Sources: []string{"doc.pdf"}, CreatedAt: base},
		{SessionID: "s1", Question: "q2", Answer: "a2", Fallback: true, CreatedAt: base.Add(time.Second)},
		{SessionID: "s2", Question: "other", Answer: "x"},
	}
	for _, turn := range turns {
		if err := store.Append(ctx, turn); err != nil {
			t.Fatal(err)
		}
		if turn.ID == "" {
			t.Error("ID should be assigned")
		}
	}

	got, err := store.List(ctx, "s1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(got))
	}
	if got[0].Question != "q1" || got[1].Question != "q2" {
		t.Errorf("turns out of order: %q, %q", got[0].Question, got[1].Question)
	}
	if len(got[0].Sources) != 1 || got[0].Sources[0] != "doc.pdf" {
		t.Errorf("sources = %v", got[0].Sources)
	}
	if !got[1].Fallback || got[0].Fallback {
		t.Error("fallback flag not round-tripped")
	}
	if !got[0].CreatedAt.Equal(base) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, base)
	}

	limited, _ := store.List(ctx, "s1", 1)
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d", len(limited))
	}
	if n, _ := store.Count(ctx); n != 3 {
		t.Errorf("Count = %d", n)
	}
}

func TestSQLiteStore_DeleteSession(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()
	_ = store.Append(ctx, &models.Turn{SessionID: "a", Question: "q", Answer: "a"})
	_ = store.Append(ctx, &models.Turn{SessionID: "b", Question: "q", Answer: "a"})

	if err := store.DeleteSession(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.List(ctx, "a", 0); len(got) != 0 {
		t.Errorf("session a should be empty, got %d", len(got))
	}
	if got, _ := store.List(ctx, "b", 0); len(got) != 1 {
		t.Errorf("session b should be untouched, got %d", len(got))
	}
}

func TestSQLiteStore_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := store.Append(ctx, &models.Turn{SessionID: "s", Question: "q", Answer: "a"}); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	got, err := reopened.List(ctx, "s", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("expected persisted turn, got %d", len(got))
	}
}

func TestSQLiteStore_RequiresSession(t *testing.T) {
	store, _ := NewSQLiteStore(":memory:")
	defer store.Close()
	if err := store.Append(context.Background(), &models.Turn{Question: "q"}); err == nil {
		t.Error("expected error for turn without session")
	}
}

func TestSQLiteStore_ListEmpty(t *testing.T) {
	store, _ := NewSQLiteStore(":memory:")
	defer store.Close()
	got, err := store.List(context.Background(), "none", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}
