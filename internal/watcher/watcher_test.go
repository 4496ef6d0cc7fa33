package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) record(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_DebouncedChange(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "doc.txt")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(target, []byte("v1"), 0600); err != nil {
		t.Fatal(err)
	}

	var changes recorder
	w, err := NewWatcher([]string{target}, changes.record, WithDebounce(100*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(target, []byte("v2"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(other, []byte("ignored"), 0600); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, func() bool { return changes.count() >= 1 }) {
		t.Fatal("expected a change callback")
	}
	time.Sleep(300 * time.Millisecond)
	changes.mu.Lock()
	defer changes.mu.Unlock()
	if len(changes.paths) != 1 {
		t.Errorf("burst of writes should settle into one callback, got %d", len(changes.paths))
	}
	abs, _ := filepath.Abs(target)
	if changes.paths[0] != abs {
		t.Errorf("callback path = %q, want %q", changes.paths[0], abs)
	}
}

func TestWatcher_Remove(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(target, []byte("v1"), 0600); err != nil {
		t.Fatal(err)
	}
	var changes, removals recorder
	w, err := NewWatcher([]string{target}, changes.record,
		WithDebounce(50*time.Millisecond), WithOnRemove(removals.record))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(target); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, func() bool { return removals.count() == 1 }) {
		t.Errorf("expected one remove callback, got %d", removals.count())
	}
	if changes.count() != 0 {
		t.Errorf("removal should not trigger a change, got %d", changes.count())
	}
}

func TestWatcher_StartMissingFile(t *testing.T) {
	w, err := NewWatcher([]string{filepath.Join(t.TempDir(), "missing.pdf")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Error("expected error for missing file")
	}
}

func TestNewWatcher_NoFiles(t *testing.T) {
	if _, err := NewWatcher(nil, nil); err == nil {
		t.Error("expected error without files")
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(target, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher([]string{target}, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	w.Stop()
	w.Stop()
	if len(w.Files()) != 1 {
		t.Errorf("Files() = %v", w.Files())
	}
}
