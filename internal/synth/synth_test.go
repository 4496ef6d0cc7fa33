package synth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/hyperjump/tanya/internal/models"
)

type countingGenerator struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	reply   string
	err     error
}

func (g *countingGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func TestSynthesize_EmptyContextShortCircuits(t *testing.T) {
	gen := &countingGenerator{reply: "should not be used"}
	s := New(gen)
	for _, segs := range [][]models.Segment{nil, {}} {
		answer, fallback, err := s.Synthesize(context.Background(), "anything?", segs)
		if err != nil {
			t.Fatal(err)
		}
		if answer != FallbackAnswer || !fallback {
			t.Errorf("answer = %q fallback=%v", answer, fallback)
		}
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times, want 0", gen.calls)
	}
}

func TestSynthesize_RendersContextAndQuestion(t *testing.T) {
	gen := &countingGenerator{reply: "They use batteries."}
	s := New(gen)
	segs := []models.Segment{
		{Text: "Electric vehicles use batteries.", Source: "a"},
		{Text: "Batteries store energy chemically.", Source: "a", SequenceIndex: 1},
	}
	answer, fallback, err := s.Synthesize(context.Background(), "What do electric vehicles use?", segs)
	if err != nil {
		t.Fatal(err)
	}
	if answer != "They use batteries." || fallback {
		t.Errorf("answer = %q fallback=%v", answer, fallback)
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d", gen.calls)
	}
	p := gen.prompts[0]
	wantCtx := "Context: Electric vehicles use batteries.\n\nBatteries store energy chemically."
	if !strings.HasPrefix(p, wantCtx) {
		t.Errorf("prompt should start with joined context, got:\n%s", p)
	}
	if !strings.Contains(p, "Question: What do electric vehicles use?") {
		t.Error("prompt should contain the question")
	}
	if !strings.Contains(p, FallbackAnswer) {
		t.Error("prompt should contain the fallback sentence")
	}
}

func TestSynthesize_GenerationFailureSurfaced(t *testing.T) {
	cause := errors.New("quota exceeded")
	s := New(&countingGenerator{err: cause})
	answer, fallback, err := s.Synthesize(context.Background(), "q", []models.Segment{{Text: "ctx"}})
	if !errors.Is(err, models.ErrGenerationService) || !errors.Is(err, cause) {
		t.Errorf("error = %v, want generation service error wrapping cause", err)
	}
	if answer != "" || fallback {
		t.Errorf("failure must not become the fallback answer: %q %v", answer, fallback)
	}
}

func TestSynthesize_KeepsServiceStatus(t *testing.T) {
	se := &models.ServiceError{Service: models.ServiceGeneration, StatusCode: 429, Err: errors.New("slow down")}
	s := New(GeneratorFunc(func(context.Context, string) (string, error) { return "", se }))
	_, _, err := s.Synthesize(context.Background(), "q", []models.Segment{{Text: "ctx"}})
	var got *models.ServiceError
	if !errors.As(err, &got) || got.StatusCode != 429 {
		t.Errorf("expected original ServiceError, got %v", err)
	}
}

func TestJoinContext(t *testing.T) {
	if got := JoinContext(nil); got != "" {
		t.Errorf("JoinContext(nil) = %q", got)
	}
	got := JoinContext([]models.Segment{{Text: "a"}, {Text: "b"}, {Text: "c"}})
	if got != "a\n\nb\n\nc" {
		t.Errorf("JoinContext = %q", got)
	}
}
