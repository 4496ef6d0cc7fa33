package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hyperjump/tanya/internal/models"
)

func TestOpenAIEmbedder_EmbedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// Respond out of order to check the client restores input order.
		type item struct {
			Object    string    `json:"object"`
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		}
		data := make([]item, len(req.Input))
		for i := range req.Input {
			j := len(req.Input) - 1 - i
			data[i] = item{Object: "embedding", Index: j, Embedding: []float64{float64(len(req.Input[j])), 1}}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
	defer srv.Close()

	e, err := NewOpenAIEmbedder(OpenAIConfig{APIKey: "test", BaseURL: srv.URL, Model: "text-embedding-004"})
	if err != nil {
		t.Fatal(err)
	}
	out, err := e.EmbedBatch(context.Background(), []string{"a", "bbb", "cc"})
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{1, 3, 2}
	for i, v := range out {
		if v[0] != want[i] {
			t.Errorf("vector %d = %v, want first component %v", i, v, want[i])
		}
	}
	if e.Dimensions() != 2 {
		t.Errorf("Dimensions = %d, want 2 learned from response", e.Dimensions())
	}
}

func TestOpenAIEmbedder_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad input","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	e, _ := NewOpenAIEmbedder(OpenAIConfig{APIKey: "test", BaseURL: srv.URL, Model: "m", MaxRetries: 3})
	_, err := e.EmbedBatch(context.Background(), []string{"x"})
	var se *models.ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *ServiceError", err)
	}
	if se.StatusCode != http.StatusBadRequest || !se.ClientError() {
		t.Errorf("StatusCode = %d", se.StatusCode)
	}
	if !errors.Is(err, models.ErrEmbeddingService) {
		t.Error("should match ErrEmbeddingService")
	}
	if calls.Load() != 1 {
		t.Errorf("4xx should not be retried, got %d calls", calls.Load())
	}
}

func TestOpenAIEmbedder_ServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After-Ms", "1")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer srv.Close()

	e, _ := NewOpenAIEmbedder(OpenAIConfig{APIKey: "test", BaseURL: srv.URL, Model: "m", MaxRetries: 2})
	_, err := e.EmbedBatch(context.Background(), []string{"x"})
	var se *models.ServiceError
	if !errors.As(err, &se) || se.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 1 attempt + 2 retries, got %d calls", calls.Load())
	}
}
