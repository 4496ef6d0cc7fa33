package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("load: %w", &ConfigError{Field: "chunker.chunk_overlap", Reason: "must be < chunk_size"})
	if !errors.Is(err, ErrConfiguration) {
		t.Error("wrapped ConfigError should match ErrConfiguration")
	}
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Field != "chunker.chunk_overlap" {
		t.Errorf("errors.As failed: %v", ce)
	}
}

func TestServiceError(t *testing.T) {
	cause := errors.New("connection reset")
	emb := &ServiceError{Service: ServiceEmbedding, Err: cause}
	if !errors.Is(emb, ErrEmbeddingService) {
		t.Error("embedding ServiceError should match ErrEmbeddingService")
	}
	if errors.Is(emb, ErrGenerationService) {
		t.Error("embedding ServiceError should not match ErrGenerationService")
	}
	if !errors.Is(emb, cause) {
		t.Error("ServiceError should unwrap to its cause")
	}

	gen := &ServiceError{Service: ServiceGeneration, StatusCode: 503, Err: cause}
	if !errors.Is(gen, ErrGenerationService) {
		t.Error("generation ServiceError should match ErrGenerationService")
	}
}

func TestServiceError_ClientError(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{0, false},
		{400, true},
		{401, true},
		{408, false},
		{429, false},
		{500, false},
		{503, false},
	}
	for _, tt := range tests {
		e := &ServiceError{Service: ServiceEmbedding, StatusCode: tt.status, Err: errors.New("x")}
		if got := e.ClientError(); got != tt.want {
			t.Errorf("status %d: ClientError() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
