package models

import (
	"errors"
	"fmt"
)

// Sentinel errors; match with errors.Is.
var (
	ErrConfiguration     = errors.New("invalid configuration")
	ErrEmptyInput        = errors.New("no usable text in input")
	ErrEmptyIndex        = errors.New("cannot build index from zero entries")
	ErrInvalidIndex      = errors.New("index is empty or invalid")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrEmbeddingService  = errors.New("embedding service error")
	ErrGenerationService = errors.New("generation service error")
	ErrSessionNotReady   = errors.New("session not ready: no document has been ingested")
	ErrEmptyQuery        = errors.New("query cannot be empty")
	ErrUnsupportedSource = errors.New("unsupported source type")
)

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) match any *ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// Service names used in ServiceError.
const (
	ServiceEmbedding  = "embedding"
	ServiceGeneration = "generation"
)

// ServiceError wraps a failure of an external service. StatusCode is the
// HTTP status reported by the service, or 0 for transport failures.
type ServiceError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s service error (status %d): %v", e.Service, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s service error: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Is matches the sentinel for the failing service.
func (e *ServiceError) Is(target error) bool {
	switch e.Service {
	case ServiceEmbedding:
		return target == ErrEmbeddingService
	case ServiceGeneration:
		return target == ErrGenerationService
	}
	return false
}

// ClientError reports whether the service rejected the request itself
// (4xx other than 408 and 429). Such failures are never retried.
func (e *ServiceError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 &&
		e.StatusCode != 408 && e.StatusCode != 429
}
