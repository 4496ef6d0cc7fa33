// Package history stores the question/answer transcript of each session.
// The transcript is for display only; it is never fed back into prompts.
package history

import (
	"context"

	"github.com/hyperjump/tanya/internal/models"
)

// Store defines transcript persistence operations.
type Store interface {
	Append(ctx context.Context, turn *models.Turn) error
	// List returns up to limit turns of a session, oldest first. limit <= 0 means all.
	List(ctx context.Context, sessionID string, limit int) ([]*models.Turn, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Close() error
}
