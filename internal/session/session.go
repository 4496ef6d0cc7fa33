// Package session owns the lifecycle of the active document index: ingest
// builds a snapshot and swaps it in, ask queries the current snapshot, and
// clear drops it.
//
// A Session is safe for concurrent use. Ingestions are serialised; the
// snapshot swap is the only step taken under the exclusive lock, so queries
// keep running against the previous snapshot while a new one is built.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/tanya/internal/history"
	"github.com/hyperjump/tanya/internal/indexer"
	"github.com/hyperjump/tanya/internal/models"
	"github.com/hyperjump/tanya/internal/retriever"
	"github.com/hyperjump/tanya/internal/synth"
	"github.com/hyperjump/tanya/pkg/utils"
)

// Session is the single active document scope.
type Session struct {
	builder   *indexer.Builder
	retriever *retriever.Retriever
	synth     *synth.Synthesizer
	history   history.Store
	topK      int
	logger    *zap.Logger

	writeMu sync.Mutex // serialises Ingest

	mu   sync.RWMutex // guards snap and id
	snap *indexer.Snapshot
	id   string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithHistory records every answered question in store.
func WithHistory(store history.Store) Option {
	return func(s *Session) { s.history = store }
}

// New creates an empty session.
func New(builder *indexer.Builder, r *retriever.Retriever, sy *synth.Synthesizer, opts ...Option) (*Session, error) {
	if builder == nil || r == nil || sy == nil {
		return nil, errors.New("session requires a builder, retriever and synthesizer")
	}
	s := &Session{builder: builder, retriever: r, synth: sy}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = utils.OrNop(s.logger)
	s.topK = r.TopK()
	return s, nil
}

// Ingest builds a new index from blocks and makes it current. On failure
// the previous state, ready or empty, is left untouched.
func (s *Session) Ingest(ctx context.Context, blocks []models.Block) (*models.Status, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := s.builder.Build(ctx, blocks)
	if err != nil {
		s.logger.Warn("ingestion failed; keeping previous index", zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	old, oldID := s.snap, s.id
	s.snap = snap
	s.id = uuid.New().String()
	status := s.statusLocked()
	s.mu.Unlock()

	// Readers search under the read lock, so none still holds old.
	if err := old.Close(); err != nil {
		s.logger.Warn("failed to close previous index", zap.Error(err))
	}
	s.dropHistory(oldID)

	s.logger.Info("session ready",
		zap.String("session_id", status.SessionID),
		zap.String("source", status.Source),
		zap.Int("segments", status.Segments),
	)
	return status, nil
}

// Ask answers query from the current index. It fails with
// models.ErrSessionNotReady when nothing has been ingested.
func (s *Session) Ask(ctx context.Context, query string) (*models.Answer, error) {
	start := time.Now()
	req := models.AskRequest{Query: query}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !s.Ready() {
		return nil, models.ErrSessionNotReady
	}

	vec, err := s.retriever.EmbedQuery(ctx, req.Query)
	if err != nil {
		s.logger.Warn("query embedding failed", zap.Error(err))
		return nil, err
	}

	s.mu.RLock()
	snap, sessionID := s.snap, s.id
	if snap == nil {
		s.mu.RUnlock()
		return nil, models.ErrSessionNotReady
	}
	hits, err := s.retriever.Search(ctx, snap, req.Query, vec, s.topK)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	text, fallback, err := s.synth.Synthesize(ctx, req.Query, models.Segments(hits))
	if err != nil {
		s.logger.Warn("generation failed", zap.Error(err))
		return nil, err
	}

	answer := &models.Answer{
		Query:    req.Query,
		Text:     text,
		Sources:  models.CitationsFromHits(hits),
		Fallback: fallback,
		TookMs:   time.Since(start).Milliseconds(),
	}
	s.logger.Debug("answered",
		zap.Int("query_len", len(req.Query)),
		zap.Int("hits", len(hits)),
		zap.Bool("fallback", fallback),
	)
	s.record(ctx, sessionID, answer)
	return answer, nil
}

// Clear drops the current index and its transcript. Clearing an empty
// session is a no-op.
func (s *Session) Clear() {
	s.mu.Lock()
	old, oldID := s.snap, s.id
	s.snap, s.id = nil, ""
	s.mu.Unlock()

	if old == nil {
		return
	}
	if err := old.Close(); err != nil {
		s.logger.Warn("failed to close index", zap.Error(err))
	}
	s.dropHistory(oldID)
	s.logger.Info("session cleared", zap.String("session_id", oldID))
}

// Ready reports whether a query can be answered.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap != nil
}

// Status returns a snapshot of the session state.
func (s *Session) Status() *models.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusLocked()
}

// History returns the transcript of the current session, oldest first.
// It is empty when no history store is configured or the session is empty.
func (s *Session) History(ctx context.Context, limit int) ([]*models.Turn, error) {
	s.mu.RLock()
	id := s.id
	s.mu.RUnlock()
	if s.history == nil || id == "" {
		return []*models.Turn{}, nil
	}
	return s.history.List(ctx, id, limit)
}

func (s *Session) statusLocked() *models.Status {
	if s.snap == nil {
		return &models.Status{State: models.StateEmpty}
	}
	builtAt := s.snap.BuiltAt
	return &models.Status{
		State:      models.StateReady,
		SessionID:  s.id,
		Source:     s.snap.Source(),
		Segments:   s.snap.Len(),
		Dimensions: s.snap.Vectors.Dimensions(),
		BuiltAt:    &builtAt,
	}
}

func (s *Session) record(ctx context.Context, sessionID string, a *models.Answer) {
	if s.history == nil {
		return
	}
	sources := make([]string, 0, len(a.Sources))
	seen := make(map[string]bool)
	for _, c := range a.Sources {
		if !seen[c.Source] {
			seen[c.Source] = true
			sources = append(sources, c.Source)
		}
	}
	turn := &models.Turn{
		SessionID: sessionID,
		Question:  a.Query,
		Answer:    a.Text,
		Sources:   sources,
		Fallback:  a.Fallback,
	}

	// The append happens under the read lock so that a concurrent Clear or
	// Ingest either sees the turn and deletes it, or has already retired
	// sessionID and the turn is dropped here.
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.id != sessionID {
		s.logger.Debug("session replaced while answering; turn not recorded", zap.String("session_id", sessionID))
		return
	}
	if err := s.history.Append(ctx, turn); err != nil {
		s.logger.Warn("failed to record turn", zap.Error(err))
	}
}

func (s *Session) dropHistory(sessionID string) {
	if s.history == nil || sessionID == "" {
		return
	}
	if err := s.history.DeleteSession(context.Background(), sessionID); err != nil {
		s.logger.Warn("failed to delete transcript", zap.String("session_id", sessionID), zap.Error(err))
	}
}
