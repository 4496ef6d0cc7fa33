package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hyperjump/tanya/internal/config"
	"github.com/hyperjump/tanya/internal/embedding"
	"github.com/hyperjump/tanya/internal/extract"
	"github.com/hyperjump/tanya/internal/history"
	"github.com/hyperjump/tanya/internal/indexer"
	"github.com/hyperjump/tanya/internal/llm"
	"github.com/hyperjump/tanya/internal/models"
	"github.com/hyperjump/tanya/internal/retriever"
	"github.com/hyperjump/tanya/internal/session"
	"github.com/hyperjump/tanya/internal/synth"
	"github.com/hyperjump/tanya/pkg/utils"
)

const defaultConfigPath = "/usr/local/etc/tanya/config.yaml"

// loadConfig loads config from path. When path is the default and a
// config.yaml exists in the current directory, that file is used instead.
// When neither exists the built-in defaults apply. Returns the config and
// the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, err := os.Stat(fallback); err == nil {
				path = fallback
			}
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = ""
		}
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Components holds the wired pipeline for one process.
type Components struct {
	Config    *config.Config
	Logger    *zap.Logger
	Extractor *extract.Extractor
	Embedder  *embedding.Gateway
	History   *history.SQLiteStore
	Session   *session.Session
}

// Close releases the embedder and the transcript database.
func (c *Components) Close() {
	if c.Session != nil {
		c.Session.Clear()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.History != nil {
		_ = c.History.Close()
	}
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	generator, err := llm.NewFromConfig(ctx, &cfg.Generation, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation client: %w", err)
	}
	return buildComponents(cfg, logger, generator)
}

// buildComponents wires everything except the generation client.
func buildComponents(cfg *config.Config, logger *zap.Logger, generator synth.Generator) (*Components, error) {
	logger = utils.OrNop(logger)
	chunker, err := indexer.NewChunker(cfg.Chunker.ChunkSize, cfg.Chunker.OverlapOrDefault())
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.NewFromConfig(&cfg.Embedding, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	store, err := history.NewSQLiteStore(cfg.History.DatabasePath)
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}

	r, err := retriever.New(embedder, cfg.Retrieval.TopK, retriever.WithLogger(logger))
	if err != nil {
		_ = embedder.Close()
		_ = store.Close()
		return nil, err
	}
	builder := indexer.NewBuilder(chunker, embedder,
		indexer.WithLogger(logger),
		indexer.WithKeywordFuzziness(cfg.Retrieval.FuzzinessOrDefault()),
	)
	sess, err := session.New(builder, r, synth.New(generator, synth.WithLogger(logger)),
		session.WithLogger(logger),
		session.WithHistory(store),
	)
	if err != nil {
		_ = embedder.Close()
		_ = store.Close()
		return nil, err
	}

	ext := extract.NewExtractor(
		extract.WithUserAgent(cfg.Fetch.UserAgent),
		extract.WithMaxBytes(int64(cfg.Fetch.MaxBytesMB)<<20),
		extract.WithHTTPClient(&http.Client{Timeout: cfg.Fetch.Timeout()}),
		extract.WithLogger(logger),
	)

	return &Components{
		Config:    cfg,
		Logger:    logger,
		Extractor: ext,
		Embedder:  embedder,
		History:   store,
		Session:   sess,
	}, nil
}

// Load extracts source and ingests it into the session.
func (c *Components) Load(ctx context.Context, source string) (*models.Status, error) {
	doc, err := c.Extractor.Extract(ctx, source)
	if err != nil {
		return nil, err
	}
	return c.Session.Ingest(ctx, doc.Blocks)
}

// Ask answers query from the loaded document.
func (c *Components) Ask(ctx context.Context, query string) (*models.Answer, error) {
	return c.Session.Ask(ctx, query)
}

// Clear forgets the loaded document.
func (c *Components) Clear() {
	c.Session.Clear()
}
