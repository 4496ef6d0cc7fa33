// Package extract turns source files and web pages into text blocks for
// ingestion. Each format keeps its natural unit: one block per PDF page,
// Word paragraph, HTML text element, spreadsheet sheet or plain-text
// paragraph.
package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/tanya/internal/models"
	"github.com/hyperjump/tanya/pkg/utils"
)

// ErrFetch marks a failure to download a URL source.
var ErrFetch = errors.New("fetch failed")

const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 32 << 20
)

// Extractor extracts text blocks from documents on disk and on the web.
type Extractor struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	logger    *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithHTTPClient sets the client used to fetch URLs.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Extractor) { e.client = c }
}

// WithUserAgent sets the User-Agent header sent when fetching URLs.
func WithUserAgent(ua string) Option {
	return func(e *Extractor) { e.userAgent = ua }
}

// WithMaxBytes caps the size of a fetched response body.
func WithMaxBytes(n int64) Option {
	return func(e *Extractor) { e.maxBytes = n }
}

// WithLogger sets the extractor logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor returns a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		client:   &http.Client{Timeout: DefaultTimeout},
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = utils.OrNop(e.logger)
	return e
}

// Extract reads source, a file path or an http(s) URL, and returns its blocks.
// It fails with models.ErrEmptyInput when the source holds no text.
func (e *Extractor) Extract(ctx context.Context, source string) (*models.Document, error) {
	if models.IsURL(source) {
		content, kind, err := e.fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		return e.document(source, kind, ".html", content)
	}

	return e.ExtractFile(source, source)
}

// ExtractFile extracts the file at path, tagging its blocks with source.
// The kind is resolved from path's extension.
func (e *Extractor) ExtractFile(path, source string) (*models.Document, error) {
	kind, err := models.ResolveSourceKind(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return e.document(source, kind, strings.ToLower(filepath.Ext(path)), content)
}

// ExtractBytes extracts content that was read from a file called name.
// The kind is resolved from name's extension; source tags the blocks.
func (e *Extractor) ExtractBytes(content []byte, name, source string) (*models.Document, error) {
	kind, err := models.ResolveSourceKind(name)
	if err != nil {
		return nil, err
	}
	return e.document(source, kind, strings.ToLower(filepath.Ext(name)), content)
}

func (e *Extractor) document(source string, kind models.SourceKind, ext string, content []byte) (*models.Document, error) {
	texts, err := extractTexts(kind, ext, content)
	if err != nil {
		return nil, err
	}
	doc := &models.Document{
		Source:      source,
		Kind:        kind,
		Blocks:      toBlocks(texts, source),
		ExtractedAt: time.Now(),
	}
	if !doc.HasText() {
		return nil, fmt.Errorf("%s: %w", source, models.ErrEmptyInput)
	}
	e.logger.Debug("extracted",
		zap.String("source", source),
		zap.Stringer("kind", kind),
		zap.Int("blocks", len(doc.Blocks)),
	)
	return doc, nil
}

func extractTexts(kind models.SourceKind, ext string, content []byte) ([]string, error) {
	switch kind {
	case models.KindPDF:
		return extractPDF(content)
	case models.KindWord:
		if ext == ".docx" {
			return extractDOCX(content)
		}
		return extractWordCat(content)
	case models.KindHTML:
		return extractHTML(content)
	case models.KindSpreadsheet:
		if ext == ".ods" {
			return extractODS(content)
		}
		return extractExcel(content)
	case models.KindText:
		return extractPlain(content)
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedSource, kind)
	}
}

// toBlocks trims texts and drops the empty ones.
func toBlocks(texts []string, source string) []models.Block {
	blocks := make([]models.Block, 0, len(texts))
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		blocks = append(blocks, models.Block{Text: t, Source: source})
	}
	return blocks
}
