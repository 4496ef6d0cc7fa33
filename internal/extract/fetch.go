package extract

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"

	"go.uber.org/zap"

	"github.com/hyperjump/tanya/internal/models"
)

// fetch downloads a web page. A PDF response is extracted as a PDF,
// anything else as HTML.
func (e *Extractor) fetch(ctx context.Context, url string) ([]byte, models.SourceKind, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, models.KindUnknown, fmt.Errorf("build request: %w", err)
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, models.KindUnknown, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, models.KindUnknown, fmt.Errorf("%w: %s: unexpected status %s", ErrFetch, url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes+1))
	if err != nil {
		return nil, models.KindUnknown, fmt.Errorf("%w: read %s: %w", ErrFetch, url, err)
	}
	if int64(len(body)) > e.maxBytes {
		return nil, models.KindUnknown, fmt.Errorf("%w: %s: response exceeds %d bytes", ErrFetch, url, e.maxBytes)
	}

	kind := models.KindHTML
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && mt == "application/pdf" {
		kind = models.KindPDF
	}
	e.logger.Debug("fetched", zap.String("url", url), zap.Int("bytes", len(body)), zap.Stringer("kind", kind))
	return body, kind, nil
}
