package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/tanya/internal/extract"
	"github.com/hyperjump/tanya/internal/models"
)

type ingestRequest struct {
	URL string `json:"url"`
}

type ingestResponse struct {
	Message string         `json:"message"`
	Status  *models.Status `json:"status"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		doc *models.Document
		err error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		doc, err = s.ingestMultipart(w, r)
	case "application/json":
		var req ingestRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		doc, err = s.ingestURL(r, req.URL)
	default:
		doc, err = s.ingestURL(r, r.FormValue("url"))
	}
	if err != nil {
		s.respondErr(w, err)
		return
	}

	s.logger.Debug("ingest request", zap.String("source", doc.Source), zap.Stringer("kind", doc.Kind))
	status, err := s.session.Ingest(ctx, doc.Blocks)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, ingestResponse{
		Message: fmt.Sprintf("%s processed successfully", doc.Kind),
		Status:  status,
	})
}

// ingestMultipart saves the uploaded file to a temporary location,
// extracts it and removes it again.
func (s *Server) ingestMultipart(w http.ResponseWriter, r *http.Request) (*models.Document, error) {
	maxBytes := s.config.MaxUploadBytes()
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		return nil, badRequest("invalid multipart form: " + err.Error())
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return s.ingestURL(r, r.FormValue("url"))
	}
	if err != nil {
		return nil, badRequest("invalid file upload")
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	kind, err := models.ResolveSourceKind(name)
	if err != nil {
		return nil, err
	}
	if !kind.Uploadable() {
		return nil, fmt.Errorf("%w: %s uploads are not accepted", models.ErrUnsupportedSource, kind)
	}

	tmp := filepath.Join(os.TempDir(), "tanya-"+uuid.New().String()+strings.ToLower(filepath.Ext(name)))
	out, err := os.Create(tmp)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	defer os.Remove(tmp)
	if _, err := io.Copy(out, file); err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("save upload: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	return s.extractor.ExtractFile(tmp, name)
}

func (s *Server) ingestURL(r *http.Request, raw string) (*models.Document, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, badRequest("a file or url is required")
	}
	if !models.IsURL(raw) {
		return nil, badRequest("url must be an absolute http(s) URL")
	}
	return s.extractor.Extract(r.Context(), raw)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	answer, err := s.session.Ask(r.Context(), req.Query)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, answer)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.session.Clear()
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "session cleared"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.session.Status())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	turns, err := s.session.History(r.Context(), limit)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"turns": turns})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{msg: msg} }

// statusFor maps an error to its HTTP status code.
func statusFor(err error) int {
	var reqErr *requestError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, models.ErrSessionNotReady):
		return http.StatusConflict
	case errors.Is(err, models.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrEmptyQuery), errors.Is(err, models.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnsupportedSource):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, models.ErrEmbeddingService),
		errors.Is(err, models.ErrGenerationService),
		errors.Is(err, extract.ErrFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		s.logger.Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}
	s.respondError(w, status, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
