// Package api provides the gopandoc REST API server: synchronous and
// asynchronous document conversion plus a WebSocket progress feed.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/baig/gopandoc/core/errors"
	"github.com/baig/gopandoc/core/pandoc"
	"github.com/baig/gopandoc/core/wire"
	"github.com/baig/gopandoc/internal/cache"
	"github.com/baig/gopandoc/internal/detect"
	"github.com/baig/gopandoc/internal/logging"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ConvertRequest is the request body for conversion.
type ConvertRequest struct {
	// Source is the document text to convert.
	Source string `json:"source"`

	// Format is the pandoc input format; empty triggers detection.
	Format string `json:"format,omitempty"`

	// Filename hints format detection for unlabeled sources.
	Filename string `json:"filename,omitempty"`

	// Math selects the math rendering flag.
	Math string `json:"math,omitempty"`
}

// ConvertResult is the result of a conversion.
type ConvertResult struct {
	Format   string          `json:"format"`
	Reason   string          `json:"format_reason,omitempty"`
	Document json.RawMessage `json:"document"`
	Blocks   int             `json:"blocks"`
	Cached   bool            `json:"cached"`
}

// convert resolves the input format, consults the cache, and runs the
// conversion pipeline. It is shared by the sync handler and job runner.
func (s *Server) convert(ctx context.Context, req ConvertRequest, progress func(stage string, pct int)) (*ConvertResult, error) {
	if progress == nil {
		progress = func(string, int) {}
	}

	format := req.Format
	reason := "requested"
	if format == "" {
		progress("detect", 10)
		d := detect.Source(req.Filename, []byte(req.Source))
		format, reason = d.Format, d.Reason
	}

	result := &ConvertResult{Format: format, Reason: reason}

	key := cache.Key(format, req.Math, req.Source)
	if s.cache != nil {
		if doc, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			result.Document = doc
			result.Cached = true
			progress("done", 100)
			return result, nil
		}
	}

	progress("convert", 30)
	conv := s.newConverter(pandoc.Options{
		Path: s.cfg.PandocPath,
		From: format,
		Math: pandoc.MathMode(req.Math),
	})
	start := time.Now()
	doc, err := conv.Convert(ctx, req.Source)
	if err != nil {
		logging.ConversionError(format, err)
		return nil, err
	}

	progress("encode", 80)
	encoded, err := wire.EncodeDocument(doc)
	if err != nil {
		return nil, err
	}
	result.Document = encoded
	result.Blocks = len(doc.Blocks)

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, format, encoded); err != nil {
			logging.Warn("cache store failed", "error", err)
		}
	}

	logging.Conversion(format, len(req.Source), len(doc.Blocks), time.Since(start))
	progress("done", 100)
	return result, nil
}

// handleConvert handles POST /api/convert - synchronous conversion.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if req.Source == "" {
		respondError(w, http.StatusBadRequest, "MISSING_PARAMS", "source is required")
		return
	}

	result, err := s.convert(r.Context(), req, nil)
	if err != nil {
		respondConvertError(w, err)
		return
	}
	respond(w, http.StatusOK, result)
}

// handleDetect handles POST /api/detect - format detection only.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	respond(w, http.StatusOK, detect.Source(req.Filename, []byte(req.Source)))
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondConvertError maps pipeline errors to HTTP status codes: bad
// input decodes to 422, external tool failures to 502.
func respondConvertError(w http.ResponseWriter, err error) {
	var toolErr *errors.ExternalToolError
	if errors.As(err, &toolErr) {
		respondError(w, http.StatusBadGateway, "CONVERTER_FAILED", err.Error())
		return
	}
	if errors.Is(err, errors.ErrInvalidInput) {
		respondError(w, http.StatusUnprocessableEntity, "DECODE_FAILED", err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
