package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/baig/gopandoc/core/pandoc"
)

const headerWire = `[{"unMeta":{}},[{"t":"Header","c":[1,["test",[],[]],[{"t":"Str","c":"Test"}]]}]]`

// newTestServer builds a Server whose pipeline is backed by a stub
// runner instead of the pandoc binary.
func newTestServer(t *testing.T, cfg Config, run pandoc.Runner) *Server {
	t.Helper()
	if run == nil {
		run = func(ctx context.Context, source string) (string, error) {
			return headerWire, nil
		}
	}
	s, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	s.newConverter = func(opts pandoc.Options) *pandoc.Converter {
		return pandoc.NewWithRunner(run)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func TestHandleConvert(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	handler := s.Handler()

	rec := postJSON(t, handler, "/api/convert", ConvertRequest{Source: "# Test", Format: "markdown"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("success = false: %+v", resp.Error)
	}

	data, _ := json.Marshal(resp.Data)
	var result ConvertResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Format != "markdown" {
		t.Errorf("Format = %q", result.Format)
	}
	if result.Blocks != 1 {
		t.Errorf("Blocks = %d, want 1", result.Blocks)
	}
	if result.Cached {
		t.Error("first conversion reported as cached")
	}
	if !strings.Contains(string(result.Document), `"Header"`) {
		t.Errorf("document missing Header: %s", result.Document)
	}
}

func TestHandleConvertDetectsFormat(t *testing.T) {
	s := newTestServer(t, Config{}, nil)

	rec := postJSON(t, s.Handler(), "/api/convert", ConvertRequest{
		Source:   `\documentclass{article}`,
		Filename: "paper.tex",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	data, _ := json.Marshal(resp.Data)
	var result ConvertResult
	json.Unmarshal(data, &result)
	if result.Format != "latex" {
		t.Errorf("detected Format = %q (%s), want latex", result.Format, result.Reason)
	}
}

func TestHandleConvertCached(t *testing.T) {
	cfg := Config{CachePath: filepath.Join(t.TempDir(), "cache.db")}
	calls := 0
	s := newTestServer(t, cfg, func(ctx context.Context, source string) (string, error) {
		calls++
		return headerWire, nil
	})
	handler := s.Handler()

	req := ConvertRequest{Source: "# Test", Format: "markdown"}
	if rec := postJSON(t, handler, "/api/convert", req); rec.Code != http.StatusOK {
		t.Fatalf("first convert: %d", rec.Code)
	}

	rec := postJSON(t, handler, "/api/convert", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("second convert: %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data, _ := json.Marshal(resp.Data)
	var result ConvertResult
	json.Unmarshal(data, &result)
	if !result.Cached {
		t.Error("second conversion not served from cache")
	}
	if calls != 1 {
		t.Errorf("runner invoked %d times, want 1", calls)
	}
}

func TestHandleConvertErrors(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		s := newTestServer(t, Config{}, nil)
		rec := postJSON(t, s.Handler(), "/api/convert", ConvertRequest{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		s := newTestServer(t, Config{}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		s := newTestServer(t, Config{}, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/convert", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})

	t.Run("converter failure maps to 502", func(t *testing.T) {
		s := newTestServer(t, Config{}, func(ctx context.Context, source string) (string, error) {
			return "", fmt.Errorf("pandoc not found")
		})
		rec := postJSON(t, s.Handler(), "/api/convert", ConvertRequest{Source: "x", Format: "markdown"})
		if rec.Code != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", rec.Code)
		}
		resp := decodeResponse(t, rec)
		if resp.Error == nil || resp.Error.Code != "CONVERTER_FAILED" {
			t.Errorf("error = %+v", resp.Error)
		}
	})

	t.Run("bad converter output maps to 422", func(t *testing.T) {
		s := newTestServer(t, Config{}, func(ctx context.Context, source string) (string, error) {
			return `[{"unMeta":{}},[{"t":"Nope","c":[]}]]`, nil
		})
		rec := postJSON(t, s.Handler(), "/api/convert", ConvertRequest{Source: "x", Format: "markdown"})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})
}

func TestHandleDetect(t *testing.T) {
	s := newTestServer(t, Config{}, nil)

	rec := postJSON(t, s.Handler(), "/api/detect", ConvertRequest{
		Source: `<?xml version="1.0"?><TEI><teiHeader/></TEI>`,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data, _ := json.Marshal(resp.Data)
	var result struct {
		Format string `json:"format"`
	}
	json.Unmarshal(data, &result)
	if result.Format != "tei" {
		t.Errorf("Format = %q, want tei", result.Format)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, Config{APIKey: "secret"}, nil)
	handler := s.Handler()

	t.Run("missing key", func(t *testing.T) {
		rec := postJSON(t, handler, "/api/convert", ConvertRequest{Source: "x"})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(`{"source":"x"}`))
		req.Header.Set("X-API-Key", "wrong")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("correct key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(`{"source":"# Test","format":"markdown"}`))
		req.Header.Set("X-API-Key", "secret")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("health stays open", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}
