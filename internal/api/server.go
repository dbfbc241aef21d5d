package api

import (
	"fmt"
	"net/http"

	"github.com/baig/gopandoc/core/pandoc"
	"github.com/baig/gopandoc/internal/cache"
	"github.com/baig/gopandoc/internal/logging"
)

// Server is the conversion API server.
type Server struct {
	cfg   Config
	cache *cache.Cache
	jobs  *JobStore
	hub   *Hub

	// newConverter builds the pipeline for a request; tests replace it
	// with a stub-backed constructor.
	newConverter func(pandoc.Options) *pandoc.Converter
}

// NewServer creates a Server. The conversion cache is opened from
// cfg.CachePath when set.
func NewServer(cfg Config) (*Server, error) {
	s := &Server{
		cfg:          cfg,
		jobs:         NewJobStore(),
		hub:          NewHub(),
		newConverter: pandoc.New,
	}

	if cfg.CachePath != "" {
		c, err := cache.Open(cfg.CachePath)
		if err != nil {
			return nil, err
		}
		s.cache = c
	}

	return s, nil
}

// Handler returns the server's HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/convert", s.handleConvert)
	mux.HandleFunc("/api/detect", s.handleDetect)
	mux.HandleFunc("/api/jobs", s.handleJobs)
	mux.HandleFunc("/api/jobs/", s.handleJobByID)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWebSocket)

	var handler http.Handler = mux
	if s.cfg.APIKey != "" {
		handler = s.authMiddleware(handler)
	}
	return logging.CombinedMiddleware(handler)
}

// authMiddleware requires the configured API key on /api routes. The
// health endpoint stays open for probes.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("X-API-Key") != s.cfg.APIKey {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start runs the hub and serves HTTP on the configured port. It blocks
// until the listener fails.
func (s *Server) Start() error {
	go s.hub.Run()

	logging.ServerStartup("rest_api", "http", s.cfg.Port,
		"cache", s.cfg.CachePath != "",
		"auth", s.cfg.APIKey != "")

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	return http.ListenAndServe(addr, s.Handler())
}

// Close releases server resources.
func (s *Server) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}
