// Package webserver exposes the REST API: search, video metadata,
// transcripts, summaries, format listing, and downloads. Handlers are thin:
// validate, consult the cache, call the engine, translate errors.
package webserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/transcript"
)

// Per-route cache TTLs. Metadata and search churn faster than transcripts,
// which never change once captions exist.
const (
	searchTTL     = 15 * time.Minute
	videoTTL      = time.Hour
	transcriptTTL = 6 * time.Hour
	summaryTTL    = 24 * time.Hour
	formatsTTL    = 30 * time.Minute
)

// Config wires the server's collaborators. Cache and Limiter are required.
type Config struct {
	Addr                 string
	Cache                *engine.Cache
	Limiter              *engine.RateLimiter
	SummarizeMaxRequests int
	SummarizeWindow      time.Duration
	NormalizerOptions    transcript.Options
}

// Server is the REST front end.
type Server struct {
	cfg Config
	mux *http.ServeMux
}

// New creates a Server with all routes registered.
func New(cfg Config) *Server {
	if cfg.SummarizeMaxRequests <= 0 {
		cfg.SummarizeMaxRequests = 10
	}
	if cfg.SummarizeWindow <= 0 {
		cfg.SummarizeWindow = 60 * time.Second
	}

	s := &Server{cfg: cfg, mux: http.NewServeMux()}
	s.mux.HandleFunc("/api/youtube/search", s.handleSearch)
	s.mux.HandleFunc("/api/youtube/video/", s.handleVideo)
	s.mux.HandleFunc("/api/youtube/transcript/", s.handleTranscript)
	s.mux.HandleFunc("/api/youtube/summarize", s.handleSummarize)
	s.mux.HandleFunc("/api/youtube/download/formats", s.handleFormats)
	s.mux.HandleFunc("/api/youtube/download/", s.handleDownload)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/metrics", s.handleMetrics)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the server and shuts down gracefully when ctx is
// cancelled. WriteTimeout is deliberately absent: downloads stream for
// minutes.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", slog.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(engine.FormatMetrics()))
}
