// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/semaphore"

	"github.com/ppiankov/isnad/internal/cache"
	"github.com/ppiankov/isnad/internal/model"
	"github.com/ppiankov/isnad/internal/pipeline"
)

// Runner analyzes one narration
type Runner interface {
	Run(ctx context.Context, text string) (*model.Report, error)
}

// Server serves the JSON API
type Server struct {
	router *chi.Mux
	runner Runner
	store  *cache.LatestStore
	config model.ServerConfig

	// caps concurrent provider calls; nil when unlimited
	inflight *semaphore.Weighted
	renderer *pipeline.Renderer
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a server. store may be nil, in which case /api/latest is always empty.
func New(runner Runner, store *cache.LatestStore, config model.ServerConfig, accessLog bool) *Server {
	s := &Server{
		router: chi.NewRouter(),
		runner: runner,
		store:  store,
		config: config,
		// HTML and Markdown views carry the footer
		renderer: pipeline.NewRenderer(nil, true),
	}
	if config.MaxInFlight > 0 {
		s.inflight = semaphore.NewWeighted(int64(config.MaxInFlight))
	}

	s.router.Use(middleware.RequestID)
	if accessLog {
		s.router.Use(middleware.Logger)
	}
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/latest", s.handleLatest)
	})

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", s.config.Addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze accepts {"text": "..."} or a text/plain body
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.config.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	}

	text, err := readText(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.inflight != nil {
		if err := s.inflight.Acquire(r.Context(), 1); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy")
			return
		}
		defer s.inflight.Release(1)
	}

	report, err := s.runner.Run(r.Context(), text)
	if err != nil {
		var cfgErr *model.ConfigurationError
		switch {
		case errors.Is(err, pipeline.ErrEmptyInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &cfgErr):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleLatest serves the stored report as JSON, or as Markdown or HTML via ?format=
func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "no analysis yet")
		return
	}

	report, ok, err := s.store.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no analysis yet")
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, report)
	case "md", "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_ = s.renderer.WriteMarkdown(w, report)
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = s.renderer.WriteHTML(w, report)
	default:
		writeError(w, http.StatusBadRequest, "unknown format (supported: json, md, html)")
	}
}

func readText(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "text/plain" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(body)), nil
	}

	var req analyzeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", err
		}
		return "", fmt.Errorf("invalid request body: %w", err)
	}
	return strings.TrimSpace(req.Text), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
