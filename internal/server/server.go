// Package server exposes the composition pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness, build, host info and counters
//	GET  /v1/themes        built-in themes
//	POST /v1/compose       compose a presentation; ?format=svg,pdf adds artifacts
//	GET  /v1/runs          recent runs, newest first; ?limit=N
//	GET  /v1/runs/{id}     one run
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/slidesmith/pkg/buildinfo"
	"github.com/matzehuels/slidesmith/pkg/compose"
	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/history"
	"github.com/matzehuels/slidesmith/pkg/observability"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
	"github.com/matzehuels/slidesmith/pkg/render"
)

// Defaults.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 8 << 20
	DefaultTimeout      = 60 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	history history.Store
	logger  *log.Logger
	maxBody int64
	timeout time.Duration
	stats   *observability.Counters
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBodyBytes caps the size of compose requests.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithCounters reports c in the health response.
func WithCounters(c *observability.Counters) Option {
	return func(s *Server) { s.stats = c }
}

// New returns a server backed by runner. Runs are listed from the runner's
// history store; without one the run routes answer 501.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		history: runner.History,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		maxBody: DefaultMaxBodyBytes,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/themes", s.handleThemes)
		r.Post("/compose", s.handleCompose)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// logRequests logs each request and reports it to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Info("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
		"system": readSystemInfo(r.Context()),
	}
	if s.stats != nil {
		body["stats"] = s.stats.Snapshot()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	names := deck.ThemeNames()
	themes := make([]deck.Theme, 0, len(names))
	for _, name := range names {
		if th, ok := deck.LookupTheme(name); ok {
			themes = append(themes, th)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"themes": themes})
}

// composeResponse is the body of POST /v1/compose.
type composeResponse struct {
	RunID     string            `json:"runId"`
	Theme     string            `json:"theme"`
	Summary   compose.Summary   `json:"summary"`
	Failures  []compose.Failure `json:"failures,omitempty"`
	Plans     any               `json:"plans"`
	Artifacts []artifact        `json:"artifacts,omitempty"`
	Cached    bool              `json:"cached"`
}

type artifact struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Slide  int    `json:"slide"`
	Data   []byte `json:"data"`
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	in, err := deck.ReadJSON(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Formats: []string{render.FormatJSON},
		Refresh: r.URL.Query().Get("refresh") == "true",
	}
	if f := r.URL.Query().Get("format"); f != "" {
		opts.Formats = strings.Split(f, ",")
	}
	res, err := s.runner.Execute(r.Context(), in, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	body := composeResponse{
		RunID:    res.Compose.RunID,
		Theme:    res.Compose.Theme,
		Summary:  res.Compose.Summary,
		Failures: res.Compose.Failures,
		Plans:    res.Compose.Plans,
		Cached:   res.CacheInfo.ComposeHit,
	}
	for _, a := range res.Artifacts {
		if a.Format == render.FormatJSON {
			continue
		}
		body.Artifacts = append(body.Artifacts, artifact{Name: a.Name("slides"), Format: a.Format, Slide: a.Slide, Data: a.Data})
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "run history is disabled"))
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	runs, err := s.history.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if runs == nil {
		runs = []history.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "run history is disabled"))
		return
	}
	rec, err := s.history.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Code: errors.ErrCodeInvalidInput, Message: "request body too large"})
		return
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorBody{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSettings, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidTheme, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
