// Package server exposes graph compilation over HTTP.
//
// Routes:
//
//	GET  /healthz       liveness and build info
//	GET  /v1/nodes      node catalog, optionally ?class=math
//	POST /v1/compile    JSON graph document -> compiled shader
//	POST /v1/graph      JSON graph document -> diagram (?format=svg|dot&detailed=true)
//
// Domain errors are answered with 400 and a body of {"code": ..., "error": ...}
// carrying the error code from pkg/errors. Each request builds its own
// engine, so requests never share graph state; the cache is shared.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/shadergraph/pkg/buildinfo"
	apperr "github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
	sgio "github.com/matzehuels/shadergraph/pkg/io"
	"github.com/matzehuels/shadergraph/pkg/nodes"
	"github.com/matzehuels/shadergraph/pkg/observability"
	"github.com/matzehuels/shadergraph/pkg/pipeline"
)

// Defaults for [Config].
const (
	DefaultMaxBodyBytes    = 1 << 20
	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr     string
	Runner   *pipeline.Runner
	Registry *nodes.Registry
	Logger   *log.Logger

	// Uniforms overrides document uniforms for every compile when set.
	Uniforms []string

	MaxBodyBytes    int64
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Server is the shadergraph HTTP API.
type Server struct {
	cfg    Config
	router chi.Router
}

// New creates a server. Zero fields in cfg take their defaults.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Registry == nil {
		cfg.Registry = nodes.Builtin()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default().WithPrefix("server")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{cfg: cfg}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, for embedding or httptest.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/nodes", s.handleNodes)
		r.Post("/compile", s.handleCompile)
		r.Post("/graph", s.handleGraph)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.cfg.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// logRequests logs each request and reports it to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := observability.WithSession(r.Context(), middleware.GetReqID(r.Context()))
		r = r.WithContext(ctx)
		hooks := observability.HTTP()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		hooks.OnResponse(ctx, r.Method, r.URL.Path, status, dur)
		s.cfg.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", dur)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	catalog := s.cfg.Registry.Describe(graph.Class(r.URL.Query().Get("class")))
	if catalog == nil {
		catalog = []nodes.Info{}
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.cfg.Runner.Compile(r.Context(), pipeline.Options{
		Document: doc,
		Uniforms: s.cfg.Uniforms,
		Registry: s.cfg.Registry,
		Refresh:  r.URL.Query().Get("refresh") == "true",
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts := pipeline.Options{
		Document: doc,
		Uniforms: s.cfg.Uniforms,
		Registry: s.cfg.Registry,
		Format:   r.URL.Query().Get("format"),
	}
	if v := r.URL.Query().Get("detailed"); v != "" {
		if opts.Detailed, err = strconv.ParseBool(v); err != nil {
			s.writeError(w, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "detailed=%q", v))
			return
		}
	}

	data, err := s.cfg.Runner.Diagram(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	contentType := "image/svg+xml"
	if opts.Format == pipeline.FormatDOT {
		contentType = "text/vnd.graphviz; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (*sgio.Document, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer body.Close()
	return sgio.ReadJSON(body)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code  apperr.Code `json:"code"`
	Error string      `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperr.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed", "err", err)
		writeJSON(w, status, errorBody{Code: apperr.ErrCodeInternal, Error: "internal error"})
		return
	}
	writeJSON(w, status, errorBody{Code: code, Error: err.Error()})
}

// statusFor maps error codes to HTTP statuses. Uncoded errors are internal.
func statusFor(code apperr.Code) int {
	switch code {
	case "", apperr.ErrCodeInternal:
		return http.StatusInternalServerError
	case apperr.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// headers are already sent, an encode failure cannot be reported
	_ = json.NewEncoder(w).Encode(v)
}
