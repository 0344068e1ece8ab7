// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	POST /v1/layout        graph document in, layout document out
//	GET  /v1/layout/{id}   a layout stored by an earlier POST
//	POST /v1/region        resolve a placement inside a parent rectangle
//	GET  /healthz          liveness probe
//
// Errors are returned as {"code": ..., "message": ...} with the HTTP status
// derived from the error code.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stacklayout/pkg/buildinfo"
	"github.com/matzehuels/stacklayout/pkg/config"
	"github.com/matzehuels/stacklayout/pkg/observability"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown after the context ends.
const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API.
type Server struct {
	runner       *pipeline.Runner
	logger       *log.Logger
	maxBodyBytes int64
}

// New creates a server backed by runner. A nil logger uses log.Default().
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	maxBody := int64(config.DefaultMaxBodyBytes)
	if runner.Config != nil && runner.Config.Server.MaxBodyBytes > 0 {
		maxBody = runner.Config.Server.MaxBodyBytes
	}
	return &Server{runner: runner, logger: logger, maxBodyBytes: maxBody}
}

// Handler returns the router with all routes and middleware registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Get("/layout/{id}", s.handleGetLayout)
		r.Post("/region", s.handleRegion)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Code: "NOT_FOUND", Message: "no route for " + r.URL.Path})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed on " + r.URL.Path})
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

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr, "version", buildinfo.Version)
		if err := srv.ListenAndServe(); !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// observe attaches a request-scoped logger to the context, logs each
// request and fires the HTTP observability hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))
		ctx := log.WithContext(r.Context(), logger)
		r = r.WithContext(ctx)

		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rc := chi.RouteContext(ctx); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		duration := time.Since(start)
		observability.HTTP().OnResponse(ctx, r.Method, route, status, duration)
		logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", duration)
	})
}
