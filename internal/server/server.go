package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/crimson-sun/artisanize/internal/config"
	"github.com/crimson-sun/artisanize/internal/connector"
	"github.com/crimson-sun/artisanize/internal/connector/httpclient"
	"github.com/crimson-sun/artisanize/internal/engine"
	"github.com/crimson-sun/artisanize/internal/model"
	"github.com/crimson-sun/artisanize/internal/output"
	"github.com/crimson-sun/artisanize/internal/pipeline"
)

const maxBodyBytes = 64 << 20

// Conversion outcomes used as metric labels.
const (
	resultOK           = "ok"
	resultBadRequest   = "bad_request"
	resultMissingField = "missing_field"
	resultMalformed    = "malformed"
	resultRetrieval    = "retrieval"
	resultError        = "error"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithMetrics sets the metrics collectors. Default: NewMetrics().
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// Server exposes roast conversion over HTTP.
type Server struct {
	converter pipeline.Converter
	remote    connector.Source
	metrics   *Metrics
	log       *slog.Logger
	handler   http.Handler
}

// New creates a Server. remote serves GET /roasts/{id}.
func New(conv pipeline.Converter, remote connector.Source, opts ...Option) *Server {
	s := &Server{
		converter: conv,
		remote:    remote,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	s.handler = s.routes()
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.metrics.Middleware)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/convert", s.convert).Methods(http.MethodPost)
	r.HandleFunc("/roasts/{id:[A-Za-z0-9_-]+}", s.roast).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	// mux skips Use middleware when no route matches.
	r.NotFoundHandler = s.metrics.Middleware(http.HandlerFunc(s.notFound))
	r.MethodNotAllowedHandler = s.metrics.Middleware(http.HandlerFunc(s.methodNotAllowed))

	return withRequestID(withAccessLog(s.log, withRecovery(s.log, r)))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr, "version", config.Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": config.Version})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.fail(w, r, http.StatusNotFound, fmt.Errorf("no route for %s", r.URL.Path))
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.fail(w, r, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed on %s", r.Method, r.URL.Path))
}

func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	var rec model.RoastRecord
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&rec); err != nil {
		s.metrics.Conversion(resultBadRequest, 0)
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("decode roast record: %w", err))
		return
	}
	s.respond(w, r, rec)
}

func (s *Server) roast(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, err := s.remote.Fetch(r.Context(), id)
	if err != nil {
		s.metrics.Conversion(resultRetrieval, 0)
		s.fail(w, r, retrievalStatus(err), err)
		return
	}
	s.respond(w, r, rec)
}

// respond converts rec and writes the Artisan profile as an attachment.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, rec model.RoastRecord) {
	p, err := s.converter.Convert(rec)
	if err != nil {
		status, result := http.StatusInternalServerError, resultError
		switch {
		case errors.Is(err, engine.ErrMissingField):
			status, result = http.StatusUnprocessableEntity, resultMissingField
		case errors.Is(err, engine.ErrMalformedData):
			status, result = http.StatusUnprocessableEntity, resultMalformed
		}
		s.metrics.Conversion(result, 0)
		s.fail(w, r, status, err)
		return
	}
	s.metrics.Conversion(resultOK, len(p.Rows))

	name := output.DefaultFilename(p.Summary.RoastName, p.Summary.UID)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(p.Bytes())
}

// retrievalStatus maps an upstream 404 through and everything else to 502.
func retrievalStatus(err error) int {
	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	id := RequestID(r.Context())
	s.log.Warn("request failed", "request_id", id, "status", status, "err", err)
	writeJSON(w, status, map[string]string{"error": err.Error(), "requestId": id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
