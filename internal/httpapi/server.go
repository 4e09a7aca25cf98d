// Package httpapi serves the local HTTP API consumed by the frontend. It
// exposes scans, comparisons, findings and the snapshot store as JSON
// endpoints, plus a Server-Sent Events stream for scan progress.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/diskscout/diskscout/pkg/config"
	"github.com/diskscout/diskscout/pkg/logging"
	"github.com/diskscout/diskscout/pkg/models"
	"github.com/diskscout/diskscout/pkg/output"
	"github.com/diskscout/diskscout/pkg/snapshot"
)

const shutdownTimeout = 5 * time.Second

// Server serves the HTTP API
type Server struct {
	cfg     *config.Config
	store   *snapshot.Store
	logger  logging.Logger
	version string

	mu         sync.RWMutex
	lastReport *output.ScanReport
}

// NewServer creates an API server backed by the given snapshot store
func NewServer(cfg *config.Config, store *snapshot.Store, logger logging.Logger, version string) *Server {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Server{
		cfg:     cfg,
		store:   store,
		logger:  logger,
		version: version,
	}
}

// Handler returns the middleware-wrapped API handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/compare", s.handleCompare)
	mux.HandleFunc("POST /api/scan", s.handleScan)
	mux.HandleFunc("GET /api/scan/stream", s.handleScanStream)
	mux.HandleFunc("GET /api/findings", s.handleFindings)
	mux.HandleFunc("GET /api/extensions-summary", s.handleExtensions)
	mux.HandleFunc("GET /api/snapshots", s.handleSnapshotList)
	mux.HandleFunc("POST /api/snapshots", s.handleSnapshotCreate)
	mux.HandleFunc("GET /api/snapshots/{id}", s.handleSnapshotGet)
	mux.HandleFunc("PUT /api/snapshots/{id}", s.handleSnapshotUpdate)
	mux.HandleFunc("DELETE /api/snapshots/{id}", s.handleSnapshotDelete)

	return s.withCORS(s.withLogging(mux))
}

// Run serves the API until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "http api listening", logging.Fields{"addr": s.cfg.Server.Listen})

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		<-errChan
		s.logger.Info(context.Background(), "http api stopped", nil)
		return nil

	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http api failed: %w", err)
	}
}

// statusRecorder captures the response status for request logging. It
// forwards Flush so SSE streaming works through the middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// withLogging logs every handled request through the ambient logger
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info(r.Context(), "request handled", logging.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   recorder.status,
			"duration": time.Since(start).String(),
		})
	})
}

// withCORS answers preflight requests and allows the configured origins
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if allowed := s.allowedOrigin(r.Header.Get("Origin")); allowed != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowedOrigin returns the Access-Control-Allow-Origin value for an
// origin, or empty when it is not allowed
func (s *Server) allowedOrigin(origin string) string {
	if origin == "" {
		return ""
	}
	for _, allowed := range s.cfg.Server.CORSOrigins {
		if allowed == "*" {
			return "*"
		}
		if allowed == origin {
			return origin
		}
	}
	return ""
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(context.Background(), "failed to encode response", err, nil)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeOperationError maps scan and comparison failures to status codes:
// bad paths and options are client errors, everything else is a 500
func (s *Server) writeOperationError(w http.ResponseWriter, err error) {
	var pathErr *models.PathError
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &pathErr), errors.As(err, &validationErr):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeStoreError maps snapshot store failures to status codes
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, snapshot.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "snapshot not found")
		return
	}
	s.writeError(w, http.StatusInternalServerError, err.Error())
}
