// Package api implements the Pathways HTTP surface.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pathwaysai/pathways/internal/agent"
	"github.com/pathwaysai/pathways/internal/web"
)

// ShutdownTimeout bounds graceful shutdown after SIGINT/SIGTERM.
const ShutdownTimeout = 10 * time.Second

// writeJSON encodes v as JSON to w, logging failures at debug level.
// An error here typically means the client disconnected mid-response.
func writeJSON(w http.ResponseWriter, v any, logger *slog.Logger) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to write JSON response", "error", err)
	}
}

// Server is the HTTP API server.
type Server struct {
	address string
	port    int
	loop    *agent.Loop
	logger  *slog.Logger
	server  *http.Server
}

// NewServer creates a new API server.
func NewServer(address string, port int, loop *agent.Loop, logger *slog.Logger) *Server {
	return &Server{
		address: address,
		port:    port,
		loop:    loop,
		logger:  logger,
	}
}

// Handler builds the full route tree:
//
//   - POST /api/chat runs the completion loop
//   - any other method on /api/chat is 405
//   - any other /api/* path is 404
//   - GET /healthz reports liveness
//   - everything else is delegated to the static chat page
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Method dispatch is done by hand so that non-POST requests get 405
	// rather than falling through to the /api/ catch-all's 404.
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			s.errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		s.handleChat(w, r)
	})
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		s.errorResponse(w, http.StatusNotFound, "Not found")
	})

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("/", web.Handler())

	return s.withLogging(mux)
}

// Start begins serving HTTP requests.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.address, s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // the loop can make several engine calls
	}

	addr := s.address
	if addr == "" {
		addr = "0.0.0.0"
	}
	s.logger.Info("starting API server", "address", addr, "port", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// withLogging tags each request with an ID and logs method, path,
// status, and duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		requestID := uuid.NewString()

		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", requestID,
		)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush passes through to the underlying writer so the chat handler can
// flush its single chunk.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": message}, s.logger)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": "healthy"}, s.logger)
}
