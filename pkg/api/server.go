// Health and status HTTP surface for the bot process.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nkval/teleclaw/pkg/logger"
)

// StatusSource reports live counters from the dispatch core.
type StatusSource interface {
	ProcessedCount() int64
	SessionCount() int64
}

// Server exposes GET /api/health (public) and GET /api/status (token-gated).
type Server struct {
	addr           string
	apiKey         string
	authorizedUser string
	source         StatusSource
	channelCount   int
	startTime      time.Time
	httpServer     *http.Server
}

func NewServer(addr, apiKey, authorizedUser string, source StatusSource, channelCount int) *Server {
	s := &Server{
		addr:           addr,
		apiKey:         apiKey,
		authorizedUser: authorizedUser,
		source:         source,
		channelCount:   channelCount,
		startTime:      time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/status", s.handleStatus)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           authMiddleware(apiKey, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start listens in the background. Server errors after startup are logged,
// not fatal; the bot keeps running without its status surface.
func (s *Server) Start() {
	logger.InfoCF("api", "status server listening", map[string]any{"addr": s.addr})
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ErrorCF("api", "status server stopped", map[string]any{"error": err.Error()})
		}
	}()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handleHealth is the public orchestration surface: process status, count of
// processed message ids, and the configured authorized user.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var processed int64
	if s.source != nil {
		processed = s.source.ProcessedCount()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"processed":       processed,
		"authorized_user": s.authorizedUser,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var processed, sessions int64
	if s.source != nil {
		processed = s.source.ProcessedCount()
		sessions = s.source.SessionCount()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"uptime":          time.Since(s.startTime).Round(time.Second).String(),
		"processed":       processed,
		"sessions":        sessions,
		"channels":        s.channelCount,
		"authorized_user": s.authorizedUser,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WarnCF("api", "response encode failed", map[string]any{"error": err.Error()})
	}
}
