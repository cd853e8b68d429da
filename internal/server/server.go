// Package server implements the HTTP and WebSocket API surface.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/huddlebot/huddlebot/internal/agent"
	"github.com/huddlebot/huddlebot/internal/schema"
)

// ChatService is the slice of the agent service the server needs. Tests
// substitute a stub.
type ChatService interface {
	HandleTurn(ctx context.Context, userID, message string, onProgress func(tool string)) (*agent.Reply, error)
	Reset(userID string) error
	History(userID string) ([]schema.Message, error)
}

// writeJSON encodes v as JSON to w, logging any errors at debug level.
// Errors here typically mean the client disconnected mid-response.
func writeJSON(w http.ResponseWriter, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to write JSON response", "error", err)
	}
}

// Server is the HTTP API server.
type Server struct {
	address          string
	port             int
	chat             ChatService
	diagramsDir      string
	apiKeyConfigured bool
	logger           *slog.Logger
	server           *http.Server
}

// NewServer creates the API server.
func NewServer(address string, port int, chat ChatService, diagramsDir string, apiKeyConfigured bool, logger *slog.Logger) *Server {
	return &Server{
		address:          address,
		port:             port,
		chat:             chat,
		diagramsDir:      diagramsDir,
		apiKeyConfigured: apiKeyConfigured,
		logger:           logger.With("component", "server"),
	}
}

// Handler builds the route table. Exposed separately so tests can drive it
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.Handle("GET /diagrams/", http.StripPrefix("/diagrams/",
		http.FileServer(http.Dir(s.diagramsDir))))

	return s.withRequestID(s.withLogging(mux))
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.address, s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // turns can run the full budget
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "address", s.address, "port", s.port)
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
		return ctx.Err()
	}
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get("X-Request-ID"),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	Success   bool   `json:"success"`
	Response  string `json:"response,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, chatResponse{Success: false, Error: "user_id and message are required"}, s.logger)
		return
	}
	if req.UserID == "" {
		req.UserID = "web:default"
	}

	reply, err := s.chat.HandleTurn(r.Context(), req.UserID, req.Message, nil)
	if err != nil {
		s.logger.Error("chat turn failed", "user", req.UserID, "error", err)
		w.WriteHeader(http.StatusBadGateway)
		writeJSON(w, chatResponse{Success: false, Error: "the model is unavailable right now"}, s.logger)
		return
	}
	writeJSON(w, chatResponse{Success: true, Response: reply.Text, Truncated: reply.Truncated}, s.logger)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]any{"success": false, "error": "user_id is required"}, s.logger)
		return
	}
	if err := s.chat.Reset(req.UserID); err != nil {
		s.logger.Error("reset failed", "user", req.UserID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, map[string]any{"success": false, "error": "reset failed"}, s.logger)
		return
	}
	writeJSON(w, map[string]any{"success": true}, s.logger)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"status":             "healthy",
		"api_key_configured": s.apiKeyConfigured,
	}, s.logger)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]any{"success": false, "error": "user_id is required"}, s.logger)
		return
	}
	history, err := s.chat.History(userID)
	if err != nil {
		s.logger.Error("history lookup failed", "user", userID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, map[string]any{"success": false, "error": "history lookup failed"}, s.logger)
		return
	}
	if history == nil {
		history = []schema.Message{}
	}
	writeJSON(w, map[string]any{"success": true, "history": history}, s.logger)
}
