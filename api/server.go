package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/wricardo/mcp-training/pathfinder/grid/engine"
	"github.com/wricardo/mcp-training/pathfinder/grid/service"
	"github.com/wricardo/mcp-training/pathfinder/transport/websocket"
)

// maxBodyBytes caps request bodies; the largest legal layout is 50x50
const maxBodyBytes = 64 << 10

// Broadcaster pushes board changes to live clients
type Broadcaster interface {
	BroadcastBoard(sessionID, event string, board *service.BoardState)
	BroadcastEvent(sessionID, event string, data any)
	ServeWS(w http.ResponseWriter, r *http.Request, sessionID string)
}

// Server represents the REST API server
type Server struct {
	service service.BoardService
	hub     Broadcaster
	router  *mux.Router
	logger  *slog.Logger
}

// NewServer creates a new API server. hub may be nil.
func NewServer(boardService service.BoardService, hub Broadcaster, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		service: boardService,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  logger.With("component", "api"),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Board editing
	api.HandleFunc("/sessions/{id}/board", s.handleGetBoard).Methods("GET")
	api.HandleFunc("/sessions/{id}/cells/{row:[0-9]+}/{col:[0-9]+}/cycle", s.handleCycleCell).Methods("POST")
	api.HandleFunc("/sessions/{id}/cells/{row:[0-9]+}/{col:[0-9]+}", s.handleSetCell).Methods("PUT")
	api.HandleFunc("/sessions/{id}/clear", s.handleClearBoard).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")

	// Pathfinding
	api.HandleFunc("/sessions/{id}/path", s.handleFindPath).Methods("POST")
	api.HandleFunc("/sessions/{id}/path", s.handleClearPath).Methods("DELETE")
	api.HandleFunc("/solve", s.handleSolve).Methods("POST")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// statusRecorder captures the status code for request logs
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The websocket upgrade needs the raw writer
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"error": message, "code": status})
}

// respondServiceError maps service errors onto HTTP status codes
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrConfigNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCell), errors.Is(err, service.ErrInvalidConfig):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	respondError(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func cellFromVars(r *http.Request) (engine.Cell, error) {
	vars := mux.Vars(r)
	row, err := strconv.Atoi(vars["row"])
	if err != nil {
		return engine.Cell{}, fmt.Errorf("invalid row %q", vars["row"])
	}
	col, err := strconv.Atoi(vars["col"])
	if err != nil {
		return engine.Cell{}, fmt.Errorf("invalid col %q", vars["col"])
	}
	return engine.Cell{Row: row, Col: col}, nil
}

func (s *Server) broadcastBoard(sessionID, event string, board *service.BoardState) {
	if s.hub != nil && board != nil {
		s.hub.BroadcastBoard(sessionID, event, board)
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Alias of config_id
	}

	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	configID := req.ConfigID
	if configID == "" {
		configID = req.ConfigName
	}

	session, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort") // "created", "accessed" (default)
	order := query.Get("order") // "asc", "desc" (default)
	if sortBy != "created" {
		sortBy = "accessed"
	}
	if order != "asc" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		ti, tj := sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 && l < total {
		sessions = sessions[:l]
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(sessionID, websocket.EventDeleted, nil)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Board Handlers

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.service.GetBoard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, board)
}

func (s *Server) handleCycleCell(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	cell, err := cellFromVars(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.CycleCell(r.Context(), sessionID, cell)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	s.broadcastBoard(sessionID, websocket.EventBoardUpdate, result.Board)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSetCell(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	cell, err := cellFromVars(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Label engine.Label `json:"label"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.SetCell(r.Context(), sessionID, cell, req.Label)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	s.broadcastBoard(sessionID, websocket.EventBoardUpdate, result.Board)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleClearBoard(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	board, err := s.service.ClearBoard(r.Context(), sessionID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	s.broadcastBoard(sessionID, websocket.EventBoardUpdate, board)
	respondJSON(w, http.StatusOK, board)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	board, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	s.broadcastBoard(sessionID, websocket.EventBoardUpdate, board)
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Board reset successfully",
		"board":   board,
	})
}

// Pathfinding Handlers

func (s *Server) handleFindPath(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.FindPath(r.Context(), sessionID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	s.broadcastBoard(sessionID, websocket.EventPathResult, result.Board)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleClearPath(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	board, err := s.service.ClearPath(r.Context(), sessionID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	s.broadcastBoard(sessionID, websocket.EventBoardUpdate, board)
	respondJSON(w, http.StatusOK, board)
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Layout []string `json:"layout"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Solve(r.Context(), req.Layout)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if configs == nil {
		configs = []*service.ConfigInfo{}
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	config, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, config)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id,omitempty"`
		engine.BoardConfig
	}

	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	configID := req.ConfigID
	if configID == "" {
		configID = configIDFromName(req.Name)
	}

	if err := s.service.SaveConfig(r.Context(), configID, &req.BoardConfig); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":   "Configuration saved successfully",
		"config_id": configID,
	})
}

// configIDFromName turns a display name into a file-safe id: "Big Maze" -> "big_maze"
func configIDFromName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	return b.String()
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket not available", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		sessionID = r.URL.Query().Get("session")
	}
	if sessionID == "" {
		http.Error(w, "sessionId parameter required", http.StatusBadRequest)
		return
	}

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, session.ID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
