package httpserver

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mikey/llm-phishing-analyzer/internal/core"
)

//go:embed static
var staticFS embed.FS

// Server is the HTTP surface: a JSON API plus the embedded single-page UI.
// It implements ports.Frontend.
type Server struct {
	service    *core.AnalyzerService
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server
}

// NewServer creates a new HTTP frontend
func NewServer(service *core.AnalyzerService, logger *zap.Logger, listenAddr string) *Server {
	s := &Server{
		service: service,
		logger:  logger,
		router:  chi.NewRouter(),
	}
	s.routes()

	s.httpServer = &http.Server{
		Addr:         listenAddr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // analysis calls can be slow; the provider signals its own failures
	}

	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.corsMiddleware)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)

	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/api/state", s.handleState)
	r.Get("/api/history", s.handleHistory)
	r.Post("/api/history/{id}/select", s.handleSelectHistory)
	r.Post("/api/clear", s.handleClear)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ServeHTTP makes the server usable directly as an http.Handler in tests
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start begins listening; it does not block
func (s *Server) Start() error {
	go func() {
		s.logger.Info("HTTP frontend started", zap.String("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.service.Analyze(r.Context(), req.EmailText)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyEmail):
			s.writeError(w, http.StatusBadRequest, "email text must not be empty")
		case errors.Is(err, core.ErrAnalysisInFlight):
			s.writeError(w, http.StatusConflict, "an analysis is already in progress")
		default:
			// Transport and contract failures surface identically to the user.
			s.writeError(w, http.StatusBadGateway, core.UserFacingErrorMessage)
		}
		return
	}

	s.writeJSON(w, http.StatusOK, newResultPayload(*result))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, newStatePayload(s.service.State()))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	items := s.service.History()
	payload := make([]historyItemPayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, newHistoryItemPayload(item))
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleSelectHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := s.service.SelectHistory(id)
	if err != nil {
		if errors.Is(err, core.ErrHistoryNotFound) {
			s.writeError(w, http.StatusNotFound, "history item not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to select history item")
		return
	}

	s.writeJSON(w, http.StatusOK, selectResponse{
		Item:  item,
		State: newStatePayload(s.service.State()),
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.service.ClearAll()
	s.writeJSON(w, http.StatusOK, newStatePayload(s.service.State()))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
