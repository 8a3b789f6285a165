// Package httpapi exposes the session store over a small JSON HTTP surface,
// for the host process that mounts satchel as its session layer.
// Authentication is deliberately absent: callers bring their own.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/satchel-dev/satchel/internal/logging"
	"github.com/satchel-dev/satchel/pkg/domain"
)

// Service is the narrow slice of the session manager the HTTP layer needs.
type Service interface {
	Create(ctx context.Context, data map[string]any) (string, error)
	Read(ctx context.Context, sessionID string) (map[string]any, error)
	Write(ctx context.Context, sessionID string, data map[string]any) error
	Destroy(ctx context.Context, sessionID string) error
	Keys(ctx context.Context) ([]string, error)
}

// Server handles the session endpoints.
type Server struct {
	service Service
	logger  *slog.Logger
}

// NewHandler builds the HTTP handler for the session API.
func NewHandler(service Service, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{service: service, logger: logger}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.create)
		r.Get("/", s.list)
		r.Get("/{id}", s.read)
		r.Put("/{id}", s.write)
		r.Delete("/{id}", s.destroy)
	})
	return r
}

type sessionPayload struct {
	Data map[string]any `json:"data"`
}

type createdResponse struct {
	SessionID string `json:"session_id"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var body sessionPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id, err := s.service.Create(r.Context(), body.Data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, createdResponse{SessionID: id})
}

func (s *Server) read(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.Read(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sessionPayload{Data: data})
}

func (s *Server) write(w http.ResponseWriter, r *http.Request) {
	var body sessionPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.service.Write(r.Context(), chi.URLParam(r, "id"), body.Data); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) destroy(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Destroy(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	keys, err := s.service.Keys(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": keys})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to encode response", "err", err)
	}
}

// writeError maps domain errors to status codes. A not-found response is
// identical whether the session never existed, was destroyed, or expired.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrBackendUnavailable):
		s.logger.Error("Session backend unavailable", "err", err)
		http.Error(w, "session backend unavailable", http.StatusServiceUnavailable)
	default:
		s.logger.Error("Session operation failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
