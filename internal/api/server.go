// Package api exposes the REST surface of the app: list and item CRUD,
// deduplication, reordering, and free-text import. Mutations run under the
// same per-list locks as the realtime rooms and are broadcast to them.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"courses/internal/auth"
	"courses/internal/classify"
	"courses/internal/items"
	"courses/internal/room"
	"courses/internal/store"
)

// Server carries the handler dependencies.
type Server struct {
	registry   *room.Registry
	svc        *items.Service
	importer   *classify.Importer
	authorizer *auth.Authorizer
	store      *store.Store
	logger     *slog.Logger
}

// NewServer wires the REST handlers.
func NewServer(registry *room.Registry, svc *items.Service, importer *classify.Importer, authorizer *auth.Authorizer, st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		registry:   registry,
		svc:        svc,
		importer:   importer,
		authorizer: authorizer,
		store:      st,
		logger:     logger.With(slog.String("component", "api")),
	}
}

// Register mounts every route on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.Handle("GET /api/sections", s.authed(s.handleSections))
	mux.Handle("GET /api/lists", s.authed(s.handleListIndex))
	mux.Handle("POST /api/lists", s.authed(s.handleListCreate))
	mux.Handle("GET /api/lists/{list_id}", s.authed(s.handleListDetail))
	mux.Handle("PATCH /api/lists/{list_id}", s.authed(s.handleListUpdate))
	mux.Handle("DELETE /api/lists/{list_id}", s.authed(s.handleListDelete))

	mux.Handle("POST /api/lists/{list_id}/items", s.authed(s.handleItemCreate))
	mux.Handle("PATCH /api/lists/{list_id}/items/{item_id}", s.authed(s.handleItemUpdate))
	mux.Handle("DELETE /api/lists/{list_id}/items/{item_id}", s.authed(s.handleItemDelete))

	mux.Handle("POST /api/lists/{list_id}/reorder", s.authed(s.handleReorder))
	mux.Handle("POST /api/lists/{list_id}/deduplicate", s.authed(s.handleDeduplicate))
	mux.Handle("POST /api/lists/{list_id}/import", s.authed(s.handleImport))
}

func (s *Server) authed(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.authorizer.AuthenticateRequest(r); err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				s.writeError(w, http.StatusUnauthorized, "jeton invalide")
				return
			}
			s.internalError(w, err)
			return
		}
		next(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listID parses the {list_id} path segment; any malformed value reads as a
// list that does not exist.
func (s *Server) listID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("list_id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, items.MsgListNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("item_id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, items.MsgItemNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		s.writeError(w, http.StatusBadRequest, "corps JSON invalide")
		return false
	}
	return true
}

// writeServiceError maps service failures to HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, items.ErrValidation):
		s.writeError(w, http.StatusBadRequest, items.Message(err))
	case errors.Is(err, items.ErrNotFound):
		s.writeError(w, http.StatusNotFound, items.Message(err))
	case errors.Is(err, classify.ErrUnavailable):
		s.writeError(w, http.StatusServiceUnavailable, "llm_unavailable")
	default:
		s.internalError(w, err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", slog.Any("error", err))
	s.writeError(w, http.StatusInternalServerError, "erreur interne")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
