package api

import (
	"context"
	"net/http"

	"courses/internal/items"
	"courses/internal/room"
)

type sectionView struct {
	ID       int64  `json:"id"`
	Slug     string `json:"slug"`
	Label    string `json:"label"`
	Position int    `json:"position"`
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	sections, err := s.store.Sections(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	views := make([]sectionView, 0, len(sections))
	for _, section := range sections {
		views = append(views, sectionView{
			ID:       section.ID,
			Slug:     section.Slug,
			Label:    section.Label,
			Position: section.Position,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sections": views})
}

func (s *Server) handleListIndex(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.svc.Lists(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"lists": summaries})
}

func (s *Server) handleListCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	list, err := s.svc.CreateList(r.Context(), body.Name)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	detail, err := s.svc.ListDetail(r.Context(), list.ID)
	if err != nil {
		s.internalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, detail)
}

func (s *Server) handleListDetail(w http.ResponseWriter, r *http.Request) {
	listID, ok := s.listID(w, r)
	if !ok {
		return
	}
	detail, err := s.svc.ListDetail(r.Context(), listID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleListUpdate(w http.ResponseWriter, r *http.Request) {
	listID, ok := s.listID(w, r)
	if !ok {
		return
	}
	var body struct {
		Name     *string `json:"name"`
		Archived *bool   `json:"archived"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	var detail *items.ListPayload
	err := s.registry.Apply(r.Context(), listID, func(ctx context.Context) ([]room.Event, error) {
		if _, err := s.svc.UpdateList(ctx, listID, items.ListUpdate{Name: body.Name, Archived: body.Archived}); err != nil {
			return nil, err
		}
		var err error
		detail, err = s.svc.ListDetail(ctx, listID)
		if err != nil {
			return nil, err
		}
		return []room.Event{{Action: room.EventListUpdated, List: detail}}, nil
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleListDelete(w http.ResponseWriter, r *http.Request) {
	listID, ok := s.listID(w, r)
	if !ok {
		return
	}
	err := s.registry.Apply(r.Context(), listID, func(ctx context.Context) ([]room.Event, error) {
		return nil, s.svc.DeleteList(ctx, listID)
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
