package api

import (
	"context"
	"net/http"

	"courses/internal/items"
	"courses/internal/room"
)

func (s *Server) handleItemCreate(w http.ResponseWriter, r *http.Request) {
	listID, ok := s.listID(w, r)
	if !ok {
		return
	}
	var body struct {
		Name        string `json:"name"`
		Quantity    string `json:"quantity"`
		Notes       string `json:"notes"`
		SectionSlug string `json:"section_slug"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	var created *items.ItemPayload
	err := s.registry.Apply(r.Context(), listID, func(ctx context.Context) ([]room.Event, error) {
		var err error
		created, err = s.svc.CreateItem(ctx, listID, items.ItemInput{
			Name:        body.Name,
			Quantity:    body.Quantity,
			Notes:       body.Notes,
			SectionSlug: body.SectionSlug,
		})
		if err != nil {
			return nil, err
		}
		return []room.Event{{Action: room.EventItemAdded, Item: created}}, nil
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleItemUpdate(w http.ResponseWriter, r *http.Request) {
	listID, ok := s.listID(w, r)
	if !ok {
		return
	}
	itemID, ok := s.itemID(w, r)
	if !ok {
		return
	}
	var body struct {
		Name        *string `json:"name"`
		Quantity    *string `json:"quantity"`
		Notes       *string `json:"notes"`
		Checked     *bool   `json:"checked"`
		Position    *int    `json:"position"`
		SectionSlug *string `json:"section_slug"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	var updated *items.ItemPayload
	err := s.registry.Apply(r.Context(), listID, func(ctx context.Context) ([]room.Event, error) {
		var err error
		updated, err = s.svc.UpdateItem(ctx, listID, itemID, items.ItemUpdate{
			Name:        body.Name,
			Quantity:    body.Quantity,
			Notes:       body.Notes,
			Checked:     body.Checked,
			Position:    body.Position,
			SectionSlug: body.SectionSlug,
		})
		if err != nil {
			return nil, err
		}
		return []room.Event{{Action: room.EventItemUpdated, Item: updated}}, nil
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleItemDelete(w http.ResponseWriter, r *http.Request) {
	listID, ok := s.listID(w, r)
	if !ok {
		return
	}
	itemID, ok := s.itemID(w, r)
	if !ok {
		return
	}

	err := s.registry.Apply(r.Context(), listID, func(ctx context.Context) ([]room.Event, error) {
		if err := s.svc.DeleteItem(ctx, listID, itemID); err != nil {
			return nil, err
		}
		return []room.Event{{Action: room.EventItemDeleted, ItemID: itemID.String()}}, nil
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
