package api

import (
	"context"
	"net/http"

	"courses/internal/items"
	"courses/internal/merge"
	"courses/internal/room"
)

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	listID, ok := s.listID(w, r)
	if !ok {
		return
	}
	var body struct {
		SectionOrder []int64    `json:"section_order"`
		ItemOrders   []merge.Op `json:"item_orders"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	var (
		applied int
		detail  *items.ListPayload
	)
	err := s.registry.Apply(r.Context(), listID, func(ctx context.Context) ([]room.Event, error) {
		var err error
		applied, err = s.svc.Reorder(ctx, listID, body.SectionOrder, body.ItemOrders)
		if err != nil {
			return nil, err
		}
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
	s.writeJSON(w, http.StatusOK, map[string]any{"applied": applied, "list": detail})
}

func (s *Server) handleDeduplicate(w http.ResponseWriter, r *http.Request) {
	listID, ok := s.listID(w, r)
	if !ok {
		return
	}

	var (
		removed int
		detail  *items.ListPayload
	)
	err := s.registry.Apply(r.Context(), listID, func(ctx context.Context) ([]room.Event, error) {
		var err error
		removed, err = s.svc.Deduplicate(ctx, listID)
		if err != nil {
			return nil, err
		}
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
	s.writeJSON(w, http.StatusOK, map[string]any{"removed": removed, "list": detail})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	listID, ok := s.listID(w, r)
	if !ok {
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	// Model parsing happens outside the list lock; it can take a while and
	// touches nothing in the database.
	parsed, err := s.importer.ParseText(r.Context(), body.Text)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	var (
		createdCount int
		detail       *items.ListPayload
	)
	err = s.registry.Apply(r.Context(), listID, func(ctx context.Context) ([]room.Event, error) {
		if _, err := s.svc.ListDetail(ctx, listID); err != nil {
			return nil, err
		}
		var err error
		for _, entry := range parsed {
			if _, err := s.svc.CreateItem(ctx, listID, items.ItemInput{
				Name:        entry.Name,
				Quantity:    entry.Quantity,
				SectionSlug: entry.SectionSlug,
			}); err != nil {
				return nil, err
			}
			createdCount++
		}
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
	s.writeJSON(w, http.StatusCreated, map[string]any{"created": createdCount, "list": detail})
}
