package items

import (
	"time"

	"courses/internal/store"
)

// ItemPayload is the wire shape of a single item, shared by the REST API and
// the realtime socket events.
type ItemPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SectionID    int64  `json:"section_id"`
	SectionSlug  string `json:"section_slug"`
	SectionLabel string `json:"section_label"`
	Quantity     string `json:"quantity"`
	Notes        string `json:"notes"`
	Checked      bool   `json:"checked"`
	Position     int    `json:"position"`
}

// SectionPayload is one section of a list detail with its items in order.
type SectionPayload struct {
	ID       int64         `json:"id"`
	Slug     string        `json:"slug"`
	Label    string        `json:"label"`
	Position int           `json:"position"`
	Items    []ItemPayload `json:"items"`
}

// ListPayload is the full detail of a list: its metadata plus items grouped
// by section in aisle order.
type ListPayload struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Archived  bool             `json:"archived"`
	CreatedAt time.Time        `json:"created_at"`
	Sections  []SectionPayload `json:"sections"`
}

// SummaryPayload is the index view of a list with item counts.
type SummaryPayload struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Archived     bool      `json:"archived"`
	CreatedAt    time.Time `json:"created_at"`
	ItemsCount   int       `json:"items_count"`
	ItemsChecked int       `json:"items_checked"`
}

func itemPayload(item *store.Item, section *store.Section) ItemPayload {
	return ItemPayload{
		ID:           item.ID.String(),
		Name:         item.Name,
		SectionID:    item.SectionID,
		SectionSlug:  section.Slug,
		SectionLabel: section.Label,
		Quantity:     item.Quantity,
		Notes:        item.Notes,
		Checked:      item.Checked,
		Position:     item.Position,
	}
}

func listPayload(list *store.List, sections []store.Section, listItems []*store.Item) ListPayload {
	payload := ListPayload{
		ID:        list.ID.String(),
		Name:      list.Name,
		Archived:  list.Archived,
		CreatedAt: list.CreatedAt,
		Sections:  []SectionPayload{},
	}

	bySection := make(map[int64][]*store.Item)
	for _, item := range listItems {
		bySection[item.SectionID] = append(bySection[item.SectionID], item)
	}
	for i := range sections {
		section := &sections[i]
		members := bySection[section.ID]
		if len(members) == 0 {
			continue
		}
		sp := SectionPayload{
			ID:       section.ID,
			Slug:     section.Slug,
			Label:    section.Label,
			Position: section.Position,
			Items:    make([]ItemPayload, 0, len(members)),
		}
		for _, item := range members {
			sp.Items = append(sp.Items, itemPayload(item, section))
		}
		payload.Sections = append(payload.Sections, sp)
	}
	return payload
}

func summaryPayload(summary *store.ListSummary) SummaryPayload {
	return SummaryPayload{
		ID:           summary.ID.String(),
		Name:         summary.Name,
		Archived:     summary.Archived,
		CreatedAt:    summary.CreatedAt,
		ItemsCount:   summary.ItemsCount,
		ItemsChecked: summary.ItemsChecked,
	}
}
