package items

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"courses/internal/merge"
	"courses/internal/store"
)

// Column limits enforced on writes.
const (
	MaxNameLen     = 200
	MaxQuantityLen = merge.MaxQuantityLen
	MaxNotesLen    = merge.MaxNotesLen
)

// MsgInvalidSection rejects writes naming a section outside the catalog.
const MsgInvalidSection = "Rayon invalide."

// SectionAssigner resolves an item name to its section.
type SectionAssigner interface {
	AssignSection(ctx context.Context, name string) (*store.Section, error)
}

// Service implements the list and item operations shared by the REST API and
// the realtime rooms. It owns no locking; callers serialize access per list.
type Service struct {
	store    *store.Store
	assigner SectionAssigner
	logger   *slog.Logger

	mu       sync.Mutex
	collator *collate.Collator
}

// NewService wires a Service over the store and classifier.
func NewService(st *store.Store, assigner SectionAssigner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    st,
		assigner: assigner,
		logger:   logger,
		collator: collate.New(language.French, collate.Loose),
	}
}

// DefaultListName names a list created without one after its day.
func DefaultListName(now time.Time) string {
	return "Liste du " + now.Format("02/01/2006")
}

// CreateList creates a list, defaulting the name to today's date.
func (s *Service) CreateList(ctx context.Context, name string) (*store.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultListName(time.Now())
	}
	if len([]rune(name)) > MaxNameLen {
		return nil, invalid(MsgInvalidName)
	}
	return s.store.CreateList(ctx, name)
}

// Lists returns the index view of every list.
func (s *Service) Lists(ctx context.Context) ([]SummaryPayload, error) {
	summaries, err := s.store.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	payloads := make([]SummaryPayload, 0, len(summaries))
	for i := range summaries {
		payloads = append(payloads, summaryPayload(&summaries[i]))
	}
	return payloads, nil
}

// ListDetail returns the full list payload with items grouped by section.
func (s *Service) ListDetail(ctx context.Context, listID uuid.UUID) (*ListPayload, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, notFound(MsgListNotFound)
	}
	sections, err := s.store.Sections(ctx)
	if err != nil {
		return nil, err
	}
	listItems, err := s.store.ListItems(ctx, listID)
	if err != nil {
		return nil, err
	}
	payload := listPayload(list, sections, listItems)
	return &payload, nil
}

// ListUpdate carries the editable list fields; nil means leave unchanged.
type ListUpdate struct {
	Name     *string
	Archived *bool
}

// UpdateList renames or archives a list.
func (s *Service) UpdateList(ctx context.Context, listID uuid.UUID, update ListUpdate) (*store.List, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, notFound(MsgListNotFound)
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" || len([]rune(name)) > MaxNameLen {
			return nil, invalid(MsgInvalidName)
		}
		list.Name = name
	}
	if update.Archived != nil {
		list.Archived = *update.Archived
	}
	if err := s.store.UpdateList(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteList removes a list and everything on it.
func (s *Service) DeleteList(ctx context.Context, listID uuid.UUID) error {
	deleted, err := s.store.DeleteList(ctx, listID)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound(MsgListNotFound)
	}
	return nil
}

// ItemInput is what a caller supplies to create an item. SectionSlug is
// optional; when empty the classifier decides.
type ItemInput struct {
	Name        string
	Quantity    string
	Notes       string
	SectionSlug string
}

// CreateItem adds an item to a list. The item lands at the end of its
// section, then the section is re-sorted alphabetically.
func (s *Service) CreateItem(ctx context.Context, listID uuid.UUID, input ItemInput) (*ItemPayload, error) {
	exists, err := s.store.ListExists(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFound(MsgListNotFound)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid(MsgNameRequired)
	}
	if len([]rune(name)) > MaxNameLen {
		return nil, invalid(MsgInvalidName)
	}

	section, err := s.resolveSection(ctx, input.SectionSlug, name)
	if err != nil {
		return nil, err
	}

	position, err := s.store.NextPosition(ctx, listID, section.ID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.CreateItem(ctx, &store.Item{
		ListID:    listID,
		Name:      name,
		SectionID: section.ID,
		Quantity:  clamp(input.Quantity, MaxQuantityLen),
		Notes:     clamp(input.Notes, MaxNotesLen),
		Position:  position,
	})
	if err != nil {
		return nil, err
	}

	if err := s.alphabetizeSection(ctx, listID, section.ID); err != nil {
		return nil, err
	}
	refreshed, err := s.store.GetItem(ctx, listID, item.ID)
	if err != nil {
		return nil, err
	}
	if refreshed != nil {
		item = refreshed
	}
	payload := itemPayload(item, section)
	return &payload, nil
}

// ItemUpdate carries the editable item fields; nil means leave unchanged.
type ItemUpdate struct {
	Name        *string
	Quantity    *string
	Notes       *string
	Checked     *bool
	Position    *int
	SectionSlug *string
}

// UpdateItem edits a subset of an item's fields. Moving the item to another
// section appends it at the end of that section unless the update carries an
// explicit position.
func (s *Service) UpdateItem(ctx context.Context, listID, itemID uuid.UUID, update ItemUpdate) (*ItemPayload, error) {
	item, err := s.store.GetItem(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, notFound(MsgItemNotFound)
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, invalid(MsgNameRequired)
		}
		if len([]rune(name)) > MaxNameLen {
			return nil, invalid(MsgInvalidName)
		}
		item.Name = name
	}
	if update.Quantity != nil {
		item.Quantity = clamp(strings.TrimSpace(*update.Quantity), MaxQuantityLen)
	}
	if update.Notes != nil {
		item.Notes = clamp(strings.TrimSpace(*update.Notes), MaxNotesLen)
	}
	if update.Checked != nil {
		item.Checked = *update.Checked
	}
	if update.Position != nil {
		item.Position = *update.Position
	}
	if update.SectionSlug != nil && *update.SectionSlug != "" {
		section, err := s.store.SectionBySlug(ctx, *update.SectionSlug)
		if err != nil {
			return nil, err
		}
		if section == nil {
			return nil, invalid(MsgInvalidSection)
		}
		if section.ID != item.SectionID {
			item.SectionID = section.ID
			// An explicit position wins; otherwise append at the end of
			// the target section.
			if update.Position == nil {
				position, err := s.store.NextPosition(ctx, listID, section.ID)
				if err != nil {
					return nil, err
				}
				item.Position = position
			}
		}
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	section, err := s.store.SectionByID(ctx, item.SectionID)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, fmt.Errorf("section %d missing for item %s", item.SectionID, item.ID)
	}
	payload := itemPayload(item, section)
	return &payload, nil
}

// CheckItem toggles the checked flag.
func (s *Service) CheckItem(ctx context.Context, listID, itemID uuid.UUID, checked bool) (*ItemPayload, error) {
	return s.UpdateItem(ctx, listID, itemID, ItemUpdate{Checked: &checked})
}

// DeleteItem removes an item from a list.
func (s *Service) DeleteItem(ctx context.Context, listID, itemID uuid.UUID) error {
	deleted, err := s.store.DeleteItem(ctx, listID, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound(MsgItemNotFound)
	}
	return nil
}

// Deduplicate fuses duplicate items on a list and reports how many were
// removed.
func (s *Service) Deduplicate(ctx context.Context, listID uuid.UUID) (int, error) {
	exists, err := s.store.ListExists(ctx, listID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, notFound(MsgListNotFound)
	}
	return merge.Deduplicate(ctx, s.store, listID)
}

// Reorder applies positional moves best-effort: first the section display
// order, then the item moves. Returns the total number of updates applied.
func (s *Service) Reorder(ctx context.Context, listID uuid.UUID, sectionOrder []int64, ops []merge.Op) (int, error) {
	exists, err := s.store.ListExists(ctx, listID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, notFound(MsgListNotFound)
	}
	applied, err := merge.ReorderSections(ctx, s.store, sectionOrder)
	if err != nil {
		return applied, err
	}
	moved, err := merge.ApplyReorder(ctx, s.store, listID, ops)
	return applied + moved, err
}

func (s *Service) resolveSection(ctx context.Context, slug, name string) (*store.Section, error) {
	if slug != "" {
		section, err := s.store.SectionBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if section == nil {
			return nil, invalid(MsgInvalidSection)
		}
		return section, nil
	}
	if s.assigner != nil {
		return s.assigner.AssignSection(ctx, name)
	}
	section, err := s.store.SectionBySlug(ctx, store.DefaultSectionSlug)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, fmt.Errorf("default section missing")
	}
	return section, nil
}

// alphabetizeSection re-sorts one section of a list by French collation and
// rewrites the positions.
func (s *Service) alphabetizeSection(ctx context.Context, listID uuid.UUID, sectionID int64) error {
	listItems, err := s.store.ListItems(ctx, listID)
	if err != nil {
		return err
	}
	var members []*store.Item
	for _, item := range listItems {
		if item.SectionID == sectionID {
			members = append(members, item)
		}
	}

	s.mu.Lock()
	sort.SliceStable(members, func(i, j int) bool {
		return s.collator.CompareString(members[i].Name, members[j].Name) < 0
	})
	s.mu.Unlock()

	for idx, item := range members {
		if item.Position == idx+1 {
			continue
		}
		if err := s.store.SetItemPosition(ctx, listID, item.ID, idx+1); err != nil {
			return err
		}
	}
	return nil
}

func clamp(value string, max int) string {
	runes := []rune(value)
	if len(runes) > max {
		return string(runes[:max])
	}
	return value
}
