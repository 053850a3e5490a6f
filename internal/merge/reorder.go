package merge

import (
	"context"

	"github.com/google/uuid"

	"courses/internal/store"
)

// Op is one reorder instruction in either of its two wire forms: a single
// item moved to a position, or a sequence of item ids whose positions become
// their indices.
type Op struct {
	ItemID    string   `json:"item_id,omitempty"`
	Position  *int     `json:"position,omitempty"`
	SectionID *int64   `json:"section_id,omitempty"`
	ItemIDs   []string `json:"item_ids,omitempty"`
}

// ReorderSections sets each named section's display position to its index in
// the given sequence. Unknown ids are ignored; sections not named keep their
// prior position. Returns the number of sections updated.
func ReorderSections(ctx context.Context, st *store.Store, sectionIDs []int64) (int, error) {
	applied := 0
	for index, sectionID := range sectionIDs {
		section, err := st.SectionByID(ctx, sectionID)
		if err != nil {
			return applied, err
		}
		if section == nil {
			continue
		}
		if err := st.SetSectionPosition(ctx, sectionID, index); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// ApplyReorder applies reorder instructions best-effort: malformed ids and
// items not on the list are skipped rather than failing the whole batch.
// Returns the number of position updates applied.
func ApplyReorder(ctx context.Context, st *store.Store, listID uuid.UUID, ops []Op) (int, error) {
	applied := 0
	for _, op := range ops {
		switch {
		case op.SectionID != nil && len(op.ItemIDs) > 0:
			n, err := applyItemOrder(ctx, st, listID, op.ItemIDs)
			if err != nil {
				return applied, err
			}
			applied += n
		case op.ItemID != "" && op.Position != nil:
			ok, err := applyMove(ctx, st, listID, op.ItemID, *op.Position)
			if err != nil {
				return applied, err
			}
			if ok {
				applied++
			}
		}
	}
	return applied, nil
}

func applyMove(ctx context.Context, st *store.Store, listID uuid.UUID, rawID string, position int) (bool, error) {
	itemID, err := uuid.Parse(rawID)
	if err != nil {
		return false, nil
	}
	item, err := st.GetItem(ctx, listID, itemID)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}
	if err := st.SetItemPosition(ctx, listID, itemID, position); err != nil {
		return false, err
	}
	return true, nil
}

// applyItemOrder sets each entry's position to its index in the sequence.
// It only sets positions; keeping items consistent with their section is the
// caller's business, so no section filter is applied and skipped entries
// leave their index unused.
func applyItemOrder(ctx context.Context, st *store.Store, listID uuid.UUID, rawIDs []string) (int, error) {
	applied := 0
	for position, rawID := range rawIDs {
		itemID, err := uuid.Parse(rawID)
		if err != nil {
			continue
		}
		item, err := st.GetItem(ctx, listID, itemID)
		if err != nil {
			return applied, err
		}
		if item == nil {
			continue
		}
		if err := st.SetItemPosition(ctx, listID, itemID, position); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}
