package merge

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"courses/internal/classify"
	"courses/internal/store"
)

// Key produces the duplicate-detection key for an item name: the normalized
// name with a naive French plural stripped ("pommes" and "pomme" collide,
// "choux" and "chou" collide, a trailing "ss" is left alone).
func Key(name string) string {
	key := classify.Normalize(name)
	if len(key) >= 3 {
		switch {
		case strings.HasSuffix(key, "s") && !strings.HasSuffix(key, "ss"):
			key = key[:len(key)-1]
		case strings.HasSuffix(key, "x"):
			key = key[:len(key)-1]
		}
	}
	return key
}

// Deduplicate fuses items of a list that share the same Key. The earliest
// item in list order survives; the whole group's quantities are merged in
// one pass, notes are concatenated, and the survivor is checked if any
// duplicate was. Returns the number of items removed.
func Deduplicate(ctx context.Context, st *store.Store, listID uuid.UUID) (int, error) {
	items, err := st.ListItems(ctx, listID)
	if err != nil {
		return 0, err
	}

	var order []string
	groups := make(map[string][]*store.Item)
	for _, item := range items {
		key := Key(item.Name)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], item)
	}

	removed := 0
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}

		first := group[0]
		quantities := make([]string, 0, len(group))
		notes := make([]string, 0, len(group))
		checked := false
		for _, item := range group {
			quantities = append(quantities, item.Quantity)
			notes = append(notes, item.Notes)
			checked = checked || item.Checked
		}
		first.Quantity = Quantities(quantities)
		first.Notes = Notes(notes)
		first.Checked = checked
		if err := st.UpdateItem(ctx, first); err != nil {
			return removed, err
		}
		for _, item := range group[1:] {
			if _, err := st.DeleteItem(ctx, listID, item.ID); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}
