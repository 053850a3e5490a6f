package room

import (
	"fmt"

	"courses/internal/merge"
)

// Inbound actions a subscriber may send.
const (
	ActionAddItem      = "add_item"
	ActionUpdateItem   = "update_item"
	ActionDeleteItem   = "delete_item"
	ActionCheckItem    = "check_item"
	ActionReorderItems = "reorder_items"
)

// Command is one inbound instruction from a subscriber. Which fields are
// read depends on Action; pointer fields distinguish "absent" from "empty".
type Command struct {
	Action       string     `json:"action"`
	ItemID       string     `json:"item_id,omitempty"`
	Name         *string    `json:"name,omitempty"`
	Quantity     *string    `json:"quantity,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	SectionSlug  *string    `json:"section_slug,omitempty"`
	Checked      *bool      `json:"checked,omitempty"`
	Position     *int       `json:"position,omitempty"`
	SectionOrder []int64    `json:"section_order,omitempty"`
	ItemOrders   []merge.Op `json:"item_orders,omitempty"`
}

func (c Command) validate() error {
	switch c.Action {
	case ActionAddItem:
		return nil
	case ActionUpdateItem, ActionDeleteItem, ActionCheckItem:
		if c.ItemID == "" {
			return fmt.Errorf("item_id requis pour %s", c.Action)
		}
		return nil
	case ActionReorderItems:
		return nil
	default:
		return fmt.Errorf("action inconnue: %q", c.Action)
	}
}
