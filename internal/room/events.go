package room

import (
	"encoding/json"

	"courses/internal/items"
)

// Outbound event types sent to every subscriber of a list.
const (
	EventItemAdded   = "item_added"
	EventItemUpdated = "item_updated"
	EventItemDeleted = "item_deleted"
	EventListUpdated = "list_updated"
)

// Event is one realtime notification, keyed "action" on the wire like the
// inbound commands. Exactly one of Item, ItemID, or List is set depending
// on Action.
type Event struct {
	Action string             `json:"action"`
	Item   *items.ItemPayload `json:"item,omitempty"`
	ItemID string             `json:"item_id,omitempty"`
	List   *items.ListPayload `json:"list,omitempty"`
}

// errorFrame is sent to the subscriber whose command failed, never broadcast.
type errorFrame struct {
	Error string `json:"error"`
}

func marshalEvent(event Event) []byte {
	data, err := json.Marshal(event)
	if err != nil {
		// Event payloads are plain structs; this cannot fail.
		panic(err)
	}
	return data
}

func marshalError(message string) []byte {
	data, _ := json.Marshal(errorFrame{Error: message})
	return data
}
