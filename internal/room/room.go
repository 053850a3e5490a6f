package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"courses/internal/items"
)

// commandBuffer bounds the per-room command queue. Dispatches beyond it
// block the sending connection's read loop, which is the backpressure we
// want.
const commandBuffer = 64

// applyTimeout bounds one command's database work, classifier call included.
const applyTimeout = 45 * time.Second

type request struct {
	sub *Subscriber
	cmd Command
}

// Room serializes all mutations of one list. A single goroutine consumes
// the command queue, applies each command under the list lock, and
// broadcasts the outcome while still holding it, so every subscriber sees
// events in apply order.
type Room struct {
	listID uuid.UUID
	reg    *Registry
	logger *slog.Logger

	commands chan request
	done     chan struct{}

	mu          sync.Mutex
	subscribers map[*Subscriber]struct{}
}

func newRoom(listID uuid.UUID, reg *Registry) *Room {
	r := &Room{
		listID:      listID,
		reg:         reg,
		logger:      reg.logger.With(slog.String("list_id", listID.String())),
		commands:    make(chan request, commandBuffer),
		done:        make(chan struct{}),
		subscribers: make(map[*Subscriber]struct{}),
	}
	go r.run()
	return r
}

func (r *Room) run() {
	for {
		select {
		case req := <-r.commands:
			r.apply(req)
		case <-r.done:
			// Drain commands accepted before shutdown so a mutation sent
			// just before disconnect still lands.
			for {
				select {
				case req := <-r.commands:
					r.apply(req)
				default:
					return
				}
			}
		}
	}
}

func (r *Room) dispatch(req request) {
	select {
	case r.commands <- req:
	case <-r.done:
	}
}

func (r *Room) addSubscriber() *Subscriber {
	sub := &Subscriber{room: r, ch: make(chan []byte, subscriberBuffer)}
	r.mu.Lock()
	r.subscribers[sub] = struct{}{}
	r.mu.Unlock()
	return sub
}

// removeSubscriber detaches sub and reports how many remain. The frame
// channel is closed here; queued frames stay readable.
func (r *Room) removeSubscriber(sub *Subscriber) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subscribers[sub]; !ok {
		return len(r.subscribers)
	}
	delete(r.subscribers, sub)
	close(sub.ch)
	return len(r.subscribers)
}

// broadcast fans a frame out to every subscriber. Subscribers that cannot
// keep up lose frames rather than stalling the room.
func (r *Room) broadcast(frame []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for sub := range r.subscribers {
		if !sub.push(frame) {
			r.logger.Warn("dropping frame for slow subscriber")
		}
	}
}

// reply sends a frame to a single subscriber, if it is still attached.
func (r *Room) reply(sub *Subscriber, frame []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subscribers[sub]; !ok {
		return
	}
	if !sub.push(frame) {
		r.logger.Warn("dropping error reply for slow subscriber")
	}
}

func (r *Room) apply(req request) {
	ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
	defer cancel()

	events, err := r.execute(ctx, req.cmd)
	if err != nil {
		if isVanished(err) {
			// The target was deleted concurrently; nothing to tell anyone.
			return
		}
		r.reply(req.sub, marshalError(items.Message(err)))
		return
	}
	for _, event := range events {
		r.broadcast(marshalEvent(event))
	}
}

func (r *Room) execute(ctx context.Context, cmd Command) ([]Event, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	lock := r.reg.listLock(r.listID)
	lock.Lock()
	defer lock.Unlock()

	svc := r.reg.svc
	switch cmd.Action {
	case ActionAddItem:
		item, err := svc.CreateItem(ctx, r.listID, items.ItemInput{
			Name:        deref(cmd.Name),
			Quantity:    deref(cmd.Quantity),
			Notes:       deref(cmd.Notes),
			SectionSlug: deref(cmd.SectionSlug),
		})
		if err != nil {
			return nil, err
		}
		return []Event{{Action: EventItemAdded, Item: item}}, nil

	case ActionUpdateItem:
		itemID, err := uuid.Parse(cmd.ItemID)
		if err != nil {
			return nil, errors.New(items.MsgItemNotFound)
		}
		item, err := svc.UpdateItem(ctx, r.listID, itemID, items.ItemUpdate{
			Name:        cmd.Name,
			Quantity:    cmd.Quantity,
			Notes:       cmd.Notes,
			Checked:     cmd.Checked,
			Position:    cmd.Position,
			SectionSlug: cmd.SectionSlug,
		})
		if err != nil {
			return nil, err
		}
		return []Event{{Action: EventItemUpdated, Item: item}}, nil

	case ActionCheckItem:
		itemID, err := uuid.Parse(cmd.ItemID)
		if err != nil {
			return nil, errors.New(items.MsgItemNotFound)
		}
		// Absent means check, not uncheck.
		checked := true
		if cmd.Checked != nil {
			checked = *cmd.Checked
		}
		item, err := svc.CheckItem(ctx, r.listID, itemID, checked)
		if err != nil {
			return nil, err
		}
		return []Event{{Action: EventItemUpdated, Item: item}}, nil

	case ActionDeleteItem:
		itemID, err := uuid.Parse(cmd.ItemID)
		if err != nil {
			return nil, errors.New(items.MsgItemNotFound)
		}
		if err := svc.DeleteItem(ctx, r.listID, itemID); err != nil {
			return nil, err
		}
		return []Event{{Action: EventItemDeleted, ItemID: itemID.String()}}, nil

	case ActionReorderItems:
		if _, err := svc.Reorder(ctx, r.listID, cmd.SectionOrder, cmd.ItemOrders); err != nil {
			return nil, err
		}
		detail, err := svc.ListDetail(ctx, r.listID)
		if err != nil {
			return nil, err
		}
		return []Event{{Action: EventListUpdated, List: detail}}, nil
	}
	return nil, nil
}

// isVanished distinguishes "the item or the whole list is gone" (a benign
// race between collaborators) from every other failure.
func isVanished(err error) bool {
	if !errors.Is(err, items.ErrNotFound) {
		return false
	}
	msg := items.Message(err)
	return msg == items.MsgItemNotFound || msg == items.MsgListNotFound
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
