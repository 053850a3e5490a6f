package room

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"courses/internal/items"
)

// Registry tracks the live rooms and owns one mutex per list. Every
// mutation of a list, whether it arrives over a socket or over HTTP, runs
// under that list's mutex, so reads-modify-writes never interleave.
type Registry struct {
	svc    *items.Service
	logger *slog.Logger

	mu    sync.Mutex
	rooms map[uuid.UUID]*Room
	locks map[uuid.UUID]*sync.Mutex
}

// NewRegistry wires a Registry over the item service.
func NewRegistry(svc *items.Service, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		svc:    svc,
		logger: logger,
		rooms:  make(map[uuid.UUID]*Room),
		locks:  make(map[uuid.UUID]*sync.Mutex),
	}
}

// Subscribe attaches a new subscriber to the list's room, creating the room
// on first use.
func (g *Registry) Subscribe(listID uuid.UUID) *Subscriber {
	g.mu.Lock()
	r, ok := g.rooms[listID]
	if !ok {
		r = newRoom(listID, g)
		g.rooms[listID] = r
		g.logger.Debug("room opened", slog.String("list_id", listID.String()))
	}
	g.mu.Unlock()
	return r.addSubscriber()
}

// Unsubscribe detaches a subscriber and tears the room down when it was the
// last one.
func (g *Registry) Unsubscribe(sub *Subscriber) {
	r := sub.room
	if r.removeSubscriber(sub) > 0 {
		return
	}
	g.mu.Lock()
	if current, ok := g.rooms[r.listID]; ok && current == r {
		delete(g.rooms, r.listID)
		close(r.done)
		g.logger.Debug("room closed", slog.String("list_id", r.listID.String()))
	}
	g.mu.Unlock()
}

// Apply runs fn under the list's mutex and broadcasts the events it returns
// to any open room. This is the write path for HTTP handlers.
func (g *Registry) Apply(ctx context.Context, listID uuid.UUID, fn func(ctx context.Context) ([]Event, error)) error {
	lock := g.listLock(listID)
	lock.Lock()
	defer lock.Unlock()

	events, err := fn(ctx)
	if err != nil {
		return err
	}
	g.broadcast(listID, events)
	return nil
}

// Broadcast pushes events to the list's room, if one is open.
func (g *Registry) Broadcast(listID uuid.UUID, events ...Event) {
	g.broadcast(listID, events)
}

func (g *Registry) broadcast(listID uuid.UUID, events []Event) {
	if len(events) == 0 {
		return
	}
	g.mu.Lock()
	r := g.rooms[listID]
	g.mu.Unlock()
	if r == nil {
		return
	}
	for _, event := range events {
		r.broadcast(marshalEvent(event))
	}
}

// listLock returns the mutex serializing writes to one list.
func (g *Registry) listLock(listID uuid.UUID) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	lock, ok := g.locks[listID]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[listID] = lock
	}
	return lock
}

// Service exposes the underlying item service for read-only handlers.
func (g *Registry) Service() *items.Service {
	return g.svc
}
