package room

import "github.com/google/uuid"

// subscriberBuffer bounds how many frames may queue per subscriber before
// the room starts dropping frames for it.
const subscriberBuffer = 32

// Subscriber is one live connection to a list's room. Frames() yields
// marshaled JSON frames; the channel closes when the subscriber is removed,
// after any already-queued frames.
type Subscriber struct {
	room *Room
	ch   chan []byte
}

// ListID reports which list this subscriber follows.
func (s *Subscriber) ListID() uuid.UUID {
	return s.room.listID
}

// Frames returns the outbound frame channel.
func (s *Subscriber) Frames() <-chan []byte {
	return s.ch
}

// Dispatch queues a command on the room. The result arrives asynchronously:
// successful mutations are broadcast to all subscribers, failures come back
// on this subscriber's frame channel only.
func (s *Subscriber) Dispatch(cmd Command) {
	s.room.dispatch(request{sub: s, cmd: cmd})
}

// Reply queues an error frame for this subscriber only. The transport layer
// uses it for protocol problems the room never sees, like unparseable JSON.
func (s *Subscriber) Reply(message string) {
	s.room.reply(s, marshalError(message))
}

// push delivers a frame without blocking; the caller holds the room lock.
func (s *Subscriber) push(frame []byte) bool {
	select {
	case s.ch <- frame:
		return true
	default:
		return false
	}
}
