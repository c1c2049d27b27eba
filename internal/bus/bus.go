// Package bus provides the in-process publish/subscribe channel that
// notifies sibling screens of data changes.
package bus

import "sync"

// Event names a data change other screens may want to react to.
type Event string

// Events published by the client.
const (
	EventUploadCompleted Event = "upload_completed"
	EventLoggedOut       Event = "logged_out"
)

const subscriberBuffer = 8

// Bus fans events out to subscribers. Publish is fire-and-forget: a
// subscriber with a full buffer misses the event rather than blocking
// the publisher.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: map[int]chan Event{}}
}

// Subscribe registers a subscriber. The returned cancel func must be
// called when the subscriber stops reading.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every current subscriber without blocking.
func (b *Bus) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
