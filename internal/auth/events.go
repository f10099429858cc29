package auth

import "sync"

// EventType identifies a change in authentication state.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event is published when a user signs in or out.
type Event struct {
	Type  EventType
	Email string
}

// Hub fans authentication events out to subscribers. Dispatch is synchronous
// and in subscription order; handlers must not block.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

// NewHub creates an event hub with no subscribers.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]func(Event))}
}

// Subscribe registers a handler and returns a function that removes it.
func (h *Hub) Subscribe(fn func(Event)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Publish delivers the event to every current subscriber.
func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	handlers := make([]func(Event), 0, len(h.subs))
	for _, fn := range h.subs {
		handlers = append(handlers, fn)
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(event)
	}
}
