package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_PublishReachesSubscribers(t *testing.T) {
	hub := NewHub()

	var got []Event
	hub.Subscribe(func(e Event) { got = append(got, e) })

	hub.Publish(Event{Type: EventSignedIn, Email: "kim@gschargev.co.kr"})
	hub.Publish(Event{Type: EventSignedOut, Email: "kim@gschargev.co.kr"})

	assert.Len(t, got, 2)
	assert.Equal(t, EventSignedIn, got[0].Type)
	assert.Equal(t, EventSignedOut, got[1].Type)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub()

	calls := 0
	unsubscribe := hub.Subscribe(func(Event) { calls++ })

	hub.Publish(Event{Type: EventSignedIn})
	unsubscribe()
	hub.Publish(Event{Type: EventSignedOut})

	assert.Equal(t, 1, calls)
}

func TestHub_PublishWithNoSubscribers(t *testing.T) {
	hub := NewHub()
	// Must not panic.
	hub.Publish(Event{Type: EventSignedOut})
}
