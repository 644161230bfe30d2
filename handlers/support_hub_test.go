package handlers

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient builds a hub client without a live connection; Broadcast only
// touches the send channel.
func newTestClient(buffer int) *SupportClient {
	ctx, cancel := context.WithCancel(context.Background())
	return &SupportClient{
		ID:     uuid.New().String(),
		Send:   make(chan *WSEvent, buffer),
		ctx:    ctx,
		cancel: cancel,
	}
}

func drain(client *SupportClient) []*WSEvent {
	var events []*WSEvent
	for {
		select {
		case event := <-client.Send:
			events = append(events, event)
		default:
			return events
		}
	}
}

func TestBroadcastReachesOnlyJoinedChat(t *testing.T) {
	hub := NewSupportHub(nil)

	joined := newTestClient(8)
	other := newTestClient(8)
	idle := newTestClient(8)
	hub.Register(joined)
	hub.Register(other)
	hub.Register(idle)

	hub.Join(joined, 42, nil)
	hub.Join(other, 99, nil)

	hub.Broadcast(42, &WSEvent{Type: "support_message", Content: "oi"})

	events := drain(joined)
	require.Len(t, events, 1)
	assert.Equal(t, "support_message", events[0].Type)

	assert.Empty(t, drain(other))
	assert.Empty(t, drain(idle))
}

func TestBroadcastDeliversExactlyOnce(t *testing.T) {
	hub := NewSupportHub(nil)

	client := newTestClient(8)
	hub.Register(client)
	hub.Join(client, 42, nil)

	hub.Broadcast(42, &WSEvent{Type: "support_message"})
	hub.Broadcast(99, &WSEvent{Type: "support_message"})

	assert.Len(t, drain(client), 1)
}

func TestRejoinOverwritesAssociation(t *testing.T) {
	hub := NewSupportHub(nil)

	client := newTestClient(8)
	hub.Register(client)
	hub.Join(client, 42, nil)
	hub.Join(client, 99, nil)

	hub.Broadcast(42, &WSEvent{Type: "support_message"})
	assert.Empty(t, drain(client))

	hub.Broadcast(99, &WSEvent{Type: "support_message"})
	assert.Len(t, drain(client), 1)
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewSupportHub(nil)

	client := newTestClient(8)
	hub.Register(client)
	hub.Join(client, 42, nil)
	hub.Unregister(client)

	hub.Broadcast(42, &WSEvent{Type: "support_message"})
	assert.Empty(t, drain(client))

	// the client's context is cancelled so its write pump can exit
	select {
	case <-client.ctx.Done():
	default:
		t.Fatal("expected client context to be cancelled")
	}
}

func TestBroadcastDuringDisconnectDoesNotPanic(t *testing.T) {
	hub := NewSupportHub(nil)

	const rounds = 200
	for i := 0; i < rounds; i++ {
		client := newTestClient(1)
		hub.Register(client)
		hub.Join(client, 42, nil)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.Broadcast(42, &WSEvent{Type: "support_message"})
			hub.Broadcast(42, &WSEvent{Type: "support_message"})
		}()
		go func() {
			defer wg.Done()
			hub.Unregister(client)
		}()
		wg.Wait()
	}
}

func TestSlowClientDropped(t *testing.T) {
	hub := NewSupportHub(nil)

	slow := newTestClient(1)
	healthy := newTestClient(8)
	hub.Register(slow)
	hub.Register(healthy)
	hub.Join(slow, 42, nil)
	hub.Join(healthy, 42, nil)

	hub.Broadcast(42, &WSEvent{Type: "support_message"})
	hub.Broadcast(42, &WSEvent{Type: "support_message"})

	assert.Len(t, drain(healthy), 2)

	// the slow client overflowed on the second event and was dropped
	hub.mu.RLock()
	_, stillRegistered := hub.clients[slow.ID]
	hub.mu.RUnlock()
	assert.False(t, stillRegistered)
}
