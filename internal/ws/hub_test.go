package ws

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(streamID string, buffer int) *Client {
	return &Client{
		send:     make(chan []byte, buffer),
		done:     make(chan struct{}),
		streamID: streamID,
		connID:   newConnID(),
	}
}

func TestHubJoinLeaveDiscardsEmptyRoom(t *testing.T) {
	hub := NewHub()
	c := newTestClient("webinar", 1)

	hub.Join("webinar", c)
	require.Equal(t, 1, hub.Watchers("webinar"))

	// Join is idempotent.
	hub.Join("webinar", c)
	require.Equal(t, 1, hub.Watchers("webinar"))

	hub.Leave("webinar", c)
	assert.Equal(t, 0, hub.Watchers("webinar"))
	assert.Empty(t, hub.rooms)
}

func TestBroadcastReachesOnlyRoomMembers(t *testing.T) {
	hub := NewHub()
	a := newTestClient("webinar", 4)
	b := newTestClient("webinar", 4)
	other := newTestClient("townhall", 4)

	hub.Join("webinar", a)
	hub.Join("webinar", b)
	hub.Join("townhall", other)

	hub.Broadcast("webinar", map[string]string{"type": "chat", "text": "hi"})

	require.Len(t, a.send, 1)
	require.Len(t, b.send, 1)
	assert.Len(t, other.send, 0)

	payload := <-a.send
	assert.JSONEq(t, `{"type":"chat","text":"hi"}`, string(payload))
}

func TestBroadcastDropsWhenQueueFull(t *testing.T) {
	hub := NewHub()
	c := newTestClient("webinar", 1)
	hub.Join("webinar", c)

	hub.Broadcast("webinar", map[string]int{"n": 1})
	hub.Broadcast("webinar", map[string]int{"n": 2})

	// Second frame was dropped, not queued and not blocking.
	require.Len(t, c.send, 1)
	assert.JSONEq(t, `{"n":1}`, string(<-c.send))
}

func TestBroadcastSkipsClosedClient(t *testing.T) {
	hub := NewHub()
	c := newTestClient("webinar", 4)
	hub.Join("webinar", c)
	close(c.done)

	hub.Broadcast("webinar", map[string]int{"n": 1})
	assert.Len(t, c.send, 0)
}

func TestConcurrentJoinLeaveBroadcast(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newTestClient("webinar", 8)
			hub.Join("webinar", c)
			hub.Broadcast("webinar", map[string]int{"n": 1})
			hub.Leave("webinar", c)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, hub.Watchers("webinar"))
}
