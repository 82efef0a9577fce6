package ws

import (
	"encoding/json"
	"log"
	"sync"

	"stream-relay/internal/observability"
)

// Hub is the room registry: the live set of connections subscribed to each
// stream id. It is the only shared mutable structure in the relay; every
// mutation and every broadcast enumeration goes through its mutex.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

// Join idempotently adds a client to the room for streamID, creating the room
// lazily on first join.
func (h *Hub) Join(streamID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[streamID]; !ok {
		h.rooms[streamID] = make(map[*Client]bool)
	}
	h.rooms[streamID][c] = true
}

// Leave removes a client; an empty room is discarded.
func (h *Hub) Leave(streamID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[streamID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, streamID)
		}
	}
}

// Watchers returns the current member count for a stream's room.
func (h *Hub) Watchers(streamID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[streamID])
}

// Broadcast delivers a frame to every member of streamID's room, best effort:
// a member whose outbound queue is full has the frame dropped rather than
// stalling the room. Membership is snapshotted under the read lock so a
// concurrent join or leave cannot corrupt the iteration.
func (h *Hub) Broadcast(streamID string, frame any) {
	payload, err := json.Marshal(frame)
	if err != nil {
		log.Printf("marshal broadcast frame failed: %v", err)
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[streamID]))
	for c := range h.rooms[streamID] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		if !c.enqueue(payload) {
			observability.IncBroadcastDropped()
			log.Printf("broadcast frame dropped: stream=%s conn=%s", streamID, c.connID)
		}
	}
}
