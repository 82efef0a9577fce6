package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stream-relay/internal/live"
	"stream-relay/internal/sanitize"
	"stream-relay/internal/ws"
)

// StatusHandler reports liveness and watcher counts per stream.
type StatusHandler struct {
	resolver live.Resolver
	hub      *ws.Hub
}

// NewStatusHandler builds a StatusHandler.
func NewStatusHandler(resolver live.Resolver, hub *ws.Hub) *StatusHandler {
	return &StatusHandler{resolver: resolver, hub: hub}
}

// Status returns live flag, broadcast id, and the room's member count.
func (h *StatusHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()
	streamID := h.resolver.ResolveStream(ctx, sanitize.Identifier(c.Query("stream_id")))

	var broadcastID *int
	liveNow := false
	if b, ok := h.resolver.Live(ctx, streamID); ok {
		liveNow = true
		id := b.ID
		broadcastID = &id
	}

	watchers := h.hub.Watchers(streamID)
	c.JSON(http.StatusOK, gin.H{
		"stream_id":    streamID,
		"live":         liveNow,
		"broadcast_id": broadcastID,
		"watchers":     watchers,
		// alias kept for older clients
		"viewers": watchers,
	})
}

// Stats is Status plus the live broadcast's start time.
func (h *StatusHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	streamID := h.resolver.ResolveStream(ctx, sanitize.Identifier(c.Query("stream_id")))

	resp := gin.H{
		"stream_id":    streamID,
		"live":         false,
		"broadcast_id": nil,
		"started_at":   nil,
		"viewers":      h.hub.Watchers(streamID),
	}
	if b, ok := h.resolver.Live(ctx, streamID); ok {
		resp["live"] = true
		resp["broadcast_id"] = b.ID
		resp["started_at"] = b.StartedAt
	}
	c.JSON(http.StatusOK, resp)
}
