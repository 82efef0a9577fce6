package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stream-relay/internal/live"
	"stream-relay/internal/models"
	"stream-relay/internal/repositories"
	"stream-relay/internal/sanitize"
	"stream-relay/internal/ws"
)

// ReactionHandler records reactions and serves tallies.
type ReactionHandler struct {
	reactions     repositories.ReactionRepository
	resolver      live.Resolver
	hub           *ws.Hub
	defaultStream string
}

// NewReactionHandler builds a ReactionHandler.
func NewReactionHandler(reactions repositories.ReactionRepository, resolver live.Resolver, hub *ws.Hub, defaultStream string) *ReactionHandler {
	return &ReactionHandler{
		reactions:     reactions,
		resolver:      resolver,
		hub:           hub,
		defaultStream: defaultStream,
	}
}

// Post records one reaction against the live (or most recent) broadcast,
// recounts the tally, and broadcasts the update to the stream's room.
func (h *ReactionHandler) Post(c *gin.Context) {
	var req struct {
		StreamID string `json:"stream_id"`
		Kind     string `json:"kind"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_json"})
		return
	}

	streamID := sanitize.Identifier(req.StreamID)
	if streamID == "" {
		streamID = h.defaultStream
	}
	kind := sanitize.Identifier(req.Kind)
	if !models.ValidReactionKind(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_kind"})
		return
	}

	ctx := c.Request.Context()
	broadcastID, ok := h.resolver.Target(ctx, streamID)
	if !ok {
		// 409: the input was fine but no broadcast exists to attach to.
		c.JSON(http.StatusConflict, gin.H{"error": "no_broadcast"})
		return
	}

	// Anonymous reactions are permitted; no author identity is recorded.
	if err := h.reactions.Insert(ctx, broadcastID, streamID, nil, kind); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db_error"})
		return
	}

	counts, err := h.reactions.Counts(ctx, broadcastID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db_error"})
		return
	}

	h.hub.Broadcast(streamID, models.ReactionFrame{
		Type:        "reaction",
		StreamID:    streamID,
		BroadcastID: broadcastID,
		Kind:        kind,
		Counts:      counts,
	})

	c.JSON(http.StatusOK, gin.H{
		"stream_id":    streamID,
		"broadcast_id": broadcastID,
		"counts":       counts,
	})
}

// Get returns the current tally without recording a reaction. Zero counts
// when no broadcast exists; never an error for an unknown stream.
func (h *ReactionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	streamID := h.resolver.ResolveStream(ctx, sanitize.Identifier(c.Query("stream_id")))

	broadcastID, ok := h.resolver.Target(ctx, streamID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"stream_id": streamID,
			"counts":    models.ReactionCounts{},
		})
		return
	}

	counts, err := h.reactions.Counts(ctx, broadcastID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stream_id":    streamID,
		"broadcast_id": broadcastID,
		"counts":       counts,
	})
}
