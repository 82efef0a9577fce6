package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stream-relay/internal/live"
	"stream-relay/internal/models"
	"stream-relay/internal/repositories"
	"stream-relay/internal/sanitize"
)

const (
	historyDefaultLimit = 50
	historyMaxLimit     = 200
)

// HistoryHandler serves the bounded chat history for the current or latest
// broadcast.
type HistoryHandler struct {
	messages repositories.MessageRepository
	resolver live.Resolver
}

// NewHistoryHandler builds a HistoryHandler.
func NewHistoryHandler(messages repositories.MessageRepository, resolver live.Resolver) *HistoryHandler {
	return &HistoryHandler{messages: messages, resolver: resolver}
}

// Get returns up to limit messages, most recent first.
func (h *HistoryHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	streamID := h.resolver.ResolveStream(ctx, sanitize.Identifier(c.Query("stream_id")))
	limit := clampLimit(c.Query("limit"))

	broadcastID, ok := h.resolver.Target(ctx, streamID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"stream_id": streamID,
			"messages":  []models.ChatHistoryEntry{},
		})
		return
	}

	msgs, err := h.messages.History(ctx, broadcastID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stream_id":    streamID,
		"broadcast_id": broadcastID,
		"messages":     msgs,
	})
}

func clampLimit(raw string) int {
	limit := historyDefaultLimit
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > historyMaxLimit {
		limit = historyMaxLimit
	}
	return limit
}
