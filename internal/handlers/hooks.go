package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stream-relay/internal/repositories"
	"stream-relay/internal/sanitize"
)

// HooksHandler serves the media-server callbacks that open and close
// broadcasts. These sit outside the relay core, which only ever reads
// broadcast state; co-hosting them keeps a single-process deploy complete.
type HooksHandler struct {
	broadcasts    repositories.BroadcastRepository
	defaultStream string
}

// NewHooksHandler builds a HooksHandler.
func NewHooksHandler(broadcasts repositories.BroadcastRepository, defaultStream string) *HooksHandler {
	return &HooksHandler{broadcasts: broadcasts, defaultStream: defaultStream}
}

type hookBody struct {
	Stream   string `json:"stream"`
	StreamID string `json:"stream_id"`
}

func (h *HooksHandler) streamFrom(body hookBody) string {
	streamID := sanitize.Identifier(body.Stream)
	if streamID == "" {
		streamID = sanitize.Identifier(body.StreamID)
	}
	if streamID == "" {
		streamID = h.defaultStream
	}
	return streamID
}

// Publish opens a broadcast for the stream, reusing the live one when the
// callback is retried.
func (h *HooksHandler) Publish(c *gin.Context) {
	var body hookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_json"})
		return
	}
	streamID := h.streamFrom(body)

	ctx := c.Request.Context()
	broadcastID := 0
	if b, err := h.broadcasts.CurrentLive(ctx, streamID); err == nil {
		broadcastID = b.ID
	} else if errors.Is(err, repositories.ErrNoBroadcast) {
		id, err := h.broadcasts.Open(ctx, streamID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db_error"})
			return
		}
		broadcastID = id
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":         0,
		"stream_id":    streamID,
		"broadcast_id": broadcastID,
	})
}

// Unpublish ends the stream's live broadcast.
func (h *HooksHandler) Unpublish(c *gin.Context) {
	var body hookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_json"})
		return
	}
	streamID := h.streamFrom(body)

	updated, err := h.broadcasts.End(c.Request.Context(), streamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":      0,
		"stream_id": streamID,
		"updated":   updated,
	})
}

// Ack acknowledges segment callbacks the relay has no use for.
func (h *HooksHandler) Ack(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": 0})
}
