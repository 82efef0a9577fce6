package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"stream-relay/internal/auth"
	"stream-relay/internal/live"
	"stream-relay/internal/models"
	"stream-relay/internal/observability"
	"stream-relay/internal/repositories"
	"stream-relay/internal/sanitize"
)

const maxMessageRunes = 500

// dbTimeout bounds each persistence round trip inside the read loop.
const dbTimeout = 5 * time.Second

// Options configures the relay handler.
type Options struct {
	DefaultStream  string
	AllowAnonymous bool
	RateRPS        float64
	RateBurst      int
}

// RelayHandler owns connection lifecycle: handshake, room membership, the
// per-connection read loop, and teardown.
type RelayHandler struct {
	hub      *Hub
	verifier auth.Verifier
	resolver live.Resolver
	messages repositories.MessageRepository
	opts     Options
}

// NewRelayHandler constructs a RelayHandler.
func NewRelayHandler(hub *Hub, verifier auth.Verifier, resolver live.Resolver, messages repositories.MessageRepository, opts Options) *RelayHandler {
	return &RelayHandler{
		hub:      hub,
		verifier: verifier,
		resolver: resolver,
		messages: messages,
		opts:     opts,
	}
}

// TLS termination and host scoping happen at the reverse proxy.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection, authenticates it, joins it to its room, and
// starts the connection's pumps.
func (h *RelayHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("stream-relay/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	streamID := sanitize.Identifier(c.Query("stream_id"))
	if streamID == "" {
		streamID = h.opts.DefaultStream
	}

	identity, ok := h.authenticate(ctx, c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	limiter := rate.NewLimiter(rate.Limit(h.opts.RateRPS), h.opts.RateBurst)
	client := newClient(conn, streamID, identity, limiter, observability.IPFromRequest(c.Request))

	h.hub.Join(streamID, client)
	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	h.publishEvent(ctx, c.Request, "ws_connect", client, "")

	go client.writePump()

	h.greet(ctx, client)

	go h.readLoop(c.Request, client)
}

// authenticate resolves the connection's identity from the bearer credential.
// Missing or unverifiable tokens degrade to a guest identity when anonymous
// access is allowed.
func (h *RelayHandler) authenticate(ctx context.Context, c *gin.Context) (auth.Identity, bool) {
	token := bearerToken(c)
	if token != "" {
		identity, err := h.verifier.Verify(ctx, token)
		if err == nil {
			return identity, true
		}
		if !errors.Is(err, auth.ErrVerificationDisabled) {
			log.Printf("token verification failed: %v", err)
		}
	}
	if !h.opts.AllowAnonymous {
		return auth.Identity{}, false
	}
	return auth.Guest(), true
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// greet sends the hello frame to the new connection only.
func (h *RelayHandler) greet(ctx context.Context, client *Client) {
	hello := models.HelloFrame{
		Type:     "hello",
		StreamID: client.streamID,
		User:     models.HelloUser{Name: client.identity.Name},
	}
	if b, ok := h.resolver.Live(ctx, client.streamID); ok {
		hello.Live = true
		id := b.ID
		hello.BroadcastID = &id
	}
	client.sendJSON(hello)
}

// readLoop consumes inbound frames until the connection dies. Each frame is
// processed to completion before the next read, so one connection's messages
// keep their submission order.
func (h *RelayHandler) readLoop(req *http.Request, client *Client) {
	var closeReason string
	defer func() {
		client.shutdown(h.hub)
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		h.publishEvent(context.Background(), req, "ws_disconnect", client, closeReason)
	}()

	client.conn.SetReadLimit(maxFrameBytes)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
			}
			return
		}
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		h.handleFrame(client, data)
	}
}

// handleFrame runs the message pipeline for one inbound frame: parse,
// validate, rate-limit, sanitize, persist, broadcast. Rejections go to the
// sender only; malformed frames are dropped silently.
func (h *RelayHandler) handleFrame(client *Client, data []byte) {
	frame, ok := decodeChatFrame(data)
	if !ok {
		return
	}

	text := strings.TrimSpace(frame.Text)
	if text == "" {
		return
	}
	if utf8.RuneCountInString(text) > maxMessageRunes {
		client.sendJSON(models.ErrorFrame{Type: "error", Reason: models.ReasonMessageTooLong})
		return
	}
	if !client.limiter.Allow() {
		observability.IncWSEvent("chat_rejected")
		client.sendJSON(models.ErrorFrame{Type: "error", Reason: models.ReasonRateLimited})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	// Liveness is looked up fresh per message, never cached from connect
	// time.
	broadcast, liveNow := h.resolver.Live(ctx, client.streamID)
	if !liveNow {
		client.sendJSON(models.ChatClosedFrame{Type: "chat_closed", Reason: models.ReasonStreamOffline})
		return
	}

	clean := sanitize.Text(text)
	if sanitize.Blocked(clean) {
		observability.IncWSEvent("chat_blocked")
		client.sendJSON(models.ErrorFrame{Type: "error", Reason: models.ReasonMessageBlocked})
		return
	}

	msg, err := h.messages.Insert(ctx, broadcast.ID, client.streamID, client.identity.Sub, client.identity.Name, clean)
	if err != nil {
		log.Printf("chat insert failed: stream=%s err=%v", client.streamID, err)
		client.sendJSON(models.ErrorFrame{Type: "error", Reason: models.ReasonDBError})
		return
	}

	observability.IncWSEvent("chat_message")
	h.hub.Broadcast(client.streamID, models.ChatFrame{
		Type:        "chat",
		ID:          msg.ID,
		StreamID:    msg.StreamID,
		BroadcastID: msg.BroadcastID,
		UserName:    msg.UserName,
		Text:        msg.Text,
		SentAt:      msg.SentAt,
	})
}

func decodeChatFrame(data []byte) (models.InboundFrame, bool) {
	var frame models.InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return models.InboundFrame{}, false
	}
	if frame.Type != "chat" {
		return models.InboundFrame{}, false
	}
	return frame, true
}

func (h *RelayHandler) publishEvent(ctx context.Context, req *http.Request, event string, client *Client, reason string) {
	requestID := observability.RequestIDFromRequest(req)
	_ = observability.PublishEvent(ctx, "relay_events.chat", observability.EventEnvelope{
		EventType: "relay_events",
		EventName: event,
		Payload: observability.WSEventPayload{
			StreamID:   client.streamID,
			ConnID:     client.connID,
			UserName:   client.identity.Name,
			IP:         client.ip,
			DurationMS: time.Since(client.connectedAt).Milliseconds(),
			Reason:     reason,
		},
	}, observability.BuildHeaders(requestID, ""))
}
