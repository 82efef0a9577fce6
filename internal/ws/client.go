package ws

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"stream-relay/internal/auth"
)

const (
	// writeWait bounds a single frame write so a stuck peer cannot stall
	// the write pump.
	writeWait = 10 * time.Second
	// pongWait is the read deadline; pings go out at pingPeriod to keep it
	// refreshed on a healthy connection.
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second

	maxFrameBytes = 4096

	// sendBuffer is the per-connection outbound queue. Broadcast drops new
	// frames for a member whose queue is full.
	sendBuffer = 64
)

// Client is one duplex connection joined to a room. It is owned by the relay
// handler that created it; the Hub only references it.
type Client struct {
	conn        *websocket.Conn
	send        chan []byte
	done        chan struct{}
	streamID    string
	identity    auth.Identity
	limiter     *rate.Limiter
	connID      string
	ip          string
	connectedAt time.Time

	teardown sync.Once
}

func newClient(conn *websocket.Conn, streamID string, identity auth.Identity, limiter *rate.Limiter, ip string) *Client {
	return &Client{
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		done:        make(chan struct{}),
		streamID:    streamID,
		identity:    identity,
		limiter:     limiter,
		connID:      newConnID(),
		ip:          ip,
		connectedAt: time.Now(),
	}
}

// enqueue hands a frame to the write pump without blocking. It reports false
// when the outbound queue is full and the frame was dropped.
func (c *Client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// sendJSON marshals and enqueues a frame addressed to this client only.
func (c *Client) sendJSON(frame any) {
	payload, err := json.Marshal(frame)
	if err != nil {
		log.Printf("marshal frame failed: %v", err)
		return
	}
	if !c.enqueue(payload) {
		log.Printf("outbound queue full, frame dropped: stream=%s conn=%s", c.streamID, c.connID)
	}
}

// writePump drains the outbound queue and emits heartbeat pings. It exits
// when the queue closes, the connection dies, or teardown fires.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("websocket write error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// shutdown removes the client from its room and releases the connection.
// Safe to call from concurrent close paths; the room leave happens exactly
// once.
func (c *Client) shutdown(hub *Hub) {
	c.teardown.Do(func() {
		hub.Leave(c.streamID, c)
		close(c.done)
		c.conn.Close()
	})
}

func newConnID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
