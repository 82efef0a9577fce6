package models

import "time"

// Wire frames exchanged over the websocket. One JSON object per frame.

// InboundFrame is the envelope for client-originated frames. Only type "chat"
// is recognized; anything else is dropped without a response.
type InboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// HelloUser carries the resolved display name in the greeting.
type HelloUser struct {
	Name string `json:"name"`
}

// HelloFrame is sent once to a connection right after it joins its room.
type HelloFrame struct {
	Type        string    `json:"type"`
	StreamID    string    `json:"stream_id"`
	Live        bool      `json:"live"`
	BroadcastID *int      `json:"broadcast_id"`
	User        HelloUser `json:"user"`
}

// ChatFrame is broadcast to every room member for each accepted message.
type ChatFrame struct {
	Type        string    `json:"type"`
	ID          int       `json:"id"`
	StreamID    string    `json:"stream_id"`
	BroadcastID int       `json:"broadcast_id"`
	UserName    string    `json:"user_name"`
	Text        string    `json:"text"`
	SentAt      time.Time `json:"sent_at"`
}

// ChatClosedFrame tells the sender chat is unavailable while the stream is
// offline.
type ChatClosedFrame struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// ErrorFrame reports a per-message rejection to the sender only.
type ErrorFrame struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// ReactionFrame is broadcast to the room whenever a reaction is recorded.
type ReactionFrame struct {
	Type        string         `json:"type"`
	StreamID    string         `json:"stream_id"`
	BroadcastID int            `json:"broadcast_id"`
	Kind        string         `json:"kind"`
	Counts      ReactionCounts `json:"counts"`
}

// Rejection reasons carried by ErrorFrame and ChatClosedFrame.
const (
	ReasonMessageTooLong = "message_too_long"
	ReasonMessageBlocked = "message_blocked"
	ReasonRateLimited    = "rate_limited"
	ReasonStreamOffline  = "stream_offline"
	ReasonDBError        = "db_error"
)
