package models

import "time"

// ChatMessage is a persisted chat line. Text is stored already sanitized; id
// and sent_at are assigned by the database and are authoritative.
type ChatMessage struct {
	ID          int       `db:"id" json:"id"`
	BroadcastID int       `db:"broadcast_id" json:"broadcast_id"`
	StreamID    string    `db:"stream_id" json:"stream_id"`
	UserSub     *string   `db:"user_sub" json:"-"`
	UserName    string    `db:"user_name" json:"user_name"`
	Text        string    `db:"text" json:"text"`
	SentAt      time.Time `db:"sent_at" json:"sent_at"`
}

// ChatHistoryEntry is the reduced view returned by the history endpoint.
type ChatHistoryEntry struct {
	ID       int       `db:"id" json:"id"`
	UserName string    `db:"user_name" json:"user_name"`
	Text     string    `db:"text" json:"text"`
	SentAt   time.Time `db:"sent_at" json:"sent_at"`
}
