package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"stream-relay/internal/models"
)

// MessageRepository persists and serves chat messages.
type MessageRepository interface {
	Insert(ctx context.Context, broadcastID int, streamID string, userSub *string, userName, text string) (models.ChatMessage, error)
	History(ctx context.Context, broadcastID, limit int) ([]models.ChatHistoryEntry, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Insert stores a sanitized chat message. The returned id and sent_at come
// from the database and are the values broadcast to the room.
func (r *MessageRepo) Insert(ctx context.Context, broadcastID int, streamID string, userSub *string, userName, text string) (models.ChatMessage, error) {
	msg := models.ChatMessage{
		BroadcastID: broadcastID,
		StreamID:    streamID,
		UserSub:     userSub,
		UserName:    userName,
		Text:        text,
	}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO chat_messages (broadcast_id, stream_id, user_sub, user_name, text)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, sent_at`,
		broadcastID, streamID, userSub, userName, text).
		Scan(&msg.ID, &msg.SentAt)
	return msg, err
}

// History returns up to limit messages for a broadcast, most recent first.
func (r *MessageRepo) History(ctx context.Context, broadcastID, limit int) ([]models.ChatHistoryEntry, error) {
	msgs := []models.ChatHistoryEntry{}
	err := r.db.SelectContext(ctx, &msgs, `SELECT id, user_name, text, sent_at
        FROM chat_messages
        WHERE broadcast_id=$1
        ORDER BY id DESC
        LIMIT $2`, broadcastID, limit)
	return msgs, err
}
