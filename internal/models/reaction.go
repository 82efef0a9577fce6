package models

import "time"

// Reaction kinds form a fixed enumeration.
const (
	ReactionLike    = "like"
	ReactionHeart   = "heart"
	ReactionDislike = "dislike"
)

// ValidReactionKind reports whether kind is part of the enumeration.
func ValidReactionKind(kind string) bool {
	switch kind {
	case ReactionLike, ReactionHeart, ReactionDislike:
		return true
	}
	return false
}

// Reaction is a persisted vote event against a broadcast.
type Reaction struct {
	ID          int       `db:"id" json:"id"`
	BroadcastID int       `db:"broadcast_id" json:"broadcast_id"`
	StreamID    string    `db:"stream_id" json:"stream_id"`
	UserSub     *string   `db:"user_sub" json:"-"`
	Kind        string    `db:"kind" json:"kind"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ReactionCounts is the per-kind tally for one broadcast.
type ReactionCounts struct {
	Like    int `json:"like"`
	Heart   int `json:"heart"`
	Dislike int `json:"dislike"`
}

// Set assigns a count by kind name, ignoring unknown kinds.
func (c *ReactionCounts) Set(kind string, n int) {
	switch kind {
	case ReactionLike:
		c.Like = n
	case ReactionHeart:
		c.Heart = n
	case ReactionDislike:
		c.Dislike = n
	}
}
