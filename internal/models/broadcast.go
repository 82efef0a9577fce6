package models

import "time"

// Broadcast is one continuous live session for a stream. Live means ended_at
// is unset.
type Broadcast struct {
	ID        int        `db:"id" json:"id"`
	StreamID  string     `db:"stream_id" json:"stream_id"`
	StartedAt time.Time  `db:"started_at" json:"started_at"`
	EndedAt   *time.Time `db:"ended_at" json:"ended_at,omitempty"`
}

func (b Broadcast) Live() bool {
	return b.EndedAt == nil
}
