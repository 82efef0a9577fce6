package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"stream-relay/internal/models"
)

var ErrNoBroadcast = errors.New("no broadcast found")

// BroadcastRepository reads and maintains broadcast state. The chat and
// reaction pipelines only read through it; the media-server hooks write.
type BroadcastRepository interface {
	CurrentLive(ctx context.Context, streamID string) (models.Broadcast, error)
	MostRecent(ctx context.Context, streamID string) (models.Broadcast, error)
	MostRecentLiveStream(ctx context.Context) (string, error)
	Open(ctx context.Context, streamID string) (int, error)
	End(ctx context.Context, streamID string) (int64, error)
}

// BroadcastRepo is a sqlx-backed repository.
type BroadcastRepo struct {
	db *sqlx.DB
}

// NewBroadcastRepo constructs BroadcastRepo.
func NewBroadcastRepo(db *sqlx.DB) *BroadcastRepo {
	return &BroadcastRepo{db: db}
}

// CurrentLive returns the live broadcast for a stream, most recently started
// if several are open.
func (r *BroadcastRepo) CurrentLive(ctx context.Context, streamID string) (models.Broadcast, error) {
	var b models.Broadcast
	err := r.db.GetContext(ctx, &b, `SELECT id, stream_id, started_at, ended_at
        FROM broadcasts
        WHERE stream_id=$1 AND ended_at IS NULL
        ORDER BY started_at DESC
        LIMIT 1`, streamID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Broadcast{}, ErrNoBroadcast
	}
	return b, err
}

// MostRecent returns the most recently started broadcast regardless of live
// state.
func (r *BroadcastRepo) MostRecent(ctx context.Context, streamID string) (models.Broadcast, error) {
	var b models.Broadcast
	err := r.db.GetContext(ctx, &b, `SELECT id, stream_id, started_at, ended_at
        FROM broadcasts
        WHERE stream_id=$1
        ORDER BY started_at DESC
        LIMIT 1`, streamID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Broadcast{}, ErrNoBroadcast
	}
	return b, err
}

// MostRecentLiveStream returns the stream id of the most recently started
// live broadcast across all streams.
func (r *BroadcastRepo) MostRecentLiveStream(ctx context.Context) (string, error) {
	var streamID string
	err := r.db.GetContext(ctx, &streamID, `SELECT stream_id
        FROM broadcasts
        WHERE ended_at IS NULL
        ORDER BY started_at DESC
        LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoBroadcast
	}
	return streamID, err
}

// Open starts a new broadcast for the stream and returns its id.
func (r *BroadcastRepo) Open(ctx context.Context, streamID string) (int, error) {
	var id int
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO broadcasts (stream_id) VALUES ($1) RETURNING id`, streamID).Scan(&id)
	return id, err
}

// End closes the most recent live broadcast for the stream and reports how
// many rows were updated.
func (r *BroadcastRepo) End(ctx context.Context, streamID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE broadcasts SET ended_at = NOW()
        WHERE id = (
            SELECT id FROM broadcasts
            WHERE stream_id=$1 AND ended_at IS NULL
            ORDER BY started_at DESC
            LIMIT 1
        )`, streamID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
