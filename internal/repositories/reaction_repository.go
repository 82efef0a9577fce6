package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"stream-relay/internal/models"
)

// ReactionRepository persists reaction events and computes tallies.
type ReactionRepository interface {
	Insert(ctx context.Context, broadcastID int, streamID string, userSub *string, kind string) error
	Counts(ctx context.Context, broadcastID int) (models.ReactionCounts, error)
}

// ReactionRepo is a sqlx-backed repository.
type ReactionRepo struct {
	db *sqlx.DB
}

// NewReactionRepo constructs ReactionRepo.
func NewReactionRepo(db *sqlx.DB) *ReactionRepo {
	return &ReactionRepo{db: db}
}

// Insert records one reaction. Anonymous reactions carry a nil userSub.
func (r *ReactionRepo) Insert(ctx context.Context, broadcastID int, streamID string, userSub *string, kind string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reactions (broadcast_id, stream_id, user_sub, kind)
         VALUES ($1, $2, $3, $4)`,
		broadcastID, streamID, userSub, kind)
	return err
}

// Counts recomputes the full per-kind tally for a broadcast. A recount per
// call keeps the numbers correct without maintaining counters.
func (r *ReactionRepo) Counts(ctx context.Context, broadcastID int) (models.ReactionCounts, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT kind, COUNT(*) AS n
        FROM reactions
        WHERE broadcast_id=$1
        GROUP BY kind`, broadcastID)
	if err != nil {
		return models.ReactionCounts{}, err
	}
	defer rows.Close()

	var counts models.ReactionCounts
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return models.ReactionCounts{}, err
		}
		counts.Set(kind, n)
	}
	return counts, rows.Err()
}
