// Package live resolves broadcast liveness for streams. Lookup failures
// degrade to "not live" rather than propagating: liveness uncertainty must
// never crash the relay.
package live

import (
	"context"
	"errors"
	"log"

	"stream-relay/internal/models"
	"stream-relay/internal/repositories"
)

// Resolver answers liveness questions for the pipelines and HTTP handlers.
type Resolver interface {
	// Live returns the current live broadcast for a stream, if any.
	Live(ctx context.Context, streamID string) (models.Broadcast, bool)
	// Target returns the broadcast id reactions and history should attach
	// to: the live broadcast, falling back to the most recent one.
	Target(ctx context.Context, streamID string) (int, bool)
	// ResolveStream picks the effective stream id: the explicit one when
	// given, else the stream with the most recently started live broadcast,
	// else the configured default.
	ResolveStream(ctx context.Context, explicit string) string
}

// BroadcastResolver is the repository-backed Resolver.
type BroadcastResolver struct {
	broadcasts    repositories.BroadcastRepository
	defaultStream string
}

// NewResolver constructs a BroadcastResolver.
func NewResolver(broadcasts repositories.BroadcastRepository, defaultStream string) *BroadcastResolver {
	return &BroadcastResolver{broadcasts: broadcasts, defaultStream: defaultStream}
}

func (r *BroadcastResolver) Live(ctx context.Context, streamID string) (models.Broadcast, bool) {
	b, err := r.broadcasts.CurrentLive(ctx, streamID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNoBroadcast) {
			log.Printf("live lookup failed, treating stream as offline: stream=%s err=%v", streamID, err)
		}
		return models.Broadcast{}, false
	}
	return b, true
}

func (r *BroadcastResolver) Target(ctx context.Context, streamID string) (int, bool) {
	if b, ok := r.Live(ctx, streamID); ok {
		return b.ID, true
	}
	b, err := r.broadcasts.MostRecent(ctx, streamID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNoBroadcast) {
			log.Printf("most-recent lookup failed: stream=%s err=%v", streamID, err)
		}
		return 0, false
	}
	return b.ID, true
}

func (r *BroadcastResolver) ResolveStream(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	streamID, err := r.broadcasts.MostRecentLiveStream(ctx)
	if err != nil || streamID == "" {
		return r.defaultStream
	}
	return streamID
}
