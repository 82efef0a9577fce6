package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stream-relay/internal/auth"
	"stream-relay/internal/live"
	"stream-relay/internal/models"
	"stream-relay/internal/repositories"
)

type BroadcastRepositoryMock struct {
	mock.Mock
}

func (m *BroadcastRepositoryMock) CurrentLive(ctx context.Context, streamID string) (models.Broadcast, error) {
	args := m.Called(ctx, streamID)
	var b models.Broadcast
	if val := args.Get(0); val != nil {
		b = val.(models.Broadcast)
	}
	return b, args.Error(1)
}

func (m *BroadcastRepositoryMock) MostRecent(ctx context.Context, streamID string) (models.Broadcast, error) {
	args := m.Called(ctx, streamID)
	var b models.Broadcast
	if val := args.Get(0); val != nil {
		b = val.(models.Broadcast)
	}
	return b, args.Error(1)
}

func (m *BroadcastRepositoryMock) MostRecentLiveStream(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *BroadcastRepositoryMock) Open(ctx context.Context, streamID string) (int, error) {
	args := m.Called(ctx, streamID)
	return args.Int(0), args.Error(1)
}

func (m *BroadcastRepositoryMock) End(ctx context.Context, streamID string) (int64, error) {
	args := m.Called(ctx, streamID)
	return int64(args.Int(0)), args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Insert(ctx context.Context, broadcastID int, streamID string, userSub *string, userName, text string) (models.ChatMessage, error) {
	args := m.Called(ctx, broadcastID, streamID, userSub, userName, text)
	var msg models.ChatMessage
	if val := args.Get(0); val != nil {
		msg = val.(models.ChatMessage)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) History(ctx context.Context, broadcastID, limit int) ([]models.ChatHistoryEntry, error) {
	args := m.Called(ctx, broadcastID, limit)
	var msgs []models.ChatHistoryEntry
	if val := args.Get(0); val != nil {
		msgs = val.([]models.ChatHistoryEntry)
	}
	return msgs, args.Error(1)
}

type ReactionRepositoryMock struct {
	mock.Mock
}

func (m *ReactionRepositoryMock) Insert(ctx context.Context, broadcastID int, streamID string, userSub *string, kind string) error {
	args := m.Called(ctx, broadcastID, streamID, userSub, kind)
	return args.Error(0)
}

func (m *ReactionRepositoryMock) Counts(ctx context.Context, broadcastID int) (models.ReactionCounts, error) {
	args := m.Called(ctx, broadcastID)
	var counts models.ReactionCounts
	if val := args.Get(0); val != nil {
		counts = val.(models.ReactionCounts)
	}
	return counts, args.Error(1)
}

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) Live(ctx context.Context, streamID string) (models.Broadcast, bool) {
	args := m.Called(ctx, streamID)
	var b models.Broadcast
	if val := args.Get(0); val != nil {
		b = val.(models.Broadcast)
	}
	return b, args.Bool(1)
}

func (m *ResolverMock) Target(ctx context.Context, streamID string) (int, bool) {
	args := m.Called(ctx, streamID)
	return args.Int(0), args.Bool(1)
}

func (m *ResolverMock) ResolveStream(ctx context.Context, explicit string) string {
	args := m.Called(ctx, explicit)
	return args.String(0)
}

type VerifierMock struct {
	mock.Mock
}

func (m *VerifierMock) Verify(ctx context.Context, token string) (auth.Identity, error) {
	args := m.Called(ctx, token)
	var ident auth.Identity
	if val := args.Get(0); val != nil {
		ident = val.(auth.Identity)
	}
	return ident, args.Error(1)
}

var _ repositories.BroadcastRepository = (*BroadcastRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.ReactionRepository = (*ReactionRepositoryMock)(nil)
var _ live.Resolver = (*ResolverMock)(nil)
var _ auth.Verifier = (*VerifierMock)(nil)
