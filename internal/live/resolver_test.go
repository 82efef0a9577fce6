package live_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stream-relay/internal/live"
	"stream-relay/internal/mocks"
	"stream-relay/internal/models"
	"stream-relay/internal/repositories"
)

func TestLiveReturnsBroadcast(t *testing.T) {
	repo := new(mocks.BroadcastRepositoryMock)
	resolver := live.NewResolver(repo, "webinar")

	repo.On("CurrentLive", mock.Anything, "webinar").
		Return(models.Broadcast{ID: 42, StreamID: "webinar"}, nil).Once()

	b, ok := resolver.Live(context.Background(), "webinar")
	require.True(t, ok)
	assert.Equal(t, 42, b.ID)
	repo.AssertExpectations(t)
}

func TestLiveDegradesOnLookupFailure(t *testing.T) {
	repo := new(mocks.BroadcastRepositoryMock)
	resolver := live.NewResolver(repo, "webinar")

	repo.On("CurrentLive", mock.Anything, "webinar").
		Return(models.Broadcast{}, assert.AnError).Once()

	_, ok := resolver.Live(context.Background(), "webinar")
	assert.False(t, ok)
	repo.AssertExpectations(t)
}

func TestTargetPrefersLive(t *testing.T) {
	repo := new(mocks.BroadcastRepositoryMock)
	resolver := live.NewResolver(repo, "webinar")

	repo.On("CurrentLive", mock.Anything, "webinar").
		Return(models.Broadcast{ID: 7}, nil).Once()

	id, ok := resolver.Target(context.Background(), "webinar")
	require.True(t, ok)
	assert.Equal(t, 7, id)
	repo.AssertNotCalled(t, "MostRecent", mock.Anything, mock.Anything)
}

func TestTargetFallsBackToMostRecent(t *testing.T) {
	repo := new(mocks.BroadcastRepositoryMock)
	resolver := live.NewResolver(repo, "webinar")

	repo.On("CurrentLive", mock.Anything, "webinar").
		Return(models.Broadcast{}, repositories.ErrNoBroadcast).Once()
	repo.On("MostRecent", mock.Anything, "webinar").
		Return(models.Broadcast{ID: 5}, nil).Once()

	id, ok := resolver.Target(context.Background(), "webinar")
	require.True(t, ok)
	assert.Equal(t, 5, id)
	repo.AssertExpectations(t)
}

func TestTargetNoBroadcastAtAll(t *testing.T) {
	repo := new(mocks.BroadcastRepositoryMock)
	resolver := live.NewResolver(repo, "webinar")

	repo.On("CurrentLive", mock.Anything, "webinar").
		Return(models.Broadcast{}, repositories.ErrNoBroadcast).Once()
	repo.On("MostRecent", mock.Anything, "webinar").
		Return(models.Broadcast{}, repositories.ErrNoBroadcast).Once()

	_, ok := resolver.Target(context.Background(), "webinar")
	assert.False(t, ok)
}

func TestResolveStreamExplicitWins(t *testing.T) {
	repo := new(mocks.BroadcastRepositoryMock)
	resolver := live.NewResolver(repo, "webinar")

	got := resolver.ResolveStream(context.Background(), "townhall")
	assert.Equal(t, "townhall", got)
	repo.AssertNotCalled(t, "MostRecentLiveStream", mock.Anything)
}

func TestResolveStreamPicksLiveThenDefault(t *testing.T) {
	repo := new(mocks.BroadcastRepositoryMock)
	resolver := live.NewResolver(repo, "webinar")

	repo.On("MostRecentLiveStream", mock.Anything).Return("townhall", nil).Once()
	assert.Equal(t, "townhall", resolver.ResolveStream(context.Background(), ""))

	repo.On("MostRecentLiveStream", mock.Anything).Return("", repositories.ErrNoBroadcast).Once()
	assert.Equal(t, "webinar", resolver.ResolveStream(context.Background(), ""))
	repo.AssertExpectations(t)
}
