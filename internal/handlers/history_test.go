package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stream-relay/internal/mocks"
	"stream-relay/internal/models"
)

func setupHistoryRouter(handler *HistoryHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/chat/history", handler.Get)
	return r
}

func TestHistoryReturnsMessages(t *testing.T) {
	messages := new(mocks.MessageRepositoryMock)
	resolver := new(mocks.ResolverMock)
	handler := NewHistoryHandler(messages, resolver)
	router := setupHistoryRouter(handler)

	resolver.On("ResolveStream", mock.Anything, "webinar").Return("webinar").Once()
	resolver.On("Target", mock.Anything, "webinar").Return(42, true).Once()
	messages.On("History", mock.Anything, 42, 5).
		Return([]models.ChatHistoryEntry{{ID: 9, Text: "latest"}, {ID: 8, Text: "older"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chat/history?stream_id=webinar&limit=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(42), resp["broadcast_id"])

	msgs := resp["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, float64(9), msgs[0].(map[string]any)["id"])
	messages.AssertExpectations(t)
}

func TestHistoryEmptyWithoutBroadcast(t *testing.T) {
	messages := new(mocks.MessageRepositoryMock)
	resolver := new(mocks.ResolverMock)
	handler := NewHistoryHandler(messages, resolver)
	router := setupHistoryRouter(handler)

	resolver.On("ResolveStream", mock.Anything, "").Return("webinar").Once()
	resolver.On("Target", mock.Anything, "webinar").Return(0, false).Once()

	req := httptest.NewRequest(http.MethodGet, "/chat/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp["messages"])
	messages.AssertNotCalled(t, "History", mock.Anything, mock.Anything, mock.Anything)
}

func TestHistoryLimitClamped(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 50},
		{"0", 1},
		{"-3", 1},
		{"999", 200},
		{"25", 25},
		{"garbage", 50},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, clampLimit(tc.raw), "raw=%q", tc.raw)
	}
}
