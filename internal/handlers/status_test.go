package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stream-relay/internal/mocks"
	"stream-relay/internal/models"
	"stream-relay/internal/ws"
)

func setupStatusRouter(handler *StatusHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/status", handler.Status)
	r.GET("/stats", handler.Stats)
	return r
}

func TestStatusLive(t *testing.T) {
	resolver := new(mocks.ResolverMock)
	hub := ws.NewHub()
	handler := NewStatusHandler(resolver, hub)
	router := setupStatusRouter(handler)

	resolver.On("ResolveStream", mock.Anything, "webinar").Return("webinar").Once()
	resolver.On("Live", mock.Anything, "webinar").
		Return(models.Broadcast{ID: 42, StreamID: "webinar"}, true).Once()

	req := httptest.NewRequest(http.MethodGet, "/status?stream_id=webinar", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, true, resp["live"])
	assert.Equal(t, float64(42), resp["broadcast_id"])
	assert.Equal(t, float64(0), resp["watchers"])
	assert.Equal(t, resp["watchers"], resp["viewers"])
}

func TestStatusOffline(t *testing.T) {
	resolver := new(mocks.ResolverMock)
	handler := NewStatusHandler(resolver, ws.NewHub())
	router := setupStatusRouter(handler)

	resolver.On("ResolveStream", mock.Anything, "").Return("webinar").Once()
	resolver.On("Live", mock.Anything, "webinar").Return(models.Broadcast{}, false).Once()

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, false, resp["live"])
	assert.Nil(t, resp["broadcast_id"])
}

func TestStatsIncludesStartedAt(t *testing.T) {
	resolver := new(mocks.ResolverMock)
	handler := NewStatusHandler(resolver, ws.NewHub())
	router := setupStatusRouter(handler)

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	resolver.On("ResolveStream", mock.Anything, "").Return("webinar").Once()
	resolver.On("Live", mock.Anything, "webinar").
		Return(models.Broadcast{ID: 42, StartedAt: started}, true).Once()

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, true, resp["live"])
	assert.Equal(t, "2025-06-01T12:00:00Z", resp["started_at"])
	assert.Equal(t, float64(0), resp["viewers"])
}
