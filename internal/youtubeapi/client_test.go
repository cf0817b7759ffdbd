package youtubeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorlens/creator-analytics/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.YouTube{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
}

func TestChannelByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [{
				"id": "UC123",
				"snippet": {
					"title": "Test Channel",
					"description": "desc",
					"thumbnails": {"medium": {"url": "http://img/m.jpg"}}
				},
				"statistics": {
					"viewCount": "1000000",
					"subscriberCount": "5000",
					"videoCount": "42"
				},
				"contentDetails": {"relatedPlaylists": {"uploads": "UU123"}}
			}]
		}`))
	})

	ch, err := client.ChannelByID(context.Background(), "UC123")
	require.NoError(t, err)
	assert.Equal(t, "Test Channel", ch.Title)
	assert.Equal(t, int64(1_000_000), ch.ViewCount)
	assert.Equal(t, int64(5000), ch.SubscriberCount)
	assert.Equal(t, "UU123", ch.UploadsPlaylist)
}

func TestChannelByID_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items": []}`))
	})

	_, err := client.ChannelByID(context.Background(), "UCnone")
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestVideosByIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"items": [{
				"id": "vid1",
				"snippet": {
					"title": "Video",
					"publishedAt": "2024-01-01T00:00:00Z",
					"channelId": "UC123",
					"channelTitle": "Test Channel",
					"thumbnails": {"default": {"url": "http://img/d.jpg"}}
				},
				"statistics": {
					"viewCount": "1000",
					"likeCount": "10",
					"commentCount": "2"
				},
				"contentDetails": {"duration": "PT45S"}
			}]
		}`))
	})

	videos, err := client.VideosByIDs(context.Background(), []string{"vid1"})
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, int64(1000), videos[0].ViewCount)
	assert.Equal(t, 45, videos[0].DurationSeconds)
	assert.Equal(t, "short", videos[0].VideoType)
	assert.Equal(t, "http://img/d.jpg", videos[0].ThumbnailURL)
}

func TestVideosByIDs_MissingStatisticsTreatedAsZero(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"items": [{
				"id": "vid2",
				"snippet": {"title": "No stats", "publishedAt": "2024-01-01T00:00:00Z"},
				"statistics": {},
				"contentDetails": {"duration": "PT10M1S"}
			}]
		}`))
	})

	videos, err := client.VideosByIDs(context.Background(), []string{"vid2"})
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Zero(t, videos[0].ViewCount)
	assert.Equal(t, 601, videos[0].DurationSeconds)
	assert.Equal(t, "regular", videos[0].VideoType)
}

func TestGet_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "quotaExceeded"}}`))
	})

	_, err := client.ChannelByID(context.Background(), "UC123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quotaExceeded")
}

func TestParseISO8601Duration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"PT45S", 45},
		{"PT1M", 60},
		{"PT1H2M3S", 3723},
		{"PT0S", 0},
		{"garbage", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseISO8601Duration(tt.in), "input %q", tt.in)
	}
}
