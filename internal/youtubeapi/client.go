// Package youtubeapi реализует клиент YouTube Data API v3.
// Используются конечные точки search, channels, playlistItems и videos;
// API отдаёт статистику строками, клиент конвертирует её в числа.
package youtubeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/creatorlens/creator-analytics/internal/config"
	"github.com/creatorlens/creator-analytics/internal/models"
)

// ErrChannelNotFound канал по запросу не найден.
var ErrChannelNotFound = errors.New("channel not found")

// videosBatchSize максимум идентификаторов в одном запросе videos.
const videosBatchSize = 50

// Client клиент YouTube Data API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт новый клиент с ключом и адресом из конфига.
func NewClient(cfg config.YouTube) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	const op = "youtubeapi.get"

	params.Set("key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%s: api error %d: %s", op, apiErr.Error.Code, apiErr.Error.Message)
		}
		return fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindChannel ищет канал по произвольному запросу и возвращает его
// снимок со статистикой и плейлистом загрузок.
func (c *Client) FindChannel(ctx context.Context, query string) (*models.Channel, error) {
	const op = "youtubeapi.FindChannel"

	params := url.Values{}
	params.Set("part", "id")
	params.Set("type", "channel")
	params.Set("maxResults", "1")
	params.Set("q", query)

	var search searchResponse
	if err := c.get(ctx, "/search", params, &search); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(search.Items) == 0 || search.Items[0].ID.ChannelID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrChannelNotFound)
	}

	return c.ChannelByID(ctx, search.Items[0].ID.ChannelID)
}

// ChannelByID возвращает канал по его идентификатору.
func (c *Client) ChannelByID(ctx context.Context, id string) (*models.Channel, error) {
	const op = "youtubeapi.ChannelByID"

	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", id)

	var channels channelsResponse
	if err := c.get(ctx, "/channels", params, &channels); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(channels.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrChannelNotFound)
	}

	item := channels.Items[0]
	thumb := item.Snippet.Thumbnails.Medium.URL
	if thumb == "" {
		thumb = item.Snippet.Thumbnails.Default.URL
	}
	return &models.Channel{
		ID:              item.ID,
		Title:           item.Snippet.Title,
		Description:     item.Snippet.Description,
		ThumbnailURL:    thumb,
		SubscriberCount: parseCount(item.Statistics.SubscriberCount),
		ViewCount:       parseCount(item.Statistics.ViewCount),
		VideoCount:      parseCount(item.Statistics.VideoCount),
		UploadsPlaylist: item.ContentDetails.RelatedPlaylists.Uploads,
	}, nil
}

// UploadedVideoIDs возвращает идентификаторы видео из плейлиста загрузок,
// не более maxResults, листая страницы playlistItems.
func (c *Client) UploadedVideoIDs(ctx context.Context, playlistID string, maxResults int) ([]string, error) {
	const op = "youtubeapi.UploadedVideoIDs"

	var ids []string
	pageToken := ""
	for len(ids) < maxResults {
		params := url.Values{}
		params.Set("part", "contentDetails")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", "50")
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page playlistItemsResponse
		if err := c.get(ctx, "/playlistItems", params, &page); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		for _, item := range page.Items {
			ids = append(ids, item.ContentDetails.VideoID)
			if len(ids) == maxResults {
				break
			}
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}
	return ids, nil
}

// VideosByIDs возвращает снимки видео со статистикой. Идентификаторы
// запрашиваются партиями по 50, как того требует API.
func (c *Client) VideosByIDs(ctx context.Context, ids []string) ([]models.AnalyzedVideo, error) {
	const op = "youtubeapi.VideosByIDs"

	var videos []models.AnalyzedVideo
	for start := 0; start < len(ids); start += videosBatchSize {
		end := start + videosBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		params := url.Values{}
		params.Set("part", "snippet,statistics,contentDetails")
		params.Set("id", strings.Join(ids[start:end], ","))

		var page videosResponse
		if err := c.get(ctx, "/videos", params, &page); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		for _, item := range page.Items {
			publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			if err != nil {
				return nil, fmt.Errorf("%s: bad publishedAt %q: %w", op, item.Snippet.PublishedAt, err)
			}
			thumb := item.Snippet.Thumbnails.Medium.URL
			if thumb == "" {
				thumb = item.Snippet.Thumbnails.Default.URL
			}
			duration := parseISO8601Duration(item.ContentDetails.Duration)
			videoType := "regular"
			if duration <= 60 {
				videoType = "short"
			}
			videos = append(videos, models.AnalyzedVideo{
				ID:              item.ID,
				Title:           item.Snippet.Title,
				Description:     item.Snippet.Description,
				PublishedAt:     publishedAt,
				ThumbnailURL:    thumb,
				Tags:            item.Snippet.Tags,
				ViewCount:       parseCount(item.Statistics.ViewCount),
				LikeCount:       parseCount(item.Statistics.LikeCount),
				CommentCount:    parseCount(item.Statistics.CommentCount),
				DurationSeconds: duration,
				VideoType:       videoType,
				ChannelID:       item.Snippet.ChannelID,
				ChannelTitle:    item.Snippet.ChannelTitle,
			})
		}
	}
	return videos, nil
}

// parseCount конвертирует строковый счётчик API в число.
// Отсутствующее или нечисловое значение трактуется как ноль.
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISO8601Duration разбирает длительность вида PT1H2M3S в секунды.
func parseISO8601Duration(s string) int {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	atoi := func(v string) int {
		if v == "" {
			return 0
		}
		n, _ := strconv.Atoi(v)
		return n
	}
	return atoi(m[1])*3600 + atoi(m[2])*60 + atoi(m[3])
}
