// Package analytics собирает анализ каналов и видео поверх YouTube Data API.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/creatorlens/creator-analytics/internal/lib/sl"
	"github.com/creatorlens/creator-analytics/internal/metrics"
	"github.com/creatorlens/creator-analytics/internal/models"
)

// analysisBatch сколько последних загрузок канала попадает в анализ.
const analysisBatch = 50

// cacheTTL срок жизни результата анализа: публичная статистика канала
// меняется медленно, а квота API дорогая.
const cacheTTL = time.Hour

// YouTubeClient описывает методы клиента YouTube Data API.
type YouTubeClient interface {
	FindChannel(ctx context.Context, query string) (*models.Channel, error)
	UploadedVideoIDs(ctx context.Context, playlistID string, maxResults int) ([]string, error)
	VideosByIDs(ctx context.Context, ids []string) ([]models.AnalyzedVideo, error)
}

// Cache описывает методы для кэширования результатов анализа.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Service реализует операции анализа каналов.
type Service struct {
	client YouTubeClient
	cache  Cache
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(client YouTubeClient, cache Cache, log *slog.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache,
		log:    log,
	}
}

// AnalyzeChannel находит канал по запросу, загружает его последние видео
// и считает производные метрики. Результат кэшируется по строке запроса.
func (s *Service) AnalyzeChannel(ctx context.Context, query string) (*models.ChannelAnalysis, error) {
	const op = "analytics.AnalyzeChannel"

	cacheKey := fmt.Sprintf("analysis:%s", query)
	var cached models.ChannelAnalysis
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read analysis cache", slog.String("key", cacheKey), sl.Err(err))
	} else if found {
		return &cached, nil
	}

	channel, err := s.client.FindChannel(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids, err := s.client.UploadedVideoIDs(ctx, channel.UploadsPlaylist, analysisBatch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	videos, err := s.client.VideosByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range videos {
		videos[i].PopularityScore = metrics.PopularityScore(
			videos[i].ViewCount, videos[i].LikeCount, videos[i].CommentCount)
	}

	analysis := &models.ChannelAnalysis{
		Channel: *channel,
		Videos:  videos,
		Stats:   metrics.ChannelStats(videos),
	}

	if err := s.cache.Set(cacheKey, analysis, cacheTTL); err != nil {
		s.log.Warn("failed to cache analysis", slog.String("key", cacheKey), sl.Err(err))
	}
	return analysis, nil
}

// CompareChannels находит два канала и сравнивает их по сводному баллу.
func (s *Service) CompareChannels(ctx context.Context, queryA, queryB string) (*models.BattleResult, error) {
	const op = "analytics.CompareChannels"

	channelA, err := s.client.FindChannel(ctx, queryA)
	if err != nil {
		return nil, fmt.Errorf("%s: channel A: %w", op, err)
	}
	channelB, err := s.client.FindChannel(ctx, queryB)
	if err != nil {
		return nil, fmt.Errorf("%s: channel B: %w", op, err)
	}

	result := metrics.CompareChannels(*channelA, *channelB)
	return &result, nil
}
