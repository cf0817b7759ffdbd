package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/creatorlens/creator-analytics/internal/models"
)

func TestPopularityScore(t *testing.T) {
	tests := []struct {
		name     string
		views    int64
		likes    int64
		comments int64
		want     float64
	}{
		{"нет просмотров", 0, 100, 50, 0},
		{"нет просмотров, нет реакций", 0, 0, 0, 0},
		{"только лайки", 1000, 10, 0, 20},
		{"только комментарии", 1000, 0, 10, 50},
		{"смешанные реакции", 10000, 200, 40, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PopularityScore(tt.views, tt.likes, tt.comments), 1e-9)
		})
	}
}

func TestPowerScore(t *testing.T) {
	tests := []struct {
		name        string
		views       int64
		subscribers int64
		want        int
	}{
		{"нулевой канал", 0, 0, 0},
		{"небольшой канал", 1_000_000, 10_000, 10},
		{"средний канал", 50_000_000, 500_000, 500},
		{"потолок 1000", 1_000_000_000, 10_000_000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PowerScore(tt.views, tt.subscribers))
		})
	}
}

func videoAt(ts string) models.AnalyzedVideo {
	published, _ := time.Parse(time.RFC3339, ts)
	return models.AnalyzedVideo{PublishedAt: published}
}

func TestUploadIntervals(t *testing.T) {
	t.Run("пустой список", func(t *testing.T) {
		all, recent := UploadIntervals(nil)
		assert.Zero(t, all)
		assert.Zero(t, recent)
	})

	t.Run("одно видео не паникует", func(t *testing.T) {
		all, recent := UploadIntervals([]models.AnalyzedVideo{videoAt("2024-01-01T00:00:00Z")})
		assert.Zero(t, all)
		assert.Zero(t, recent)
	})

	t.Run("равномерные загрузки раз в два дня", func(t *testing.T) {
		videos := []models.AnalyzedVideo{
			videoAt("2024-01-01T00:00:00Z"),
			videoAt("2024-01-03T00:00:00Z"),
			videoAt("2024-01-05T00:00:00Z"),
			videoAt("2024-01-07T00:00:00Z"),
		}
		all, recent := UploadIntervals(videos)
		assert.InDelta(t, 2.0, all, 1e-9)
		assert.InDelta(t, 2.0, recent, 1e-9)
	})

	t.Run("несортированный вход", func(t *testing.T) {
		videos := []models.AnalyzedVideo{
			videoAt("2024-01-07T00:00:00Z"),
			videoAt("2024-01-01T00:00:00Z"),
			videoAt("2024-01-03T00:00:00Z"),
		}
		all, _ := UploadIntervals(videos)
		assert.InDelta(t, 3.0, all, 1e-9)
	})

	t.Run("свежий интервал берёт последние шесть", func(t *testing.T) {
		// Четыре старых видео с большими паузами, затем шесть с паузой в день.
		videos := []models.AnalyzedVideo{
			videoAt("2023-01-01T00:00:00Z"),
			videoAt("2023-03-01T00:00:00Z"),
			videoAt("2023-05-01T00:00:00Z"),
			videoAt("2023-07-01T00:00:00Z"),
			videoAt("2024-01-01T00:00:00Z"),
			videoAt("2024-01-02T00:00:00Z"),
			videoAt("2024-01-03T00:00:00Z"),
			videoAt("2024-01-04T00:00:00Z"),
			videoAt("2024-01-05T00:00:00Z"),
			videoAt("2024-01-06T00:00:00Z"),
		}
		all, recent := UploadIntervals(videos)
		assert.Greater(t, all, recent)
		assert.InDelta(t, 1.0, recent, 1e-9)
	})
}

func TestChannelStats(t *testing.T) {
	t.Run("пустой набор видео", func(t *testing.T) {
		stats := ChannelStats(nil)
		assert.Empty(t, stats.FirstVideoDate)
		assert.Zero(t, stats.AverageUploadIntervalAll)
	})

	t.Run("дата первого видео", func(t *testing.T) {
		videos := []models.AnalyzedVideo{
			videoAt("2024-02-01T00:00:00Z"),
			videoAt("2021-06-15T12:00:00Z"),
			videoAt("2023-01-01T00:00:00Z"),
		}
		stats := ChannelStats(videos)
		assert.Equal(t, "2021-06-15T12:00:00Z", stats.FirstVideoDate)
	})
}

func TestCompareChannels(t *testing.T) {
	strong := models.Channel{ID: "a", ViewCount: 100_000_000, SubscriberCount: 1_000_000, VideoCount: 100}
	weak := models.Channel{ID: "b", ViewCount: 1_000_000, SubscriberCount: 10_000, VideoCount: 50}

	res := CompareChannels(strong, weak)
	assert.Equal(t, "A", res.Winner)
	assert.Equal(t, int64(1_000_000), res.StatsA.AvgViews)

	res = CompareChannels(weak, strong)
	assert.Equal(t, "B", res.Winner)

	res = CompareChannels(strong, strong)
	assert.Equal(t, "Tie", res.Winner)
}
