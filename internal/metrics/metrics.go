// Package metrics содержит чистые функции расчёта производных метрик
// по сырой статистике видео и каналов. Все функции детерминированы,
// деление на ноль исключено проверками внутри формул.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/creatorlens/creator-analytics/internal/models"
)

// PopularityScore считает показатель вовлечённости видео.
// Лайк весит 2, комментарий 5: комментарий — более сильный сигнал.
// Масштаб 1000 держит значения в удобном для чтения диапазоне.
// Сравнивать показатели имеет смысл только внутри одной выборки.
func PopularityScore(views, likes, comments int64) float64 {
	if views <= 0 {
		return 0
	}
	return float64(likes*2+comments*5) / float64(views) * 1000
}

// PowerScore считает сводный балл канала для сравнения:
// round(min((views/100000 + subscribers/1000)/2, 1000)).
// Формула не нормализована статистически и служит только для грубого сравнения.
func PowerScore(views, subscribers int64) int {
	v := float64(views) / 100000
	s := float64(subscribers) / 1000
	score := math.Round((v + s) / 2)
	if score > 1000 {
		return 1000
	}
	return int(score)
}

// recentWindow количество последних видео для "свежего" интервала загрузки.
const recentWindow = 6

// UploadIntervals возвращает средний интервал между публикациями в днях
// с точностью до одного знака: по всем видео и по последним шести.
// Для списка короче двух видео оба интервала равны нулю; если свежих видео
// меньше двух, свежий интервал падает обратно на общий.
func UploadIntervals(videos []models.AnalyzedVideo) (all, recent float64) {
	if len(videos) < 2 {
		return 0, 0
	}

	sorted := make([]models.AnalyzedVideo, len(videos))
	copy(sorted, videos)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.Before(sorted[j].PublishedAt)
	})

	all = averageGapDays(sorted)

	tail := sorted
	if len(sorted) > recentWindow {
		tail = sorted[len(sorted)-recentWindow:]
	}
	recent = averageGapDays(tail)
	if recent == 0 {
		recent = all
	}
	return all, recent
}

func averageGapDays(sorted []models.AnalyzedVideo) float64 {
	if len(sorted) < 2 {
		return 0
	}
	var total time.Duration
	for i := 1; i < len(sorted); i++ {
		total += sorted[i].PublishedAt.Sub(sorted[i-1].PublishedAt)
	}
	avg := total / time.Duration(len(sorted)-1)
	days := avg.Hours() / 24
	return math.Round(days*10) / 10
}

// ChannelStats собирает производный агрегат по набору видео канала.
func ChannelStats(videos []models.AnalyzedVideo) models.ChannelExtraStats {
	if len(videos) == 0 {
		return models.ChannelExtraStats{}
	}

	first := videos[0].PublishedAt
	for _, v := range videos[1:] {
		if v.PublishedAt.Before(first) {
			first = v.PublishedAt
		}
	}

	all, recent := UploadIntervals(videos)
	return models.ChannelExtraStats{
		FirstVideoDate:              first.Format(time.RFC3339),
		AverageUploadIntervalAll:    all,
		AverageUploadIntervalRecent: recent,
	}
}

// CompareChannels сравнивает два канала по сводному баллу.
// Winner равен "A", "B" или "Tie".
func CompareChannels(a, b models.Channel) models.BattleResult {
	statsA := battleStats(a)
	statsB := battleStats(b)

	winner := "Tie"
	switch {
	case statsA.PowerScore > statsB.PowerScore:
		winner = "A"
	case statsA.PowerScore < statsB.PowerScore:
		winner = "B"
	}

	return models.BattleResult{
		ChannelA: a,
		ChannelB: b,
		StatsA:   statsA,
		StatsB:   statsB,
		Winner:   winner,
	}
}

func battleStats(c models.Channel) models.BattleStats {
	var avgViews int64
	if c.VideoCount > 0 {
		avgViews = int64(math.Round(float64(c.ViewCount) / float64(c.VideoCount)))
	}
	return models.BattleStats{
		Subscribers: c.SubscriberCount,
		TotalViews:  c.ViewCount,
		AvgViews:    avgViews,
		VideoCount:  c.VideoCount,
		PowerScore:  PowerScore(c.ViewCount, c.SubscriberCount),
	}
}
