package models

import "time"

// AnalyzedVideo неизменяемый снимок публичных метаданных и статистики
// одного видео на момент запроса. Не сохраняется в хранилище,
// пересчитывается при каждом анализе.
type AnalyzedVideo struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	PublishedAt     time.Time `json:"published_at"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	Tags            []string  `json:"tags,omitempty"`
	ViewCount       int64     `json:"view_count"`
	LikeCount       int64     `json:"like_count"`
	CommentCount    int64     `json:"comment_count"`
	PopularityScore float64   `json:"popularity_score"`
	DurationSeconds int       `json:"duration_seconds"`
	VideoType       string    `json:"video_type"` // short или regular
	ChannelID       string    `json:"channel_id"`
	ChannelTitle    string    `json:"channel_title"`
}

// Channel публичная статистика канала.
type Channel struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ThumbnailURL    string `json:"thumbnail_url"`
	SubscriberCount int64  `json:"subscriber_count"`
	ViewCount       int64  `json:"view_count"`
	VideoCount      int64  `json:"video_count"`
	UploadsPlaylist string `json:"-"`
}

// ChannelExtraStats производный агрегат по набору видео канала.
// Пересчитывается на каждый прогон анализа и не сохраняется.
type ChannelExtraStats struct {
	FirstVideoDate              string  `json:"first_video_date"`
	AverageUploadIntervalAll    float64 `json:"average_upload_interval_all"`    // в днях, один знак
	AverageUploadIntervalRecent float64 `json:"average_upload_interval_recent"` // по последним 6 видео
}

// BattleStats сводка канала для сравнения двух каналов.
type BattleStats struct {
	Subscribers int64 `json:"subscribers"`
	TotalViews  int64 `json:"total_views"`
	AvgViews    int64 `json:"avg_views"`
	VideoCount  int64 `json:"video_count"`
	PowerScore  int   `json:"power_score"`
}

// BattleResult результат сравнения двух каналов.
type BattleResult struct {
	ChannelA Channel     `json:"channel_a"`
	ChannelB Channel     `json:"channel_b"`
	StatsA   BattleStats `json:"stats_a"`
	StatsB   BattleStats `json:"stats_b"`
	Winner   string      `json:"winner"` // A, B или Tie
}

// ChannelAnalysis полный результат анализа канала.
type ChannelAnalysis struct {
	Channel Channel           `json:"channel"`
	Videos  []AnalyzedVideo   `json:"videos"`
	Stats   ChannelExtraStats `json:"stats"`
}
