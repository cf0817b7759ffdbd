// Package channel реализует HTTP-обработчик анализа канала по поисковому запросу.
package channel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/creatorlens/creator-analytics/internal/http/response"
	"github.com/creatorlens/creator-analytics/internal/lib/sl"
	"github.com/creatorlens/creator-analytics/internal/models"
	"github.com/creatorlens/creator-analytics/internal/youtubeapi"
)

// Handler обрабатывает запросы анализа канала.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики анализа канала.
type Service interface {
	AnalyzeChannel(ctx context.Context, query string) (*models.ChannelAnalysis, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Анализ канала
// @Description Находит канал по запросу и возвращает его видео с производными метриками.
// @Tags Analytics
// @Produce  json
// @Security BearerAuth
// @Param q query string true "Название или идентификатор канала"
// @Success 200 {object} map[string]any "Результат анализа"
// @Failure 400 {object} response.ErrorResponse "Пустой запрос"
// @Failure 404 {object} response.ErrorResponse "Канал не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /analytics/channel [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.channel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query().Get("q")
	if query == "" {
		log.Error("missing query parameter")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("query parameter q is required"))
		return
	}

	analysis, err := h.service.AnalyzeChannel(r.Context(), query)
	if err != nil {
		if errors.Is(err, youtubeapi.ErrChannelNotFound) {
			log.Warn("channel not found", slog.String("query", query))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("channel not found"))
			return
		}
		log.Error("failed to analyze channel", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not analyze channel"))
		return
	}

	log.Info("channel analyzed",
		slog.String("query", query),
		slog.String("channel_id", analysis.Channel.ID),
		slog.Int("videos", len(analysis.Videos)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"analysis": analysis,
	}))
}
