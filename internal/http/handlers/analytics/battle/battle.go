// Package battle реализует HTTP-обработчик сравнения двух каналов.
package battle

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

// Handler обрабатывает запросы сравнения каналов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики сравнения каналов.
type Service interface {
	CompareChannels(ctx context.Context, queryA, queryB string) (*models.BattleResult, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сравнение каналов
// @Description Сравнивает два канала по сводному баллу и объявляет победителя.
// @Tags Analytics
// @Produce  json
// @Security BearerAuth
// @Param a query string true "Первый канал"
// @Param b query string true "Второй канал"
// @Success 200 {object} map[string]any "Результат сравнения"
// @Failure 400 {object} response.ErrorResponse "Не хватает параметров"
// @Failure 404 {object} response.ErrorResponse "Канал не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /analytics/battle [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.battle"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	queryA := r.URL.Query().Get("a")
	queryB := r.URL.Query().Get("b")
	if queryA == "" || queryB == "" {
		log.Error("missing query parameters")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("query parameters a and b are required"))
		return
	}

	result, err := h.service.CompareChannels(r.Context(), queryA, queryB)
	if err != nil {
		if errors.Is(err, youtubeapi.ErrChannelNotFound) {
			log.Warn("channel not found", slog.String("a", queryA), slog.String("b", queryB))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("channel not found"))
			return
		}
		log.Error("failed to compare channels", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compare channels"))
		return
	}

	log.Info("channels compared", slog.String("winner", result.Winner))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"battle": result,
	}))
}
