// Package read реализует HTTP-обработчик для получения текущей подписки пользователя.
//
// Handler берет uid пользователя из контекста запроса, вызывает бизнес-логику
// и возвращает последнюю подписку с актуальным статусом в JSON-формате.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/creatorlens/creator-analytics/internal/http/middlewarectx"
	"github.com/creatorlens/creator-analytics/internal/http/response"
	"github.com/creatorlens/creator-analytics/internal/lib/sl"
	"github.com/creatorlens/creator-analytics/internal/models"
	"github.com/creatorlens/creator-analytics/internal/storage"
)

// Handler обрабатывает запросы на получение текущей подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения подписки.
type Service interface {
	Status(ctx context.Context, userUID string) (*models.Subscription, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущая подписка
// @Description Возвращает последнюю подписку пользователя со статусом, выведенным из даты окончания.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Подписка"
// @Failure 404 {object} response.ErrorResponse "Подписки нет"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscription [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	sub, err := h.service.Status(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, storage.ErrSubscriptionNotFound) {
			log.Info("no subscription", slog.String("user_uid", userUID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("no subscription"))
			return
		}
		log.Error("failed to read subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read subscription"))
		return
	}

	log.Info("subscription read", slog.String("user_uid", userUID), slog.String("plan", sub.Plan))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription": map[string]any{
			"plan":       sub.Plan,
			"status":     sub.Status,
			"start_date": sub.StartDate.Format(time.RFC3339),
			"end_date":   sub.EndDate.Format(time.RFC3339),
		},
	}))
}
