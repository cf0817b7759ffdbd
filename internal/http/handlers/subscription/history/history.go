// Package history реализует HTTP-обработчик истории подписок пользователя.
//
// Handler берет uid пользователя из контекста запроса и возвращает все его
// окна подписок, поздние первыми, со статусами, выведенными из дат окончания.
package history

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/creatorlens/creator-analytics/internal/http/middlewarectx"
	"github.com/creatorlens/creator-analytics/internal/http/response"
	"github.com/creatorlens/creator-analytics/internal/lib/sl"
	"github.com/creatorlens/creator-analytics/internal/models"
)

// Handler обрабатывает запросы на получение истории подписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики истории подписок.
type Service interface {
	History(ctx context.Context, userUID string) ([]*models.Subscription, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// subscriptionView представление окна подписки в ответе.
type subscriptionView struct {
	Plan      string `json:"plan"`
	Status    string `json:"status"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ServeHTTP godoc
// @Summary История подписок
// @Description Возвращает все подписки пользователя, поздние первыми, со статусами из дат окончания.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Подписки"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscription/history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.history"

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

	subs, err := h.service.History(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read subscription history", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read subscription history"))
		return
	}

	views := make([]subscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, subscriptionView{
			Plan:      sub.Plan,
			Status:    sub.Status,
			StartDate: sub.StartDate.Format(time.RFC3339),
			EndDate:   sub.EndDate.Format(time.RFC3339),
		})
	}

	log.Info("subscription history read", slog.String("user_uid", userUID), slog.Int("count", len(views)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscriptions": views,
	}))
}
