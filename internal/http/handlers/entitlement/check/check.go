// Package check реализует HTTP-обработчик проверки доступа к премиум-функциям.
package check

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/creatorlens/creator-analytics/internal/http/middlewarectx"
	"github.com/creatorlens/creator-analytics/internal/http/response"
	"github.com/creatorlens/creator-analytics/internal/lib/sl"
)

// Handler обрабатывает запросы на проверку доступа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики проверки доступа.
type Service interface {
	IsEntitled(ctx context.Context, userUID string) (bool, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверка доступа
// @Description Возвращает решение о доступе текущего пользователя к премиум-функциям.
// @Tags Entitlement
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Решение о доступе"
// @Failure 401 {object} response.ErrorResponse "Нет идентификации пользователя"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /entitlement [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entitlement.check"

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

	entitled, err := h.service.IsEntitled(r.Context(), userUID)
	if err != nil {
		log.Error("failed to check entitlement", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check entitlement"))
		return
	}

	log.Info("entitlement checked", slog.String("user_uid", userUID), slog.Bool("entitled", entitled))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"entitled": entitled,
	}))
}
