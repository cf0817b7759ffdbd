// Package list реализует HTTP-обработчик просмотра пользователей администратором.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/creatorlens/creator-analytics/internal/http/response"
	"github.com/creatorlens/creator-analytics/internal/lib/sl"
	"github.com/creatorlens/creator-analytics/internal/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Handler обрабатывает запросы на получение списка пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// userView представление пользователя в ответе. Хэш пароля наружу не отдается.
type userView struct {
	UID                 string `json:"uid"`
	Email               string `json:"email"`
	Username            string `json:"username"`
	Role                string `json:"role"`
	JoinedAt            string `json:"joined_at"`
	HasPaidSubscription bool   `json:"has_paid_subscription"`
	CouponRedeemedAt    string `json:"coupon_redeemed_at,omitempty"`
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает пользователей постранично, старые первыми. Только для администраторов.
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Максимум записей (по умолчанию 50)"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Пользователи"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	users, err := h.service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list users"))
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		v := userView{
			UID:                 u.UID,
			Email:               u.Email,
			Username:            u.Username,
			Role:                u.Role,
			JoinedAt:            u.JoinedAt.Format(time.RFC3339),
			HasPaidSubscription: u.HasPaidSubscription,
		}
		if u.CouponRedeemedAt != nil {
			v.CouponRedeemedAt = u.CouponRedeemedAt.Format(time.RFC3339)
		}
		views = append(views, v)
	}

	log.Info("users listed", slog.Int("count", len(views)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"users": views,
	}))
}
