// Package list реализует HTTP-обработчик для просмотра выпущенных купонов администратором.
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

// Handler обрабатывает запросы на получение списка купонов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка купонов.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.Coupon, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// couponView представление купона в ответе со статусом использования.
type couponView struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	DurationClass float64 `json:"duration_class"`
	Used          bool    `json:"used"`
	UsedBy        *string `json:"used_by,omitempty"`
	UsedAt        string  `json:"used_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// ServeHTTP godoc
// @Summary Список купонов
// @Description Возвращает выпущенные купоны, новые первыми. Только для администраторов.
// @Tags Coupons
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Максимум записей (по умолчанию 50)"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Купоны"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/coupons [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coupon.list"

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

	coupons, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list coupons", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list coupons"))
		return
	}

	views := make([]couponView, 0, len(coupons))
	for _, c := range coupons {
		v := couponView{
			ID:            c.ID,
			Code:          c.Code,
			DurationClass: float64(c.DurationClass),
			Used:          c.Used,
			UsedBy:        c.UsedBy,
			CreatedAt:     c.CreatedAt.Format(time.RFC3339),
		}
		if c.UsedAt != nil {
			v.UsedAt = c.UsedAt.Format(time.RFC3339)
		}
		views = append(views, v)
	}

	log.Info("coupons listed", slog.Int("count", len(views)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"coupons": views,
	}))
}
