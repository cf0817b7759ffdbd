// Package get реализует HTTP-обработчик просмотра купона администратором.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/creatorlens/creator-analytics/internal/http/response"
	"github.com/creatorlens/creator-analytics/internal/lib/sl"
	"github.com/creatorlens/creator-analytics/internal/models"
	"github.com/creatorlens/creator-analytics/internal/storage"
)

// Handler обрабатывает запросы на просмотр купона по коду.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики просмотра купона.
type Service interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Купон по коду
// @Description Возвращает купон и статус его использования. Только для администраторов.
// @Tags Coupons
// @Produce  json
// @Security BearerAuth
// @Param code path string true "Код купона"
// @Success 200 {object} map[string]any "Купон"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 404 {object} response.ErrorResponse "Купон не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/coupons/{code} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coupon.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	if code == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("coupon code is required"))
		return
	}

	cpn, err := h.service.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, storage.ErrCouponNotFound) {
			log.Warn("coupon not found", slog.String("code", code))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("coupon not found"))
			return
		}
		log.Error("failed to get coupon", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get coupon"))
		return
	}

	view := map[string]any{
		"id":             cpn.ID,
		"code":           cpn.Code,
		"duration_class": float64(cpn.DurationClass),
		"used":           cpn.Used,
		"created_at":     cpn.CreatedAt.Format(time.RFC3339),
	}
	if cpn.UsedBy != nil {
		view["used_by"] = *cpn.UsedBy
	}
	if cpn.UsedAt != nil {
		view["used_at"] = cpn.UsedAt.Format(time.RFC3339)
	}

	log.Info("coupon read", slog.String("code", code))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"coupon": view,
	}))
}
