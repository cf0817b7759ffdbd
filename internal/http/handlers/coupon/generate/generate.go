// Package generate реализует HTTP-обработчик для выпуска купонов администратором.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/creatorlens/creator-analytics/internal/http/response"
	"github.com/creatorlens/creator-analytics/internal/lib/sl"
	"github.com/creatorlens/creator-analytics/internal/models"
	"github.com/creatorlens/creator-analytics/internal/services/coupon"
)

// Handler обрабатывает запросы на выпуск купонов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики выпуска купонов.
type Service interface {
	Generate(ctx context.Context, class models.DurationClass, count int) ([]models.Coupon, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// couponView представление купона в ответе.
type couponView struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	DurationClass float64 `json:"duration_class"`
}

// ServeHTTP godoc
// @Summary Выпуск купонов
// @Description Выпускает партию купонов заданного класса длительности. Только для администраторов.
// @Tags Coupons
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyGenerateCouponsRequest true "Класс длительности и количество"
// @Success 200 {object} map[string]any "Выпущенные купоны"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или класс длительности"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/coupons [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coupon.generate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyGenerateCouponsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	coupons, err := h.service.Generate(r.Context(), models.DurationClass(req.DurationClass), req.Count)
	if err != nil {
		if errors.Is(err, coupon.ErrInvalidDurationClass) {
			log.Warn("invalid duration class", slog.Float64("class", req.DurationClass))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid duration class"))
			return
		}
		log.Error("failed to generate coupons", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not generate coupons"))
		return
	}

	views := make([]couponView, 0, len(coupons))
	for _, c := range coupons {
		views = append(views, couponView{
			ID:            c.ID,
			Code:          c.Code,
			DurationClass: float64(c.DurationClass),
		})
	}

	log.Info("coupons generated", slog.Int("count", len(views)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"coupons": views,
	}))
}
