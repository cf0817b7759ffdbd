// Package confirm реализует HTTP-обработчик подтверждения оплаты.
//
// Обработчик вызывается после успешного колбэка платежного виджета:
// проверяет план, создает подписку с окном от текущего момента и ставит
// пользователю флаг оплаты.
package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/creatorlens/creator-analytics/internal/http/middlewarectx"
	"github.com/creatorlens/creator-analytics/internal/http/response"
	"github.com/creatorlens/creator-analytics/internal/lib/sl"
	"github.com/creatorlens/creator-analytics/internal/models"
	"github.com/creatorlens/creator-analytics/internal/services/payment"
)

// Request — структура входных данных подтверждения оплаты.
type Request struct {
	PlanID    string `json:"plan_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
}

// Handler обрабатывает запросы подтверждения оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики подтверждения оплаты.
type Service interface {
	Confirm(ctx context.Context, userUID, planID string) (*models.Subscription, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтверждение оплаты
// @Description Фиксирует успешную оплату плана и активирует подписку.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "План и идентификатор платежа"
// @Success 200 {object} map[string]any "Активированная подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или план"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payments/confirm [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.confirm"

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

	var req Request
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

	sub, err := h.service.Confirm(r.Context(), userUID, req.PlanID)
	if err != nil {
		if errors.Is(err, payment.ErrUnknownPlan) {
			log.Warn("unknown plan", slog.String("plan_id", req.PlanID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown plan"))
			return
		}
		log.Error("failed to confirm payment", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not confirm payment"))
		return
	}

	log.Info("payment confirmed",
		slog.String("user_uid", userUID),
		slog.String("plan", sub.Plan),
		slog.String("payment_id", req.PaymentID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription": map[string]any{
			"plan":       sub.Plan,
			"status":     sub.Status,
			"start_date": sub.StartDate.Format(time.RFC3339),
			"end_date":   sub.EndDate.Format(time.RFC3339),
		},
	}))
}
