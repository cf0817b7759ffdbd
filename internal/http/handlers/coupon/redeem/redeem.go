// Package redeem реализует HTTP-обработчик активации купона пользователем.
//
// Обработчик декодирует код купона из тела запроса, берет пользователя из
// контекста запроса и делегирует активацию бизнес-логике. Повторная активация
// использованного кода возвращает HTTP 409, неизвестный код — HTTP 404.
package redeem

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/creatorlens/creator-analytics/internal/http/middlewarectx"
	"github.com/creatorlens/creator-analytics/internal/http/response"
	"github.com/creatorlens/creator-analytics/internal/lib/sl"
	"github.com/creatorlens/creator-analytics/internal/models"
	"github.com/creatorlens/creator-analytics/internal/storage"
)

// Handler обрабатывает запросы на активацию купона.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики активации купона.
type Service interface {
	Redeem(ctx context.Context, userUID, code string) (*models.Subscription, error)
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
// @Summary Активация купона
// @Description Активирует купон для текущего пользователя и создает подписку.
// @Tags Coupons
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyRedeemCouponRequest true "Код купона"
// @Success 200 {object} map[string]any "Созданная подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Купон не найден"
// @Failure 409 {object} response.ErrorResponse "Купон уже использован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /coupons/redeem [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coupon.redeem"

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
	var req models.DummyRedeemCouponRequest
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

	code := strings.ToUpper(strings.TrimSpace(req.Code))

	sub, err := h.service.Redeem(r.Context(), userUID, code)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrCouponNotFound):
			log.Warn("coupon not found", slog.String("code", code))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("coupon not found"))
		case errors.Is(err, storage.ErrCouponAlreadyUsed):
			log.Warn("coupon already used", slog.String("code", code))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("coupon already used"))
		default:
			log.Error("failed to redeem coupon", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not redeem coupon"))
		}
		return
	}

	log.Info("coupon redeemed", slog.String("code", code), slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription": map[string]any{
			"plan":       sub.Plan,
			"status":     sub.Status,
			"start_date": sub.StartDate.Format(time.RFC3339),
			"end_date":   sub.EndDate.Format(time.RFC3339),
		},
	}))
}
