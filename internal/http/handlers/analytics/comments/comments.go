// Package comments реализует HTTP-обработчик анализа тональности комментариев.
//
// Обработчик проксирует комментарии в генеративный API: метод проверяется
// явно (405), тело валидируется (400), доступ закрыт без премиума (гейт
// в маршрутизации, 403), ошибка модели возвращает 500.
package comments

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/creatorlens/creator-analytics/internal/genai"
	"github.com/creatorlens/creator-analytics/internal/http/response"
	"github.com/creatorlens/creator-analytics/internal/lib/sl"
)

// Request — структура входных данных анализа комментариев.
type Request struct {
	Comments []string `json:"comments" validate:"required,min=1,max=200"`
}

// Handler обрабатывает запросы анализа тональности комментариев.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс анализа тональности.
type Service interface {
	AnalyzeComments(ctx context.Context, comments []string) (*genai.CommentSentiment, error)
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
// @Summary Анализ тональности комментариев
// @Description Классифицирует комментарии через генеративный API. Требует премиум-доступа.
// @Tags Analytics
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Список комментариев"
// @Success 200 {object} map[string]any "Сводка тональности"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Нет премиум-доступа"
// @Failure 405 {object} response.ErrorResponse "Метод не поддерживается"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка генеративного API"
// @Router /analytics/comments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.comments"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodPost {
		log.Error("method not allowed", slog.String("method", r.Method))
		render.Status(r, http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Error("method not allowed"))
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

	sentiment, err := h.service.AnalyzeComments(r.Context(), req.Comments)
	if err != nil {
		if errors.Is(err, genai.ErrNoJSON) {
			log.Error("model returned no JSON", sl.Err(err))
		} else {
			log.Error("failed to analyze comments", sl.Err(err))
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not analyze comments"))
		return
	}

	log.Info("comments analyzed", slog.Int("count", len(req.Comments)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"sentiment": sentiment,
	}))
}
