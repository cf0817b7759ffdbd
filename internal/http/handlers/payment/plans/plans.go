// Package plans реализует HTTP-обработчик каталога тарифов.
package plans

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/creatorlens/creator-analytics/internal/http/response"
	"github.com/creatorlens/creator-analytics/internal/models"
)

// Handler обрабатывает запросы каталога тарифов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс каталога тарифов.
type Service interface {
	Plans() []models.Plan
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Каталог тарифов
// @Description Возвращает фиксированный набор тарифов с ценами в вонах.
// @Tags Payments
// @Produce  json
// @Success 200 {object} map[string]any "Тарифы"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plans": h.service.Plans(),
	}))
}
