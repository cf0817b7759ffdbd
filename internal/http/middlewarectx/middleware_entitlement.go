package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/creatorlens/creator-analytics/internal/http/response"
	"github.com/creatorlens/creator-analytics/internal/lib/sl"
)

// EntitlementService описывает интерфейс проверки доступа к премиум-функциям.
type EntitlementService interface {
	IsEntitled(ctx context.Context, userUID string) (bool, error)
}

// EntitlementMiddleware создает middleware для проверки доступа пользователя
// к премиум-функциям. Без доступа возвращает HTTP 403 Forbidden.
func EntitlementMiddleware(log *slog.Logger, entService EntitlementService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			entitled, err := entService.IsEntitled(r.Context(), userUID)
			if err != nil {
				log.Error("failed to check entitlement", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if !entitled {
				log.Warn("premium access denied", slog.String("user_uid", userUID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("premium access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
