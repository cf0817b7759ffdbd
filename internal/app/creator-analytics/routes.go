package creatoranalytics

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/creatorlens/creator-analytics/internal/genai"
	"github.com/creatorlens/creator-analytics/internal/http/handlers/analytics/battle"
	"github.com/creatorlens/creator-analytics/internal/http/handlers/analytics/channel"
	"github.com/creatorlens/creator-analytics/internal/http/handlers/analytics/comments"
	"github.com/creatorlens/creator-analytics/internal/http/handlers/auth/login"
	"github.com/creatorlens/creator-analytics/internal/http/handlers/auth/register"
	"github.com/creatorlens/creator-analytics/internal/http/handlers/coupon/generate"
	couponget "github.com/creatorlens/creator-analytics/internal/http/handlers/coupon/get"
	couponlist "github.com/creatorlens/creator-analytics/internal/http/handlers/coupon/list"
	"github.com/creatorlens/creator-analytics/internal/http/handlers/coupon/redeem"
	"github.com/creatorlens/creator-analytics/internal/http/handlers/entitlement/check"
	"github.com/creatorlens/creator-analytics/internal/http/handlers/health"
	"github.com/creatorlens/creator-analytics/internal/http/handlers/payment/confirm"
	"github.com/creatorlens/creator-analytics/internal/http/handlers/payment/plans"
	"github.com/creatorlens/creator-analytics/internal/http/handlers/subscription/history"
	subscriptionread "github.com/creatorlens/creator-analytics/internal/http/handlers/subscription/read"
	userdelete "github.com/creatorlens/creator-analytics/internal/http/handlers/user/delete"
	userlist "github.com/creatorlens/creator-analytics/internal/http/handlers/user/list"
	"github.com/creatorlens/creator-analytics/internal/http/middlewarectx"
	analyticsservice "github.com/creatorlens/creator-analytics/internal/services/analytics"
	authservice "github.com/creatorlens/creator-analytics/internal/services/auth"
	couponservice "github.com/creatorlens/creator-analytics/internal/services/coupon"
	entitlementservice "github.com/creatorlens/creator-analytics/internal/services/entitlement"
	paymentservice "github.com/creatorlens/creator-analytics/internal/services/payment"
	"github.com/creatorlens/creator-analytics/internal/storage"
)

// Services содержит сервисы, необходимые маршрутам приложения.
type Services struct {
	Storage     *storage.Storage
	Auth        *authservice.Service
	Entitlement *entitlementservice.Service
	Coupon      *couponservice.Service
	Payment     *paymentservice.Service
	Analytics   *analyticsservice.Service
	GenAI       *genai.Client
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(10, 30)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)
		r.Get("/plans", plans.New(logger, svc.Payment).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

			r.Get("/entitlement", check.New(logger, svc.Entitlement).ServeHTTP)
			r.Get("/subscription", subscriptionread.New(logger, svc.Payment).ServeHTTP)
			r.Get("/subscription/history", history.New(logger, svc.Payment).ServeHTTP)
			r.Post("/coupons/redeem", redeem.New(logger, svc.Coupon).ServeHTTP)
			r.Post("/payments/confirm", confirm.New(logger, svc.Payment).ServeHTTP)
			r.Get("/analytics/channel", channel.New(logger, svc.Analytics).ServeHTTP)
			r.Get("/analytics/battle", battle.New(logger, svc.Analytics).ServeHTTP)

			// Премиум-функции за гейтом доступа
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.EntitlementMiddleware(logger, svc.Entitlement))
				r.Post("/analytics/comments", comments.New(logger, svc.GenAI).ServeHTTP)
			})

			// Административные конечные точки
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Post("/admin/coupons", generate.New(logger, svc.Coupon).ServeHTTP)
				r.Get("/admin/coupons", couponlist.New(logger, svc.Coupon).ServeHTTP)
				r.Get("/admin/coupons/{code}", couponget.New(logger, svc.Coupon).ServeHTTP)
				r.Get("/admin/users", userlist.New(logger, svc.Auth).ServeHTTP)
				r.Delete("/admin/users/{uid}", userdelete.New(logger, svc.Auth).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, svc.Storage).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
