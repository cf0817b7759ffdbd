// Package creatoranalytics собирает и запускает основное приложение.
package creatoranalytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/creatorlens/creator-analytics/internal/cache"
	"github.com/creatorlens/creator-analytics/internal/config"
	"github.com/creatorlens/creator-analytics/internal/genai"
	"github.com/creatorlens/creator-analytics/internal/lib/apikey"
	"github.com/creatorlens/creator-analytics/internal/lib/jwt"
	"github.com/creatorlens/creator-analytics/internal/migrations"
	"github.com/creatorlens/creator-analytics/internal/rabbitmq"
	analyticsservice "github.com/creatorlens/creator-analytics/internal/services/analytics"
	authservice "github.com/creatorlens/creator-analytics/internal/services/auth"
	couponservice "github.com/creatorlens/creator-analytics/internal/services/coupon"
	entitlementservice "github.com/creatorlens/creator-analytics/internal/services/entitlement"
	paymentservice "github.com/creatorlens/creator-analytics/internal/services/payment"
	"github.com/creatorlens/creator-analytics/internal/storage"
	"github.com/creatorlens/creator-analytics/internal/youtubeapi"
)

const (
	rabbitMaxRetries = 5
	rabbitRetryDelay = 2 * time.Second
)

// App инкапсулирует HTTP-сервер и подключения приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

// New собирает приложение: хранилище, миграции, кэш, брокер и сервисы.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitConnection, rabbitMaxRetries, rabbitRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetEventQueues())
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewService(db, jwtMaker)
	entitlementService := entitlementservice.NewService(db, cacheRedis, logger)
	couponService := couponservice.New(db, publisher, entitlementService, logger)
	paymentService := paymentservice.New(db, publisher, entitlementService, logger)

	// Ключи внешних API лежат в конфиге в base64.
	if cfg.YouTube.APIKey, err = apikey.Decode(cfg.YouTube.APIKey); err != nil {
		return nil, fmt.Errorf("youtube api key: %w", err)
	}
	if cfg.GenAI.APIKey, err = apikey.Decode(cfg.GenAI.APIKey); err != nil {
		return nil, fmt.Errorf("genai api key: %w", err)
	}

	youtubeClient := youtubeapi.NewClient(cfg.YouTube)
	analyticsService := analyticsservice.New(youtubeClient, cacheRedis, logger)
	genaiClient := genai.NewClient(cfg.GenAI)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Storage:     db,
		Auth:        authService,
		Entitlement: entitlementService,
		Coupon:      couponService,
		Payment:     paymentService,
		Analytics:   analyticsService,
		GenAI:       genaiClient,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
