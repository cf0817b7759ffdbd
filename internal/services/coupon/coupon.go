// Package coupon содержит бизнес-логику выпуска и активации купонов.
package coupon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/creatorlens/creator-analytics/internal/lib/couponcode"
	"github.com/creatorlens/creator-analytics/internal/lib/sl"
	"github.com/creatorlens/creator-analytics/internal/models"
	"github.com/creatorlens/creator-analytics/internal/rabbitmq"
)

// Repository описывает методы хранилища для управления купонами.
type Repository interface {
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
	CreateCoupons(ctx context.Context, coupons []models.Coupon) error
	ListCoupons(ctx context.Context, limit, offset int) ([]*models.Coupon, error)
	ListCouponCodes(ctx context.Context) (map[string]struct{}, error)
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	MarkCouponUsed(ctx context.Context, code, usedBy string, usedAt time.Time) (*models.Coupon, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	SetCouponRedeemedAt(ctx context.Context, uid string, redeemedAt time.Time) error
	SetPaidSubscription(ctx context.Context, uid string, paid bool) error
}

// EventPublisher публикует события сервиса в брокер сообщений.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// EntitlementInvalidator сбрасывает закэшированное решение о доступе.
type EntitlementInvalidator interface {
	Invalidate(userUID string)
}

// RedeemedEvent событие активации купона.
type RedeemedEvent struct {
	Code          string    `json:"code"`
	UserUID       string    `json:"user_uid"`
	DurationClass float64   `json:"duration_class"`
	RedeemedAt    time.Time `json:"redeemed_at"`
	EndDate       time.Time `json:"end_date"`
}

// Service реализует операции над купонами.
type Service struct {
	repo        Repository
	publisher   EventPublisher
	entitlement EntitlementInvalidator
	log         *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, publisher EventPublisher, entitlement EntitlementInvalidator, log *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		publisher:   publisher,
		entitlement: entitlement,
		log:         log,
	}
}

// ErrInvalidDurationClass возвращается при выпуске купонов с неизвестным классом длительности.
var ErrInvalidDurationClass = errors.New("invalid duration class")

// Generate выпускает count купонов заданного класса длительности.
// Коды уникальны в пределах всей таблицы купонов и внутри выпускаемой партии.
func (s *Service) Generate(ctx context.Context, class models.DurationClass, count int) ([]models.Coupon, error) {
	const op = "coupon.Generate"

	if !class.Valid() {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidDurationClass, float64(class))
	}

	existing, err := s.repo.ListCouponCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	coupons := make([]models.Coupon, 0, count)
	for i := 0; i < count; i++ {
		code, err := couponcode.GenerateUnique(existing)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		// Код партии тоже занимает место в множестве, иначе партия
		// может столкнуться сама с собой.
		existing[code] = struct{}{}
		coupons = append(coupons, models.Coupon{
			ID:            uuid.NewString(),
			Code:          code,
			DurationClass: class,
			CreatedAt:     now,
		})
	}

	if err := s.repo.CreateCoupons(ctx, coupons); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return coupons, nil
}

// List возвращает выпущенные купоны, новые первыми.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.Coupon, error) {
	const op = "coupon.List"

	coupons, err := s.repo.ListCoupons(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return coupons, nil
}

// GetByCode возвращает купон по коду вместе со статусом использования.
func (s *Service) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	const op = "coupon.GetByCode"

	cpn, err := s.repo.GetCouponByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cpn, nil
}

// Redeem активирует купон для пользователя. Купон помечается использованным
// атомарно, поэтому при одновременных запросах с одним кодом успешен ровно
// один. Отметка об активации ставится пользователю всегда, флаг оплаты —
// только для непробных классов.
func (s *Service) Redeem(ctx context.Context, userUID, code string) (*models.Subscription, error) {
	const op = "coupon.Redeem"

	user, err := s.repo.GetUserByUID(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	cpn, err := s.repo.MarkCouponUsed(ctx, code, user.Email, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub := models.Subscription{
		UserUID:   user.UID,
		Plan:      cpn.DurationClass.Plan(),
		Status:    models.StatusActive,
		StartDate: now,
		EndDate:   cpn.DurationClass.End(now),
	}
	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.ID = id

	if err := s.repo.SetCouponRedeemedAt(ctx, user.UID, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cpn.DurationClass != models.DurationTrial {
		if err := s.repo.SetPaidSubscription(ctx, user.UID, true); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	event := RedeemedEvent{
		Code:          cpn.Code,
		UserUID:       user.UID,
		DurationClass: float64(cpn.DurationClass),
		RedeemedAt:    now,
		EndDate:       sub.EndDate,
	}
	if err := s.publisher.Publish(rabbitmq.RoutingKeyCouponRedeemed, event); err != nil {
		s.log.Error("failed to publish coupon redeemed event",
			slog.String("code", cpn.Code), sl.Err(err))
	}

	s.entitlement.Invalidate(user.UID)

	return &sub, nil
}
