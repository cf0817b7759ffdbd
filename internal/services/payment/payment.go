// Package payment содержит каталог тарифов и подтверждение оплаты.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/creatorlens/creator-analytics/internal/lib/sl"
	"github.com/creatorlens/creator-analytics/internal/models"
	"github.com/creatorlens/creator-analytics/internal/rabbitmq"
)

// ErrUnknownPlan возвращается при подтверждении оплаты несуществующего плана.
var ErrUnknownPlan = fmt.Errorf("unknown plan")

// plans каталог тарифов. Цены в вонах.
var plans = []models.Plan{
	{ID: models.PlanEventLaunch, Name: "Event Launch", Price: 9900, DurationMonths: 1,
		Description: "Launch promo, one month of full access"},
	{ID: models.Plan1Month, Name: "1 Month", Price: 18900, DurationMonths: 1},
	{ID: models.Plan3Months, Name: "3 Months", Price: 49900, DurationMonths: 3, Discount: 12},
	{ID: models.Plan12Months, Name: "12 Months", Price: 169000, DurationMonths: 12, Discount: 25},
}

// Repository описывает методы хранилища для подтверждения оплаты.
type Repository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	GetLatestSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
	ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error)
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

// ActivatedEvent событие активации подписки после оплаты.
type ActivatedEvent struct {
	UserUID   string    `json:"user_uid"`
	Plan      string    `json:"plan"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Service реализует операции оплаты подписок.
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

// Plans возвращает каталог тарифов.
func (s *Service) Plans() []models.Plan {
	out := make([]models.Plan, len(plans))
	copy(out, plans)
	return out
}

// PlanByID ищет тариф в каталоге.
func PlanByID(planID string) (models.Plan, bool) {
	for _, p := range plans {
		if p.ID == planID {
			return p, true
		}
	}
	return models.Plan{}, false
}

// Confirm фиксирует успешную оплату плана: создает подписку с окном от
// текущего момента, ставит флаг оплаты и публикует событие активации.
func (s *Service) Confirm(ctx context.Context, userUID, planID string) (*models.Subscription, error) {
	const op = "payment.Confirm"

	plan, ok := PlanByID(planID)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrUnknownPlan, planID)
	}

	now := time.Now().UTC()
	sub := models.Subscription{
		UserUID:   userUID,
		Plan:      plan.ID,
		Status:    models.StatusActive,
		StartDate: now,
		EndDate:   now.AddDate(0, plan.DurationMonths, 0),
	}
	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.ID = id

	if err := s.repo.SetPaidSubscription(ctx, userUID, true); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	event := ActivatedEvent{
		UserUID:   userUID,
		Plan:      plan.ID,
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
	}
	if err := s.publisher.Publish(rabbitmq.RoutingKeySubscriptionActivated, event); err != nil {
		s.log.Error("failed to publish subscription activated event",
			slog.String("user_uid", userUID), sl.Err(err))
	}

	s.entitlement.Invalidate(userUID)

	return &sub, nil
}

// Status возвращает последнюю подписку пользователя с актуальным статусом,
// выведенным из даты окончания.
func (s *Service) Status(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "payment.Status"

	sub, err := s.repo.GetLatestSubscription(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.Status = sub.EffectiveStatus(time.Now().UTC())
	return sub, nil
}

// History возвращает все подписки пользователя, поздние окна первыми.
// Статусы выводятся из дат окончания на момент чтения.
func (s *Service) History(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	const op = "payment.History"

	subs, err := s.repo.ListSubscriptions(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := time.Now().UTC()
	for _, sub := range subs {
		sub.Status = sub.EffectiveStatus(now)
	}
	return subs, nil
}
