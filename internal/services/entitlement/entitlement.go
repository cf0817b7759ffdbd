// Package entitlement решает, открыт ли пользователю доступ к премиум-функциям.
//
// Правила применяются по порядку, первое совпадение выигрывает:
// нет пользователя — отказ; админ — доступ без срока; флаг оплаченной
// подписки — доступ; купон активирован меньше 14 дней назад — доступ;
// иначе отказ. Функция чистая, некорректные данные трактуются как отказ.
package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/creatorlens/creator-analytics/internal/models"
)

// UserRepository читает пользователей и сверяет флаг оплаты с окнами подписок.
type UserRepository interface {
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
	// ClearExpiredPaidFlag снимает флаг оплаты, если все подписки пользователя
	// закончились. Возвращает true, если флаг был снят.
	ClearExpiredPaidFlag(ctx context.Context, uid string, now time.Time) (bool, error)
}

// Cache описывает методы для кэширования результатов проверки.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// cacheTTL короткий, чтобы снятие флага и активация купона быстро доезжали.
const cacheTTL = time.Minute

// Evaluate чистая функция оценки доступа на момент now.
func Evaluate(user *models.User, now time.Time) bool {
	if user == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	if user.HasPaidSubscription {
		return true
	}
	if user.CouponRedeemedAt != nil && now.Before(user.CouponRedeemedAt.Add(models.CouponGracePeriod)) {
		return true
	}
	return false
}

// Service оценивает доступ по данным хранилища с кэшированием результата.
type Service struct {
	users UserRepository
	cache Cache
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		users: users,
		cache: cache,
		log:   log,
	}
}

// CacheKey ключ кэша результата проверки для пользователя.
func CacheKey(userUID string) string {
	return fmt.Sprintf("entitlement:%s", userUID)
}

// IsEntitled возвращает решение о доступе для пользователя по uid.
// Перед оценкой флаг оплаты сверяется с окнами подписок: хранимой строке
// статуса здесь не доверяют, актуальность выводится из дат окончания.
func (s *Service) IsEntitled(ctx context.Context, userUID string) (bool, error) {
	cacheKey := CacheKey(userUID)

	var cached bool
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read entitlement cache", slog.String("key", cacheKey), slog.Any("err", err))
	} else if found {
		return cached, nil
	}

	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	if user.HasPaidSubscription {
		cleared, err := s.users.ClearExpiredPaidFlag(ctx, userUID, now)
		if err != nil {
			return false, err
		}
		if cleared {
			user.HasPaidSubscription = false
		}
	}

	entitled := Evaluate(user, now)

	if err := s.cache.Set(cacheKey, entitled, cacheTTL); err != nil {
		s.log.Warn("failed to cache entitlement", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return entitled, nil
}

// Invalidate сбрасывает закэшированное решение для пользователя.
// Вызывается после активации купона или подтверждения оплаты.
func (s *Service) Invalidate(userUID string) {
	if err := s.cache.Invalidate(CacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate entitlement cache",
			slog.String("user_uid", userUID), slog.Any("err", err))
	}
}
