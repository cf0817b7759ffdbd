package entitlement

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/creatorlens/creator-analytics/internal/models"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UsersMock) ClearExpiredPaidFlag(ctx context.Context, uid string, now time.Time) (bool, error) {
	args := m.Called(ctx, uid, now)
	return args.Bool(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	fresh := now.Add(-24 * time.Hour)
	boundary := now.Add(-models.CouponGracePeriod)
	stale := now.Add(-15 * 24 * time.Hour)

	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{"нет пользователя", nil, false},
		{"админ без подписки", &models.User{Role: models.RoleAdmin}, true},
		{"оплаченная подписка", &models.User{Role: models.RoleUser, HasPaidSubscription: true}, true},
		{"купон активирован вчера", &models.User{Role: models.RoleUser, CouponRedeemedAt: &fresh}, true},
		{"купон ровно 14 дней назад", &models.User{Role: models.RoleUser, CouponRedeemedAt: &boundary}, false},
		{"купон просрочен", &models.User{Role: models.RoleUser, CouponRedeemedAt: &stale}, false},
		{"обычный пользователь без всего", &models.User{Role: models.RoleUser}, false},
		{"админ перекрывает просроченный купон", &models.User{Role: models.RoleAdmin, CouponRedeemedAt: &stale}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.user, now))
		})
	}
}

func TestService_IsEntitled_CacheHit(t *testing.T) {
	users := new(UsersMock)
	cache := new(CacheMock)
	svc := NewService(users, cache, newNoopLogger())

	cache.On("Get", CacheKey("uid-1"), mock.Anything).Run(func(args mock.Arguments) {
		*(args.Get(1).(*bool)) = true
	}).Return(true, nil)

	ok, err := svc.IsEntitled(context.Background(), "uid-1")
	assert.NoError(t, err)
	assert.True(t, ok)
	users.AssertNotCalled(t, "GetUserByUID", mock.Anything, mock.Anything)
}

func TestService_IsEntitled_ClearsExpiredFlag(t *testing.T) {
	users := new(UsersMock)
	cache := new(CacheMock)
	svc := NewService(users, cache, newNoopLogger())

	user := &models.User{UID: "uid-2", Role: models.RoleUser, HasPaidSubscription: true}
	cache.On("Get", CacheKey("uid-2"), mock.Anything).Return(false, nil)
	users.On("GetUserByUID", mock.Anything, "uid-2").Return(user, nil)
	users.On("ClearExpiredPaidFlag", mock.Anything, "uid-2", mock.Anything).Return(true, nil)
	cache.On("Set", CacheKey("uid-2"), false, cacheTTL).Return(nil)

	ok, err := svc.IsEntitled(context.Background(), "uid-2")
	assert.NoError(t, err)
	assert.False(t, ok)
	users.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_IsEntitled_PaidFlagStillValid(t *testing.T) {
	users := new(UsersMock)
	cache := new(CacheMock)
	svc := NewService(users, cache, newNoopLogger())

	user := &models.User{UID: "uid-3", Role: models.RoleUser, HasPaidSubscription: true}
	cache.On("Get", CacheKey("uid-3"), mock.Anything).Return(false, nil)
	users.On("GetUserByUID", mock.Anything, "uid-3").Return(user, nil)
	users.On("ClearExpiredPaidFlag", mock.Anything, "uid-3", mock.Anything).Return(false, nil)
	cache.On("Set", CacheKey("uid-3"), true, cacheTTL).Return(nil)

	ok, err := svc.IsEntitled(context.Background(), "uid-3")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestService_IsEntitled_UserNotFound(t *testing.T) {
	users := new(UsersMock)
	cache := new(CacheMock)
	svc := NewService(users, cache, newNoopLogger())

	cache.On("Get", CacheKey("uid-4"), mock.Anything).Return(false, nil)
	users.On("GetUserByUID", mock.Anything, "uid-4").Return(nil, errors.New("storage.GetUserByUID: user not found"))

	ok, err := svc.IsEntitled(context.Background(), "uid-4")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestService_IsEntitled_CacheErrorFallsThrough(t *testing.T) {
	users := new(UsersMock)
	cache := new(CacheMock)
	svc := NewService(users, cache, newNoopLogger())

	user := &models.User{UID: "uid-5", Role: models.RoleUser}
	cache.On("Get", CacheKey("uid-5"), mock.Anything).Return(false, errors.New("redis: connection refused"))
	users.On("GetUserByUID", mock.Anything, "uid-5").Return(user, nil)
	cache.On("Set", CacheKey("uid-5"), false, cacheTTL).Return(nil)

	ok, err := svc.IsEntitled(context.Background(), "uid-5")
	assert.NoError(t, err)
	assert.False(t, ok)
}
