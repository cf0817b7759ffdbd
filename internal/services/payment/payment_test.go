package payment

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/creatorlens/creator-analytics/internal/models"
	"github.com/creatorlens/creator-analytics/internal/rabbitmq"
	"github.com/creatorlens/creator-analytics/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	args := m.Called(ctx, sub)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetLatestSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *RepoMock) SetPaidSubscription(ctx context.Context, uid string, paid bool) error {
	return m.Called(ctx, uid, paid).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

type InvalidatorMock struct{ mock.Mock }

func (m *InvalidatorMock) Invalidate(userUID string) {
	m.Called(userUID)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Plans(t *testing.T) {
	svc := New(new(RepoMock), new(PublisherMock), new(InvalidatorMock), newNoopLogger())

	got := svc.Plans()
	assert.Len(t, got, 4)

	byID := make(map[string]models.Plan, len(got))
	for _, p := range got {
		byID[p.ID] = p
	}
	assert.Equal(t, 9900, byID[models.PlanEventLaunch].Price)
	assert.Equal(t, 18900, byID[models.Plan1Month].Price)
	assert.Equal(t, 49900, byID[models.Plan3Months].Price)
	assert.Equal(t, 12, byID[models.Plan3Months].Discount)
	assert.Equal(t, 169000, byID[models.Plan12Months].Price)
	assert.Equal(t, 25, byID[models.Plan12Months].Discount)
}

func TestService_Confirm(t *testing.T) {
	tests := []struct {
		name       string
		planID     string
		wantMonths int
	}{
		{"промо-план на месяц", models.PlanEventLaunch, 1},
		{"план на месяц", models.Plan1Month, 1},
		{"план на год", models.Plan12Months, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			pub := new(PublisherMock)
			inv := new(InvalidatorMock)
			svc := New(repo, pub, inv, newNoopLogger())

			repo.On("CreateSubscription", mock.Anything, mock.Anything).Return(11, nil)
			repo.On("SetPaidSubscription", mock.Anything, "uid-1", true).Return(nil)
			pub.On("Publish", rabbitmq.RoutingKeySubscriptionActivated, mock.Anything).Return(nil)
			inv.On("Invalidate", "uid-1").Return()

			sub, err := svc.Confirm(context.Background(), "uid-1", tt.planID)
			assert.NoError(t, err)
			assert.Equal(t, 11, sub.ID)
			assert.Equal(t, tt.planID, sub.Plan)
			assert.Equal(t, sub.StartDate.AddDate(0, tt.wantMonths, 0), sub.EndDate)
			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
			inv.AssertExpectations(t)
		})
	}
}

func TestService_Confirm_UnknownPlan(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, new(PublisherMock), new(InvalidatorMock), newNoopLogger())

	_, err := svc.Confirm(context.Background(), "uid-1", "lifetime")
	assert.ErrorIs(t, err, ErrUnknownPlan)
	repo.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
}

func TestService_Status_DerivesFromEndDate(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, new(PublisherMock), new(InvalidatorMock), newNoopLogger())

	// Хранимый статус active, но окно закончилось: ответ обязан быть expired.
	stale := &models.Subscription{
		ID:        1,
		UserUID:   "uid-2",
		Plan:      models.Plan1Month,
		Status:    models.StatusActive,
		StartDate: time.Now().UTC().AddDate(0, -2, 0),
		EndDate:   time.Now().UTC().AddDate(0, -1, 0),
	}
	repo.On("GetLatestSubscription", mock.Anything, "uid-2").Return(stale, nil)

	sub, err := svc.Status(context.Background(), "uid-2")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusExpired, sub.Status)
}

func TestService_Status_NotFound(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, new(PublisherMock), new(InvalidatorMock), newNoopLogger())

	repo.On("GetLatestSubscription", mock.Anything, "uid-3").Return(nil, storage.ErrSubscriptionNotFound)

	_, err := svc.Status(context.Background(), "uid-3")
	assert.ErrorIs(t, err, storage.ErrSubscriptionNotFound)
}

func TestService_History_DerivesStatuses(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, new(PublisherMock), new(InvalidatorMock), newNoopLogger())

	now := time.Now().UTC()
	subs := []*models.Subscription{
		{
			ID: 2, UserUID: "uid-4", Plan: models.Plan3Months,
			Status:    models.StatusActive,
			StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 2, 0),
		},
		{
			// Хранимый статус active, но окно давно закрыто.
			ID: 1, UserUID: "uid-4", Plan: models.PlanTrial,
			Status:    models.StatusActive,
			StartDate: now.AddDate(-1, 0, 0), EndDate: now.AddDate(-1, 0, 14),
		},
	}
	repo.On("ListSubscriptions", mock.Anything, "uid-4").Return(subs, nil)

	got, err := svc.History(context.Background(), "uid-4")
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, models.StatusActive, got[0].Status)
	assert.Equal(t, models.StatusExpired, got[1].Status)
}
