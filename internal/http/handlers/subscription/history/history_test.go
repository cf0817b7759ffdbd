package history

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/creatorlens/creator-analytics/internal/http/middlewarectx"
	"github.com/creatorlens/creator-analytics/internal/models"
)

// MockService реализует интерфейс history.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) History(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHistoryHandler(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "две подписки, поздняя первая",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("History", mock.Anything, "uid-1").Return([]*models.Subscription{
					{
						Plan: models.Plan3Months, Status: models.StatusActive,
						StartDate: start, EndDate: start.AddDate(0, 3, 0),
					},
					{
						Plan: models.PlanTrial, Status: models.StatusExpired,
						StartDate: start.AddDate(0, -2, 0), EndDate: start.AddDate(0, -2, 14),
					},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"status":"OK","data":{"subscriptions":[
				{"plan":"3months","status":"active",
				 "start_date":"2026-06-01T00:00:00Z","end_date":"2026-09-01T00:00:00Z"},
				{"plan":"trial","status":"expired",
				 "start_date":"2026-04-01T00:00:00Z","end_date":"2026-04-15T00:00:00Z"}]}}`,
		},
		{
			name:    "подписок нет — пустой список",
			userUID: "uid-2",
			setupMock: func(m *MockService) {
				m.On("History", mock.Anything, "uid-2").Return([]*models.Subscription{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"subscriptions":[]}}`,
		},
		{
			name:           "нет идентификации",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:    "ошибка сервиса",
			userUID: "uid-3",
			setupMock: func(m *MockService) {
				m.On("History", mock.Anything, "uid-3").Return(nil, errors.New("storage: down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			handler := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/subscription/history", nil)
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}
