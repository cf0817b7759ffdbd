package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/time/rate"

	"github.com/creatorlens/creator-analytics/internal/http/middlewarectx"
	"github.com/creatorlens/creator-analytics/internal/models"
)

type AuthServiceMock struct{ mock.Mock }

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type EntitlementServiceMock struct{ mock.Mock }

func (m *EntitlementServiceMock) IsEntitled(ctx context.Context, userUID string) (bool, error) {
	args := m.Called(ctx, userUID)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestJWTMiddleware(t *testing.T) {
	authMock := new(AuthServiceMock)
	user := &models.User{UID: "uid-1", Username: "creator", Role: models.RoleUser, Email: "c@example.com"}
	authMock.On("ValidateToken", mock.Anything, "good-token").Return(user, nil)
	authMock.On("ValidateToken", mock.Anything, "bad-token").Return(nil, errors.New("token is malformed"))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "creator", r.Context().Value(middlewarectx.User))
		assert.Equal(t, models.RoleUser, r.Context().Value(middlewarectx.Role))
		assert.Equal(t, "uid-1", r.Context().Value(middlewarectx.UserUID))
		w.WriteHeader(http.StatusOK)
	})
	handler := middlewarectx.JWTMiddleware(authMock, newNoopLogger())(next)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"валидный токен", "Bearer good-token", http.StatusOK},
		{"невалидный токен", "Bearer bad-token", http.StatusUnauthorized},
		{"нет заголовка", "", http.StatusUnauthorized},
		{"без Bearer", "good-token", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/channel", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAdminOnlyMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middlewarectx.AdminOnlyMiddleware(newNoopLogger())(next)

	tests := []struct {
		name       string
		role       any
		wantStatus int
	}{
		{"админ проходит", models.RoleAdmin, http.StatusOK},
		{"пользователь отклоняется", models.RoleUser, http.StatusForbidden},
		{"роль отсутствует", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/coupons", nil)
			if tt.role != nil {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Role, tt.role))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestEntitlementMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		userUID    any
		entitled   bool
		entErr     error
		wantStatus int
	}{
		{"доступ открыт", "uid-1", true, nil, http.StatusOK},
		{"доступ закрыт", "uid-2", false, nil, http.StatusForbidden},
		{"нет идентификации", nil, false, nil, http.StatusUnauthorized},
		{"ошибка сервиса", "uid-3", false, errors.New("storage: down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entMock := new(EntitlementServiceMock)
			if uid, ok := tt.userUID.(string); ok {
				entMock.On("IsEntitled", mock.Anything, uid).Return(tt.entitled, tt.entErr)
			}
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := middlewarectx.EntitlementMiddleware(newNoopLogger(), entMock)(next)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/analytics/comments", nil)
			if tt.userUID != nil {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middlewarectx.RateLimitMiddleware(newNoopLogger(), rate.NewLimiter(rate.Limit(0), 1))(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
