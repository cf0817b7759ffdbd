package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/creatorlens/creator-analytics/internal/models"
	"github.com/creatorlens/creator-analytics/internal/services/auth"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, username, password string) (string, string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(*MockService)
		expectedStatus int
		checkBody      func(*testing.T, []byte)
	}{
		{
			name:        "успешный вход",
			requestBody: Request{Username: "creator", Password: "secret123"},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "creator", "secret123").
					Return("signed.jwt.token", models.RoleUser, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var resp struct {
					Data map[string]any `json:"data"`
				}
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "signed.jwt.token", resp.Data["token"])
				assert.Equal(t, models.RoleUser, resp.Data["role"])
			},
		},
		{
			name:        "неверные учетные данные",
			requestBody: Request{Username: "creator", Password: "wrongpass"},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "creator", "wrongpass").
					Return("", "", auth.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "короткий пароль",
			requestBody:    Request{Username: "creator", Password: "123"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "внутренняя ошибка",
			requestBody: Request{Username: "creator", Password: "secret123"},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "creator", "secret123").
					Return("", "", errors.New("storage: connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			handler := New(newNoopLogger(), svc)

			var body bytes.Buffer
			require.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/login", &body)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, rec.Body.Bytes())
			}
			svc.AssertExpectations(t)
		})
	}
}
