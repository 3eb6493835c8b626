package balance

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/voucher-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// MockService реализует интерфейс balance.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateBalance(ctx context.Context, username string, delta decimal.Decimal) (*models.User, error) {
	args := m.Called(ctx, username, delta)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestBalanceHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		urlUsername    string
		ctxUsername    string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "пользователь пополняет свой баланс",
			body:        `{"amount": "500.00"}`,
			ctxUsername: "ivan",
			setupMock: func(m *MockService) {
				m.On("UpdateBalance", mock.Anything, "ivan", decimal.RequireFromString("500.00")).
					Return(&models.User{Username: "ivan", Balance: decimal.RequireFromString("1500.00")}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"username":"ivan"`,
		},
		{
			name:        "администратор меняет чужой баланс",
			body:        `{"amount": "-200"}`,
			urlUsername: "petr",
			ctxUsername: "admin",
			setupMock: func(m *MockService) {
				m.On("UpdateBalance", mock.Anything, "petr", decimal.RequireFromString("-200")).
					Return(&models.User{Username: "petr", Balance: decimal.RequireFromString("300")}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"username":"petr"`,
		},
		{
			name:           "сумма не является числом",
			body:           `{"amount": "many"}`,
			ctxUsername:    "ivan",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid amount"`,
		},
		{
			name:           "сумма не указана",
			body:           `{}`,
			ctxUsername:    "ivan",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:        "списание уводит баланс в минус",
			body:        `{"amount": "-10000"}`,
			ctxUsername: "ivan",
			setupMock: func(m *MockService) {
				m.On("UpdateBalance", mock.Anything, "ivan", decimal.RequireFromString("-10000")).
					Return(nil, models.ErrInvalidAmount)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:        "пользователь не найден",
			body:        `{"amount": "100"}`,
			urlUsername: "ghost",
			ctxUsername: "admin",
			setupMock: func(m *MockService) {
				m.On("UpdateBalance", mock.Anything, "ghost", decimal.RequireFromString("100")).
					Return(nil, models.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"status":"Error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPut, "/users/me/balance", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			rctx := chi.NewRouteContext()
			if tt.urlUsername != "" {
				rctx.URLParams.Add("username", tt.urlUsername)
			}
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.User, tt.ctxUsername)
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
