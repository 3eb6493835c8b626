package list

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/voucher-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, limit, offset int) ([]*models.Voucher, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Voucher), args.Error(1)
}

func (m *MockService) ListByOwner(ctx context.Context, ownerUID string, limit, offset int) ([]*models.Voucher, error) {
	args := m.Called(ctx, ownerUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Voucher), args.Error(1)
}

const ownerUID = "7d4e2f3a-1b5c-4d6e-9f80-222222222222"

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	vouchers := []*models.Voucher{
		{UUID: "5b2c0d1e-9a64-4f3a-8a8e-111111111111", Title: "Эко-тур по Карелии"},
	}

	tests := []struct {
		name           string
		url            string
		withUserUID    bool
		setupMock      func(m *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "каталог с пагинацией по умолчанию",
			url:  "/vouchers",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, 10, 0).Return(vouchers, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Эко-тур по Карелии"`,
		},
		{
			name: "каталог с явной пагинацией",
			url:  "/vouchers?limit=5&offset=20",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, 5, 20).Return(vouchers, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:        "свои ваучеры с пагинацией",
			url:         "/vouchers?owner=me&limit=5&offset=20",
			withUserUID: true,
			setupMock: func(m *MockService) {
				m.On("ListByOwner", mock.Anything, ownerUID, 5, 20).Return(vouchers, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "свои ваучеры без авторизации",
			url:            "/vouchers?owner=me",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.withUserUID {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, ownerUID)
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
