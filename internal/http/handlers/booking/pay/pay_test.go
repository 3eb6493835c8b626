package pay

import (
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

// MockService реализует интерфейс pay.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Pay(ctx context.Context, voucherUID, actingUsername string, actorRole models.Role) (*models.Voucher, error) {
	args := m.Called(ctx, voucherUID, actingUsername, actorRole)
	if res := args.Get(0); res != nil {
		return res.(*models.Voucher), args.Error(1)
	}
	return nil, args.Error(1)
}

const voucherUID = "5b2c0d1e-9a64-4f3a-8a8e-111111111111"

func TestPayHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	paid := &models.Voucher{
		UUID:   voucherUID,
		Title:  "Эко-тур",
		Price:  decimal.RequireFromString("1800"),
		Status: models.StatusPaid,
	}

	tests := []struct {
		name           string
		uid            string
		username       string
		role           models.Role
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "владелец оплачивает бронь",
			uid:      voucherUID,
			username: "ivan",
			role:     models.RoleUser,
			setupMock: func(m *MockService) {
				m.On("Pay", mock.Anything, voucherUID, "ivan", models.RoleUser).
					Return(paid, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"PAID"`,
		},
		{
			name:           "некорректный uid в URL",
			uid:            "xxx",
			username:       "ivan",
			role:           models.RoleUser,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid voucher uid"`,
		},
		{
			name:     "не владелец брони",
			uid:      voucherUID,
			username: "petr",
			role:     models.RoleManager,
			setupMock: func(m *MockService) {
				m.On("Pay", mock.Anything, voucherUID, "petr", models.RoleManager).
					Return(nil, models.ErrNotOwner)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:     "ваучер не найден",
			uid:      voucherUID,
			username: "ivan",
			role:     models.RoleUser,
			setupMock: func(m *MockService) {
				m.On("Pay", mock.Anything, voucherUID, "ivan", models.RoleUser).
					Return(nil, models.ErrVoucherNotFound)
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

			req := httptest.NewRequest(http.MethodPost, "/vouchers/"+tt.uid+"/pay", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("uid", tt.uid)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.User, tt.username)
			ctx = context.WithValue(ctx, middlewarectx.Role, tt.role)
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
