package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}
func (m *RepoMock) SetUserActive(ctx context.Context, userUID string, active bool) error {
	return m.Called(ctx, userUID, active).Error(0)
}
func (m *RepoMock) UpdateUserRole(ctx context.Context, userUID string, role models.Role) error {
	return m.Called(ctx, userUID, role).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const userUID = "7d4e2f3a-1b5c-4d6e-9f80-222222222222"

func sampleUser(username string) *models.User {
	return &models.User{
		UUID:     userUID,
		Username: username,
		Role:     models.RoleUser,
		Active:   true,
	}
}

func TestService_Block(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m *RepoMock)
		wantErr   error
	}{
		{
			name: "успешная блокировка",
			setupMock: func(m *RepoMock) {
				m.On("GetUserByUsername", mock.Anything, "petr").
					Return(sampleUser("petr"), nil)
				m.On("SetUserActive", mock.Anything, userUID, false).Return(nil)
			},
		},
		{
			name: "пользователь не найден",
			setupMock: func(m *RepoMock) {
				m.On("GetUserByUsername", mock.Anything, "petr").
					Return(nil, models.ErrUserNotFound)
			},
			wantErr: models.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMock(repo)

			svc := New(repo, newNoopLogger())
			err := svc.Block(context.Background(), "petr")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Unblock(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetUserByUsername", mock.Anything, "petr").
		Return(sampleUser("petr"), nil)
	repo.On("SetUserActive", mock.Anything, userUID, true).Return(nil)

	svc := New(repo, newNoopLogger())
	err := svc.Unblock(context.Background(), "petr")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_ChangeRole(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		setupMock func(m *RepoMock)
		wantErr   error
	}{
		{
			name: "назначение менеджера",
			role: "MANAGER",
			setupMock: func(m *RepoMock) {
				m.On("GetUserByUsername", mock.Anything, "petr").
					Return(sampleUser("petr"), nil)
				m.On("UpdateUserRole", mock.Anything, userUID, models.RoleManager).
					Return(nil)
			},
		},
		{
			name: "роль в нижнем регистре нормализуется",
			role: "admin",
			setupMock: func(m *RepoMock) {
				m.On("GetUserByUsername", mock.Anything, "petr").
					Return(sampleUser("petr"), nil)
				m.On("UpdateUserRole", mock.Anything, userUID, models.RoleAdmin).
					Return(nil)
			},
		},
		{
			name:      "неизвестная роль",
			role:      "OWNER",
			setupMock: func(_ *RepoMock) {},
			wantErr:   models.ErrInvalidInput,
		},
		{
			name: "пользователь не найден",
			role: "USER",
			setupMock: func(m *RepoMock) {
				m.On("GetUserByUsername", mock.Anything, "petr").
					Return(nil, models.ErrUserNotFound)
			},
			wantErr: models.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMock(repo)

			svc := New(repo, newNoopLogger())
			err := svc.ChangeRole(context.Background(), "petr", tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_List(t *testing.T) {
	repo := new(RepoMock)
	want := []*models.User{sampleUser("ivan"), sampleUser("petr")}
	repo.On("ListUsers", mock.Anything, 10, 0).Return(want, nil)

	svc := New(repo, newNoopLogger())
	got, err := svc.List(context.Background(), 10, 0)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	repo.AssertExpectations(t)
}

func TestService_GetByUsername(t *testing.T) {
	repo := new(RepoMock)
	failure := errors.New("connection reset")
	repo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, failure)

	svc := New(repo, newNoopLogger())
	_, err := svc.GetByUsername(context.Background(), "ghost")

	assert.ErrorIs(t, err, failure)
	repo.AssertExpectations(t)
}
