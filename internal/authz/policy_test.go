package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

type UserSourceMock struct{ mock.Mock }

func (m *UserSourceMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		name string
		role models.Role
		perm Permission
		want bool
	}{
		{"администратор имеет admin:create", models.RoleAdmin, AdminCreate, true},
		{"администратор имеет manager:update", models.RoleAdmin, ManagerUpdate, true},
		{"администратор имеет user:read", models.RoleAdmin, UserRead, true},
		{"менеджер имеет manager:update", models.RoleManager, ManagerUpdate, true},
		{"менеджер не имеет admin:create", models.RoleManager, AdminCreate, false},
		{"менеджер не имеет admin:delete", models.RoleManager, AdminDelete, false},
		{"пользователь имеет user:create", models.RoleUser, UserCreate, true},
		{"пользователь не имеет manager:update", models.RoleUser, ManagerUpdate, false},
		{"пользователь не имеет admin:read", models.RoleUser, AdminRead, false},
		{"неизвестная роль не имеет ничего", models.Role("SUPERVISOR"), UserRead, false},
		{"пустая роль не имеет ничего", models.Role(""), UserRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.role, tt.perm))
		})
	}
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(models.RoleAdmin, AdminDelete))
	assert.ErrorIs(t, Check(models.RoleUser, AdminDelete), models.ErrUnauthorized)
}

func TestPolicy_IsOwner(t *testing.T) {
	ownerUID := "7d4e2f3a-1b5c-4d6e-9f80-222222222222"

	tests := []struct {
		name       string
		actor      string
		ownerUID   *string
		setupMocks func(m *UserSourceMock)
		want       bool
	}{
		{
			name:     "актор владеет ресурсом",
			actor:    "ivan",
			ownerUID: &ownerUID,
			setupMocks: func(m *UserSourceMock) {
				m.On("GetUser", mock.Anything, ownerUID).
					Return(&models.User{UUID: ownerUID, Username: "ivan"}, nil).Once()
			},
			want: true,
		},
		{
			name:     "ресурс принадлежит другому",
			actor:    "petr",
			ownerUID: &ownerUID,
			setupMocks: func(m *UserSourceMock) {
				m.On("GetUser", mock.Anything, ownerUID).
					Return(&models.User{UUID: ownerUID, Username: "ivan"}, nil).Once()
			},
			want: false,
		},
		{
			name:     "nil владелец — владение не подтверждено",
			actor:    "ivan",
			ownerUID: nil,
			want:     false,
		},
		{
			name:     "неразрешимый владелец — владение не подтверждено",
			actor:    "ivan",
			ownerUID: &ownerUID,
			setupMocks: func(m *UserSourceMock) {
				m.On("GetUser", mock.Anything, ownerUID).
					Return(nil, models.ErrUserNotFound).Once()
			},
			want: false,
		},
		{
			name:     "пустой актор — владение не подтверждено",
			actor:    "",
			ownerUID: &ownerUID,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserSourceMock)
			if tt.setupMocks != nil {
				tt.setupMocks(users)
			}

			policy := NewPolicy(users)
			assert.Equal(t, tt.want, policy.IsOwner(context.Background(), tt.actor, tt.ownerUID))
			users.AssertExpectations(t)
		})
	}
}
