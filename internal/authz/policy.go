// Package authz реализует модель прав доступа: статическую таблицу
// разрешений по ролям и предикат владения ресурсом.
//
// Решение о допуске — чистая функция над ролью и разрешением плюс,
// при необходимости, одно чтение владельца ресурса. Отказ всегда
// возвращается как models.ErrUnauthorized, отдельно от доменных ошибок.
package authz

import (
	"context"

	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// Permission действие, на которое выдается разрешение.
type Permission string

// Разрешения, известные системе. Разрешения группы user: действуют
// только над собственными ресурсами актора, это проверяется предикатом
// владения на уровне операций.
const (
	AdminRead     Permission = "admin:read"
	AdminCreate   Permission = "admin:create"
	AdminUpdate   Permission = "admin:update"
	AdminDelete   Permission = "admin:delete"
	ManagerUpdate Permission = "manager:update"
	UserRead      Permission = "user:read"
	UserUpdate    Permission = "user:update"
	UserCreate    Permission = "user:create"
	UserDelete    Permission = "user:delete"
)

// rolePermissions фиксированная таблица разрешений по ролям.
// Разрешается только то, что перечислено: неизвестная роль не имеет
// ни одного разрешения.
var rolePermissions = map[models.Role]map[Permission]struct{}{
	models.RoleAdmin: {
		AdminRead: {}, AdminCreate: {}, AdminUpdate: {}, AdminDelete: {},
		ManagerUpdate: {},
		UserRead:      {}, UserUpdate: {}, UserCreate: {}, UserDelete: {},
	},
	models.RoleManager: {
		ManagerUpdate: {},
		UserRead:      {}, UserUpdate: {}, UserCreate: {}, UserDelete: {},
	},
	models.RoleUser: {
		UserRead: {}, UserUpdate: {}, UserCreate: {}, UserDelete: {},
	},
}

// Allowed отвечает, дает ли роль указанное разрешение.
func Allowed(role models.Role, perm Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = perms[perm]
	return ok
}

// Check возвращает models.ErrUnauthorized, если роль не дает разрешения.
func Check(role models.Role, perm Permission) error {
	if !Allowed(role, perm) {
		return models.ErrUnauthorized
	}
	return nil
}

// UserSource читает пользователей для предиката владения.
type UserSource interface {
	// GetUser возвращает пользователя по его UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Policy проверяет владение ресурсом через чтение владельца.
type Policy struct {
	users UserSource
}

// NewPolicy создает Policy поверх источника пользователей.
func NewPolicy(users UserSource) *Policy {
	return &Policy{users: users}
}

// IsOwner сообщает, принадлежит ли ресурс с владельцем ownerUID актору
// actorUsername. Не возвращает ошибку: при пустом или неразрешимом
// идентификаторе владение считается не подтвержденным.
func (p *Policy) IsOwner(ctx context.Context, actorUsername string, ownerUID *string) bool {
	if ownerUID == nil || *ownerUID == "" || actorUsername == "" {
		return false
	}
	owner, err := p.users.GetUser(ctx, *ownerUID)
	if err != nil {
		return false
	}
	return owner.Username == actorUsername
}
