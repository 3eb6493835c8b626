// Package models содержит доменные структуры маркетплейса туристических
// ваучеров: пользователей, ваучеры и вспомогательные типы для работы
// с данными из внешних источников (например, JSON-запросы).
package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Role роль пользователя в системе. Закрытый набор значений.
type Role string

// Допустимые роли пользователей.
const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

// ParseRole разбирает строку с ролью без учета регистра.
// Возвращает ошибку, если роль не входит в закрытый набор.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(s) {
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleManager):
		return RoleManager, nil
	case string(RoleUser):
		return RoleUser, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
}

// User представляет зарегистрированного пользователя системы.
//
// Баланс хранится как decimal с фиксированной точностью и после любой
// завершенной операции не может быть отрицательным. Список ваучеров
// пользователя в структуре не хранится: владение записано на ваучере
// и выбирается отдельным запросом.
type User struct {
	UUID         string          // Уникальный идентификатор пользователя
	Username     string          // Имя пользователя (уникальное)
	PasswordHash string          `json:"-"` // Хэш пароля пользователя
	Role         Role            // Роль пользователя: ADMIN, MANAGER или USER
	PhoneNumber  string          // Контактный телефон
	Balance      decimal.Decimal // Денежный баланс пользователя
	Active       bool            // Признак активности учетной записи
}
