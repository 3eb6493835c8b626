// Package auth содержит логику регистрации, входа и проверки JWT.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/voucher-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/voucher-marketplace/internal/lib/password"
	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// ErrInvalidCredentials неверное имя пользователя или пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserBlocked учетная запись заблокирована администратором.
var ErrUserBlocked = errors.New("user account is blocked")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateUserPassword сохраняет новый хэш пароля.
	UpdateUserPassword(ctx context.Context, userUID, passwordHash string) error
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля,
// дефолтной ролью USER, нулевым балансом и активной учетной записью.
func (s *Service) Register(ctx context.Context, username, rawPassword, phoneNumber string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Username:     username,
		PasswordHash: hashed,
		Role:         models.RoleUser,
		PhoneNumber:  phoneNumber,
		Balance:      decimal.Zero,
		Active:       true,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
// Вход заблокированного пользователя отклоняется.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	if !user.Active {
		return "", "", ErrUserBlocked
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, string(user.Role), user.UUID)
	if err != nil {
		return "", "", err
	}
	return token, string(user.Role), nil
}

// ValidateToken проверяет JWT и возвращает идентичность актора.
func (s *Service) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Username: claims.Username,
		Role:     role,
		UUID:     claims.UserUID,
	}, nil
}

// ChangePassword меняет пароль пользователя после проверки старого.
func (s *Service) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	const op = "auth.ChangePassword"
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := password.CompareHash(user.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.users.UpdateUserPassword(ctx, user.UUID, hashed)
}
