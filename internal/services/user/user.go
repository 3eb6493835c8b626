// Package user содержит административную логику управления учетными
// записями: список, блокировку и разблокировку, смену роли.
package user

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// Repository определяет методы для работы с пользователями в хранилище.
type Repository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetUserByUsername возвращает пользователя по имени.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// ListUsers возвращает пользователей с пагинацией.
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	// SetUserActive включает или блокирует учетную запись.
	SetUserActive(ctx context.Context, userUID string, active bool) error
	// UpdateUserRole меняет роль пользователя.
	UpdateUserRole(ctx context.Context, userUID string, role models.Role) error
}

// Service реализует административные операции над пользователями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// GetByUsername возвращает пользователя по имени.
func (s *Service) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetUserByUsername(ctx, username)
}

// List возвращает пользователей с пагинацией.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.repo.ListUsers(ctx, limit, offset)
}

// Block блокирует учетную запись: пользователь теряет возможность входа.
func (s *Service) Block(ctx context.Context, username string) error {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.repo.SetUserActive(ctx, user.UUID, false); err != nil {
		return err
	}
	s.log.Info("user blocked", slog.String("username", username))
	return nil
}

// Unblock снимает блокировку учетной записи.
func (s *Service) Unblock(ctx context.Context, username string) error {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.repo.SetUserActive(ctx, user.UUID, true); err != nil {
		return err
	}
	s.log.Info("user unblocked", slog.String("username", username))
	return nil
}

// ChangeRole меняет роль пользователя. Строка роли проверяется на
// принадлежность закрытому набору.
func (s *Service) ChangeRole(ctx context.Context, username, role string) error {
	parsed, err := models.ParseRole(role)
	if err != nil {
		return err
	}
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateUserRole(ctx, user.UUID, parsed); err != nil {
		return err
	}
	s.log.Info("user role changed",
		slog.String("username", username), slog.String("role", string(parsed)))
	return nil
}
