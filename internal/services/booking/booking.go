// Package booking содержит транзакционное ядро маркетплейса:
// заказ ваучера, отмену брони, оплату и изменение баланса.
//
// Каждая операция исполняется как одна транзакция: строки ваучера и
// пользователя читаются с блокировкой, проверяются инварианты, затем
// обе записи меняются атомарно. Отказ любой проверки откатывает все:
// снаружи никогда не видно списанных денег без записанного владельца
// и наоборот.
package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/voucher-marketplace/internal/metrics"
	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
	"github.com/magabrotheeeer/voucher-marketplace/internal/storage/repository"
)

// Repository открывает транзакции движка бронирования.
type Repository interface {
	// WithinTransaction исполняет fn атомарно, откатывая изменения при ошибке.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error
}

// Cache описывает инвалидацию кеша карточек ваучеров.
type Cache interface {
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventPublisher публикует события бронирования после фиксации транзакции.
type EventPublisher interface {
	Publish(event models.BookingEvent) error
}

// OwnershipChecker отвечает, владеет ли актор ресурсом с данным
// владельцем. Имена пользователей неизменяемы, поэтому проверку
// можно выполнять вне блокировки строки владельца.
type OwnershipChecker interface {
	IsOwner(ctx context.Context, actorUsername string, ownerUID *string) bool
}

// Service реализует движок бронирования.
type Service struct {
	repo   Repository
	cache  Cache
	events EventPublisher
	policy OwnershipChecker
	log    *slog.Logger
}

// New создает новый Service.
func New(repo Repository, cache Cache, events EventPublisher, policy OwnershipChecker, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		events: events,
		policy: policy,
		log:    log,
	}
}

// Order бронирует свободный ваучер за покупателя и списывает его цену
// с баланса.
//
// Отказы: models.ErrVoucherNotFound и models.ErrUserNotFound, если
// сущности не найдены; models.ErrAlreadyBooked, если у ваучера уже есть
// владелец; models.ErrInsufficientFunds, если баланс меньше цены.
// Из двух конкурирующих заказов одного ваучера успешен ровно один,
// второй получает ErrAlreadyBooked.
func (s *Service) Order(ctx context.Context, voucherUID, buyerUID string) (*models.Voucher, error) {
	var ordered *models.Voucher
	var buyerName string

	err := s.repo.WithinTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		voucher, err := tx.GetVoucherForUpdate(ctx, voucherUID)
		if err != nil {
			return err
		}
		if voucher.Booked() {
			return models.ErrAlreadyBooked
		}

		buyer, err := tx.GetUserForUpdate(ctx, buyerUID)
		if err != nil {
			return err
		}
		if buyer.Balance.LessThan(voucher.Price) {
			return models.ErrInsufficientFunds
		}

		if err := tx.UpdateUserBalance(ctx, buyer.UUID, buyer.Balance.Sub(voucher.Price)); err != nil {
			return err
		}
		if err := tx.SetVoucherOwner(ctx, voucher.UUID, &buyer.UUID, models.StatusRegistered); err != nil {
			return err
		}

		voucher.OwnerID = &buyer.UUID
		voucher.OwnerUsername = buyer.Username
		voucher.Status = models.StatusRegistered
		ordered = voucher
		buyerName = buyer.Username
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersTotal.Inc()
	s.invalidate(voucherUID)
	s.publish("ordered", ordered, buyerName)

	s.log.Info("voucher ordered",
		slog.String("voucher_uid", voucherUID), slog.String("buyer", buyerName))
	return ordered, nil
}

// Cancel отменяет бронь: возвращает цену на баланс владельца, снимает
// владельца и переводит ваучер в CANCELED.
//
// Операция доступна текущему владельцу и администратору; владение
// сверяется по идентификатору пользователя. Возврат всегда зачисляется
// владельцу брони, даже если отменяет администратор.
func (s *Service) Cancel(ctx context.Context, voucherUID, actingUsername string, actorRole models.Role) (*models.Voucher, error) {
	var canceled *models.Voucher
	var ownerName string

	err := s.repo.WithinTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		voucher, err := tx.GetVoucherForUpdate(ctx, voucherUID)
		if err != nil {
			return err
		}
		if !voucher.Booked() {
			return models.ErrNotOwner
		}

		if !s.policy.IsOwner(ctx, actingUsername, voucher.OwnerID) && actorRole != models.RoleAdmin {
			return models.ErrNotOwner
		}

		// Возврат всегда зачисляется владельцу брони.
		owner, err := tx.GetUserForUpdate(ctx, *voucher.OwnerID)
		if err != nil {
			return err
		}

		if err := tx.UpdateUserBalance(ctx, owner.UUID, owner.Balance.Add(voucher.Price)); err != nil {
			return err
		}
		if err := tx.SetVoucherOwner(ctx, voucher.UUID, nil, models.StatusCanceled); err != nil {
			return err
		}

		voucher.OwnerID = nil
		voucher.OwnerUsername = ""
		voucher.Status = models.StatusCanceled
		canceled = voucher
		ownerName = owner.Username
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CancellationsTotal.Inc()
	s.invalidate(voucherUID)
	s.publish("canceled", canceled, ownerName)

	s.log.Info("booking canceled",
		slog.String("voucher_uid", voucherUID), slog.String("owner", ownerName))
	return canceled, nil
}

// Pay переводит забронированный ваучер в статус PAID. Деньги при этом
// не движутся: цена уже списана в момент заказа. Повторная оплата уже
// оплаченного ваучера — успешный no-op.
//
// Отказы: models.ErrVoucherNotFound; models.ErrNotOwner, если ваучер
// свободен или актор не его владелец (администратору разрешено).
func (s *Service) Pay(ctx context.Context, voucherUID, actingUsername string, actorRole models.Role) (*models.Voucher, error) {
	var paid *models.Voucher
	alreadyPaid := false

	err := s.repo.WithinTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		voucher, err := tx.GetVoucherForUpdate(ctx, voucherUID)
		if err != nil {
			return err
		}
		if !voucher.Booked() {
			return models.ErrNotOwner
		}

		if !s.policy.IsOwner(ctx, actingUsername, voucher.OwnerID) && actorRole != models.RoleAdmin {
			return models.ErrNotOwner
		}

		if voucher.Status == models.StatusPaid {
			alreadyPaid = true
			paid = voucher
			return nil
		}

		if err := tx.UpdateVoucherStatus(ctx, voucher.UUID, models.StatusPaid); err != nil {
			return err
		}
		voucher.Status = models.StatusPaid
		paid = voucher
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !alreadyPaid {
		metrics.PaymentsTotal.Inc()
		s.invalidate(voucherUID)
		s.publish("paid", paid, actingUsername)
	}

	s.log.Info("booking paid",
		slog.String("voucher_uid", voucherUID), slog.Bool("already_paid", alreadyPaid))
	return paid, nil
}

// UpdateBalance применяет delta к балансу пользователя: положительное
// значение — пополнение. Возвращает models.ErrInvalidAmount, если
// баланс стал бы отрицательным, и обновленного пользователя при успехе.
func (s *Service) UpdateBalance(ctx context.Context, username string, delta decimal.Decimal) (*models.User, error) {
	var updated *models.User

	err := s.repo.WithinTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		user, err := tx.GetUserByUsernameForUpdate(ctx, username)
		if err != nil {
			return err
		}
		newBalance := user.Balance.Add(delta)
		if newBalance.IsNegative() {
			return models.ErrInvalidAmount
		}
		if err := tx.UpdateUserBalance(ctx, user.UUID, newBalance); err != nil {
			return err
		}
		user.Balance = newBalance
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("balance updated",
		slog.String("username", username), slog.String("delta", delta.String()))
	return updated, nil
}

func (s *Service) invalidate(voucherUID string) {
	cacheKey := "voucher:" + voucherUID
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}

func (s *Service) publish(action string, voucher *models.Voucher, username string) {
	event := models.BookingEvent{
		VoucherID:  voucher.UUID,
		Username:   username,
		Action:     action,
		Price:      voucher.Price,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(event); err != nil {
		s.log.Warn("failed to publish booking event", slog.String("action", action), slog.Any("err", err))
	}
}
