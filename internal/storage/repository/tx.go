package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// Tx операции над строками пользователей и ваучеров внутри одной
// транзакции бронирования. Чтения ForUpdate захватывают блокировку
// строки: конкурирующие заказы одного ваучера сериализуются на ней,
// и ровно один из них видит ваучер свободным.
//
// Блокировки всегда берутся в порядке "ваучер, затем пользователь",
// чтобы встречные операции не взаимоблокировались.
type Tx interface {
	// GetVoucherForUpdate читает ваучер с блокировкой его строки.
	GetVoucherForUpdate(ctx context.Context, voucherUID string) (*models.Voucher, error)
	// GetUserForUpdate читает пользователя по UID с блокировкой строки.
	GetUserForUpdate(ctx context.Context, userUID string) (*models.User, error)
	// GetUserByUsernameForUpdate читает пользователя по имени с блокировкой строки.
	GetUserByUsernameForUpdate(ctx context.Context, username string) (*models.User, error)
	// UpdateUserBalance записывает новый баланс пользователя.
	UpdateUserBalance(ctx context.Context, userUID string, balance decimal.Decimal) error
	// SetVoucherOwner записывает владельца и статус ваучера; nil снимает владельца.
	SetVoucherOwner(ctx context.Context, voucherUID string, ownerUID *string, status models.VoucherStatus) error
	// UpdateVoucherStatus меняет только статус ваучера.
	UpdateVoucherStatus(ctx context.Context, voucherUID string, status models.VoucherStatus) error
}

// WithinTransaction исполняет fn в одной транзакции. При ошибке fn
// или фиксации все изменения откатываются: частичное применение
// (деньги списаны, владелец не записан) никогда не видно снаружи.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	const op = "storage.WithinTransaction"

	sqltx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = sqltx.Rollback()
	}()

	if err := fn(ctx, &bookingTx{tx: sqltx}); err != nil {
		return err
	}
	if err := sqltx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// bookingTx реализация Tx поверх *sql.Tx.
type bookingTx struct {
	tx *sql.Tx
}

func (t *bookingTx) GetVoucherForUpdate(ctx context.Context, voucherUID string) (*models.Voucher, error) {
	const op = "storage.tx.GetVoucherForUpdate"

	query := `SELECT uid, title, description, price, tour_type, transfer_type,
			      hotel_type, status, arrival_date, eviction_date, owner_uid, is_hot
			  FROM vouchers
			  WHERE uid = $1
			  FOR UPDATE`
	v := &models.Voucher{}
	var ownerUID sql.NullString
	row := t.tx.QueryRowContext(ctx, query, voucherUID)
	if err := row.Scan(&v.UUID, &v.Title, &v.Description, &v.Price, &v.TourType,
		&v.TransferType, &v.HotelType, &v.Status, &v.ArrivalDate,
		&v.EvictionDate, &ownerUID, &v.IsHot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrVoucherNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if ownerUID.Valid {
		v.OwnerID = &ownerUID.String
	}
	return v, nil
}

func (t *bookingTx) GetUserForUpdate(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.tx.GetUserForUpdate"

	query := `SELECT uid, username, password_hash, role, phone_number, balance, active
			  FROM users
			  WHERE uid = $1
			  FOR UPDATE`
	return t.scanUser(ctx, op, query, userUID)
}

func (t *bookingTx) GetUserByUsernameForUpdate(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.tx.GetUserByUsernameForUpdate"

	query := `SELECT uid, username, password_hash, role, phone_number, balance, active
			  FROM users
			  WHERE username = $1
			  FOR UPDATE`
	return t.scanUser(ctx, op, query, username)
}

func (t *bookingTx) scanUser(ctx context.Context, op, query string, arg any) (*models.User, error) {
	u := &models.User{}
	row := t.tx.QueryRowContext(ctx, query, arg)
	if err := row.Scan(&u.UUID, &u.Username, &u.PasswordHash,
		&u.Role, &u.PhoneNumber, &u.Balance, &u.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (t *bookingTx) UpdateUserBalance(ctx context.Context, userUID string, balance decimal.Decimal) error {
	const op = "storage.tx.UpdateUserBalance"

	query := `UPDATE users SET balance = $1 WHERE uid = $2`
	res, err := t.tx.ExecContext(ctx, query, balance, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	return nil
}

func (t *bookingTx) SetVoucherOwner(ctx context.Context, voucherUID string, ownerUID *string, status models.VoucherStatus) error {
	const op = "storage.tx.SetVoucherOwner"

	query := `UPDATE vouchers SET owner_uid = $1, status = $2 WHERE uid = $3`
	var owner any
	if ownerUID != nil {
		owner = *ownerUID
	}
	res, err := t.tx.ExecContext(ctx, query, owner, status, voucherUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrVoucherNotFound)
	}
	return nil
}

func (t *bookingTx) UpdateVoucherStatus(ctx context.Context, voucherUID string, status models.VoucherStatus) error {
	const op = "storage.tx.UpdateVoucherStatus"

	query := `UPDATE vouchers SET status = $1 WHERE uid = $2`
	res, err := t.tx.ExecContext(ctx, query, status, voucherUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrVoucherNotFound)
	}
	return nil
}
