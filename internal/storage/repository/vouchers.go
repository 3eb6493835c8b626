package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// voucherColumns список колонок ваучера вместе с именем владельца
// из LEFT JOIN на users.
const voucherColumns = `v.uid, v.title, v.description, v.price, v.tour_type,
			      v.transfer_type, v.hotel_type, v.status, v.arrival_date,
			      v.eviction_date, v.owner_uid, COALESCE(u.username, ''), v.is_hot`

// scanVoucher читает одну строку выборки ваучера.
func scanVoucher(row interface{ Scan(dest ...any) error }) (*models.Voucher, error) {
	v := &models.Voucher{}
	var ownerUID sql.NullString
	if err := row.Scan(&v.UUID, &v.Title, &v.Description, &v.Price, &v.TourType,
		&v.TransferType, &v.HotelType, &v.Status, &v.ArrivalDate,
		&v.EvictionDate, &ownerUID, &v.OwnerUsername, &v.IsHot); err != nil {
		return nil, err
	}
	if ownerUID.Valid {
		v.OwnerID = &ownerUID.String
	}
	return v, nil
}

// CreateVoucher вставляет новый ваучер и возвращает его UID.
func (s *Storage) CreateVoucher(ctx context.Context, v models.Voucher) (string, error) {
	const op = "storage.CreateVoucher"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO vouchers (title, description, price, tour_type, transfer_type,
			      hotel_type, status, arrival_date, eviction_date, is_hot)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		v.Title, v.Description, v.Price, v.TourType, v.TransferType,
		v.HotelType, v.Status, v.ArrivalDate, v.EvictionDate, v.IsHot).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetVoucher возвращает ваучер по его UID.
func (s *Storage) GetVoucher(ctx context.Context, voucherUID string) (*models.Voucher, error) {
	const op = "storage.GetVoucher"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + voucherColumns + `
			  FROM vouchers v
			  LEFT JOIN users u ON u.uid = v.owner_uid
			  WHERE v.uid = $1`
	v, err := scanVoucher(s.DB.QueryRowContext(ctx, query, voucherUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrVoucherNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// ListVouchers возвращает все ваучеры с пагинацией, горящие туры первыми.
func (s *Storage) ListVouchers(ctx context.Context, limit, offset int) ([]*models.Voucher, error) {
	const op = "storage.ListVouchers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + voucherColumns + `
			  FROM vouchers v
			  LEFT JOIN users u ON u.uid = v.owner_uid
			  ORDER BY v.is_hot DESC, v.arrival_date
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListVouchersByOwner возвращает ваучеры, принадлежащие пользователю,
// с пагинацией.
func (s *Storage) ListVouchersByOwner(ctx context.Context, ownerUID string, limit, offset int) ([]*models.Voucher, error) {
	const op = "storage.ListVouchersByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + voucherColumns + `
			  FROM vouchers v
			  LEFT JOIN users u ON u.uid = v.owner_uid
			  WHERE v.owner_uid = $1
			  ORDER BY v.arrival_date
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, ownerUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SearchVouchers возвращает ваучеры по набору необязательных фильтров,
// горящие туры первыми.
func (s *Storage) SearchVouchers(ctx context.Context, filter models.SearchFilter) ([]*models.Voucher, error) {
	const op = "storage.SearchVouchers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var conditions []string
	var args []any
	next := func() string { return "$" + strconv.Itoa(len(args)) }

	if filter.TourType != "" {
		args = append(args, filter.TourType)
		conditions = append(conditions, "v.tour_type = "+next())
	}
	if filter.TransferType != "" {
		args = append(args, filter.TransferType)
		conditions = append(conditions, "v.transfer_type = "+next())
	}
	if filter.HotelType != "" {
		args = append(args, filter.HotelType)
		conditions = append(conditions, "v.hotel_type = "+next())
	}
	if filter.PriceMin != nil {
		args = append(args, *filter.PriceMin)
		conditions = append(conditions, "v.price >= "+next())
	}
	if filter.PriceMax != nil {
		args = append(args, *filter.PriceMax)
		conditions = append(conditions, "v.price <= "+next())
	}

	query := `SELECT ` + voucherColumns + `
			  FROM vouchers v
			  LEFT JOIN users u ON u.uid = v.owner_uid`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.Limit)
	query += " ORDER BY v.is_hot DESC, v.arrival_date LIMIT " + next()
	args = append(args, filter.Offset)
	query += " OFFSET " + next()

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateVoucher перезаписывает все изменяемые поля ваучера.
// Слияние патча с текущими значениями выполняет сервисный слой.
func (s *Storage) UpdateVoucher(ctx context.Context, v models.Voucher) error {
	const op = "storage.UpdateVoucher"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE vouchers
			  SET title = $1, description = $2, price = $3, tour_type = $4,
			      transfer_type = $5, hotel_type = $6, status = $7,
			      arrival_date = $8, eviction_date = $9, owner_uid = $10, is_hot = $11
			  WHERE uid = $12`
	var ownerUID any
	if v.OwnerID != nil {
		ownerUID = *v.OwnerID
	}
	res, err := s.DB.ExecContext(ctx, query,
		v.Title, v.Description, v.Price, v.TourType, v.TransferType,
		v.HotelType, v.Status, v.ArrivalDate, v.EvictionDate, ownerUID, v.IsHot, v.UUID)
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

// UpdateVoucherStatus меняет только статус ваучера.
func (s *Storage) UpdateVoucherStatus(ctx context.Context, voucherUID string, status models.VoucherStatus) error {
	const op = "storage.UpdateVoucherStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE vouchers SET status = $1 WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, status, voucherUID)
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

// UpdateVoucherHot меняет только промо-флаг ваучера.
func (s *Storage) UpdateVoucherHot(ctx context.Context, voucherUID string, isHot bool) error {
	const op = "storage.UpdateVoucherHot"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE vouchers SET is_hot = $1 WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, isHot, voucherUID)
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

// DeleteVoucher удаляет ваучер по UID. Возвращает количество удаленных записей.
func (s *Storage) DeleteVoucher(ctx context.Context, voucherUID string) (int, error) {
	const op = "storage.DeleteVoucher"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM vouchers WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, voucherUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}
