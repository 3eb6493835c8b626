// Package voucher содержит бизнес-логику операторских операций над
// ваучерами: создание, чтение с кешированием, поиск, merge-patch
// обновление, смену статуса, промо-флаг и защищенное удаление.
package voucher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// Repository определяет методы для работы с ваучерами в хранилище.
type Repository interface {
	// CreateVoucher добавляет новый ваучер и возвращает его UID.
	CreateVoucher(ctx context.Context, v models.Voucher) (string, error)
	// GetVoucher возвращает ваучер по UID.
	GetVoucher(ctx context.Context, voucherUID string) (*models.Voucher, error)
	// ListVouchers возвращает все ваучеры с пагинацией, горящие первыми.
	ListVouchers(ctx context.Context, limit, offset int) ([]*models.Voucher, error)
	// ListVouchersByOwner возвращает ваучеры пользователя с пагинацией.
	ListVouchersByOwner(ctx context.Context, ownerUID string, limit, offset int) ([]*models.Voucher, error)
	// SearchVouchers возвращает ваучеры по фильтру.
	SearchVouchers(ctx context.Context, filter models.SearchFilter) ([]*models.Voucher, error)
	// UpdateVoucher перезаписывает изменяемые поля ваучера.
	UpdateVoucher(ctx context.Context, v models.Voucher) error
	// UpdateVoucherStatus меняет только статус ваучера.
	UpdateVoucherStatus(ctx context.Context, voucherUID string, status models.VoucherStatus) error
	// UpdateVoucherHot меняет только промо-флаг.
	UpdateVoucherHot(ctx context.Context, voucherUID string, isHot bool) error
	// DeleteVoucher удаляет ваучер, возвращает количество удаленных записей.
	DeleteVoucher(ctx context.Context, voucherUID string) (int, error)
	// UserExists сообщает, существует ли пользователь.
	UserExists(ctx context.Context, userUID string) (bool, error)
}

// Cache описывает методы для кэширования карточек ваучеров.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// legalTransitions допустимые смены статуса для менеджера.
// Администратор таблицей не ограничен: принудительная смена статуса —
// явный административный обход, деньги при этом не движутся.
var legalTransitions = map[models.VoucherStatus][]models.VoucherStatus{
	models.StatusRegistered: {models.StatusPaid, models.StatusCanceled},
	models.StatusPaid:       {models.StatusCanceled},
	models.StatusCanceled:   {models.StatusRegistered},
}

// Service реализует операторскую логику работы с ваучерами.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает новый ваучер из данных запроса и возвращает его UID.
func (s *Service) Create(ctx context.Context, req models.DummyVoucher) (string, error) {
	voucher, err := fromRequest(req)
	if err != nil {
		return "", err
	}

	uid, err := s.repo.CreateVoucher(ctx, *voucher)
	if err != nil {
		return "", err
	}
	s.log.Info("created new voucher", slog.String("uid", uid))
	return uid, nil
}

// Read возвращает ваучер по UID, используя кеш или репозиторий.
func (s *Service) Read(ctx context.Context, voucherUID string) (*models.Voucher, error) {
	var result *models.Voucher
	cacheKey := "voucher:" + voucherUID
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetVoucher(ctx, voucherUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache voucher", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// List возвращает все ваучеры с пагинацией, горящие туры первыми.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.Voucher, error) {
	return s.repo.ListVouchers(ctx, limit, offset)
}

// ListByOwner возвращает ваучеры, принадлежащие пользователю,
// с пагинацией.
func (s *Service) ListByOwner(ctx context.Context, ownerUID string, limit, offset int) ([]*models.Voucher, error) {
	return s.repo.ListVouchersByOwner(ctx, ownerUID, limit, offset)
}

// Search возвращает ваучеры по необязательным фильтрам типа, трансфера,
// отеля и диапазона цены.
func (s *Service) Search(ctx context.Context, filter models.SearchFilter) ([]*models.Voucher, error) {
	if filter.TourType != "" {
		if _, err := models.ParseTourType(filter.TourType); err != nil {
			return nil, err
		}
	}
	if filter.TransferType != "" {
		if _, err := models.ParseTransferType(filter.TransferType); err != nil {
			return nil, err
		}
	}
	if filter.HotelType != "" {
		if _, err := models.ParseHotelType(filter.HotelType); err != nil {
			return nil, err
		}
	}
	return s.repo.SearchVouchers(ctx, filter)
}

// Update применяет merge-patch к ваучеру: заданные поля патча
// перезаписывают текущие значения, отсутствующие остаются как есть.
//
// Назначение OwnerID напрямую меняет владельца без движения денег —
// административная коррекция. Ссылка на несуществующего пользователя —
// ошибка models.ErrUserNotFound. Пустая строка в OwnerID снимает
// владельца.
func (s *Service) Update(ctx context.Context, voucherUID string, patch models.VoucherPatch) (*models.Voucher, error) {
	voucher, err := s.repo.GetVoucher(ctx, voucherUID)
	if err != nil {
		return nil, err
	}

	patch.ApplyStrings(voucher)

	if patch.Price != nil {
		price, err := parsePrice(*patch.Price)
		if err != nil {
			return nil, err
		}
		voucher.Price = price
	}
	if patch.TourType != nil {
		if voucher.TourType, err = models.ParseTourType(*patch.TourType); err != nil {
			return nil, err
		}
	}
	if patch.TransferType != nil {
		if voucher.TransferType, err = models.ParseTransferType(*patch.TransferType); err != nil {
			return nil, err
		}
	}
	if patch.HotelType != nil {
		if voucher.HotelType, err = models.ParseHotelType(*patch.HotelType); err != nil {
			return nil, err
		}
	}
	if patch.Status != nil {
		if voucher.Status, err = models.ParseVoucherStatus(*patch.Status); err != nil {
			return nil, err
		}
	}
	if patch.ArrivalDate != nil {
		if voucher.ArrivalDate, err = parseDate(*patch.ArrivalDate); err != nil {
			return nil, err
		}
	}
	if patch.EvictionDate != nil {
		if voucher.EvictionDate, err = parseDate(*patch.EvictionDate); err != nil {
			return nil, err
		}
	}
	if voucher.EvictionDate.Before(voucher.ArrivalDate) {
		return nil, fmt.Errorf("%w: eviction date must not be earlier than arrival date", models.ErrInvalidInput)
	}

	if patch.OwnerID != nil {
		if *patch.OwnerID == "" {
			voucher.OwnerID = nil
			voucher.OwnerUsername = ""
		} else {
			exists, err := s.repo.UserExists(ctx, *patch.OwnerID)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, models.ErrUserNotFound
			}
			voucher.OwnerID = patch.OwnerID
		}
	}

	if err := s.repo.UpdateVoucher(ctx, *voucher); err != nil {
		return nil, err
	}
	s.invalidate(voucherUID)
	s.log.Info("voucher updated", slog.String("uid", voucherUID))
	return voucher, nil
}

// ChangeStatus меняет статус ваучера. Менеджер ограничен таблицей
// допустимых переходов, администратор может выставить любой статус.
// Денег операция не двигает.
func (s *Service) ChangeStatus(ctx context.Context, voucherUID, status string, actorRole models.Role) (*models.Voucher, error) {
	target, err := models.ParseVoucherStatus(status)
	if err != nil {
		return nil, err
	}

	voucher, err := s.repo.GetVoucher(ctx, voucherUID)
	if err != nil {
		return nil, err
	}

	if actorRole != models.RoleAdmin && !transitionAllowed(voucher.Status, target) {
		return nil, models.ErrInvalidTransition
	}

	if err := s.repo.UpdateVoucherStatus(ctx, voucherUID, target); err != nil {
		return nil, err
	}
	voucher.Status = target
	s.invalidate(voucherUID)
	s.log.Info("voucher status changed",
		slog.String("uid", voucherUID), slog.String("status", string(target)))
	return voucher, nil
}

// ChangeHotStatus переключает промо-флаг. На жизненный цикл брони
// флаг не влияет.
func (s *Service) ChangeHotStatus(ctx context.Context, voucherUID string, isHot bool) (*models.Voucher, error) {
	voucher, err := s.repo.GetVoucher(ctx, voucherUID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateVoucherHot(ctx, voucherUID, isHot); err != nil {
		return nil, err
	}
	voucher.IsHot = isHot
	s.invalidate(voucherUID)
	return voucher, nil
}

// Delete удаляет ваучер. Ваучер с владельцем удалить нельзя —
// возвращается models.ErrAlreadyBooked.
func (s *Service) Delete(ctx context.Context, voucherUID string) error {
	voucher, err := s.repo.GetVoucher(ctx, voucherUID)
	if err != nil {
		return err
	}
	if voucher.Booked() {
		return models.ErrAlreadyBooked
	}
	count, err := s.repo.DeleteVoucher(ctx, voucherUID)
	if err != nil {
		return err
	}
	if count == 0 {
		return models.ErrVoucherNotFound
	}
	s.invalidate(voucherUID)
	s.log.Info("voucher deleted", slog.String("uid", voucherUID))
	return nil
}

func (s *Service) invalidate(voucherUID string) {
	cacheKey := "voucher:" + voucherUID
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}

func transitionAllowed(from, to models.VoucherStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// fromRequest конвертирует данные запроса в доменный ваучер.
func fromRequest(req models.DummyVoucher) (*models.Voucher, error) {
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}
	tourType, err := models.ParseTourType(req.TourType)
	if err != nil {
		return nil, err
	}
	transferType, err := models.ParseTransferType(req.TransferType)
	if err != nil {
		return nil, err
	}
	hotelType, err := models.ParseHotelType(req.HotelType)
	if err != nil {
		return nil, err
	}
	arrival, err := parseDate(req.ArrivalDate)
	if err != nil {
		return nil, err
	}
	eviction, err := parseDate(req.EvictionDate)
	if err != nil {
		return nil, err
	}
	if eviction.Before(arrival) {
		return nil, fmt.Errorf("%w: eviction date must not be earlier than arrival date", models.ErrInvalidInput)
	}

	return &models.Voucher{
		Title:        req.Title,
		Description:  req.Description,
		Price:        price,
		TourType:     tourType,
		TransferType: transferType,
		HotelType:    hotelType,
		Status:       models.StatusRegistered,
		ArrivalDate:  arrival,
		EvictionDate: eviction,
		IsHot:        req.IsHot,
	}, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad price: %v", models.ErrInvalidInput, err)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: price must be positive", models.ErrInvalidInput)
	}
	return price, nil
}

func parseDate(raw string) (time.Time, error) {
	date, err := time.Parse("02-01-2006", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date: %v", models.ErrInvalidInput, err)
	}
	return date, nil
}
