package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TourType тип тура. Закрытый набор значений.
type TourType string

// Допустимые типы туров.
const (
	TourHealth    TourType = "HEALTH"
	TourSports    TourType = "SPORTS"
	TourLeisure   TourType = "LEISURE"
	TourEco       TourType = "ECO"
	TourAdventure TourType = "ADVENTURE"
	TourCultural  TourType = "CULTURAL"
	TourSafari    TourType = "SAFARI"
	TourWine      TourType = "WINE"
)

// TransferType тип трансфера до места отдыха.
type TransferType string

// Допустимые типы трансфера.
const (
	TransferBus        TransferType = "BUS"
	TransferTrain      TransferType = "TRAIN"
	TransferPlane      TransferType = "PLANE"
	TransferShip       TransferType = "SHIP"
	TransferPrivateCar TransferType = "PRIVATE_CAR"
	TransferMinibus    TransferType = "MINIBUS"
	TransferJeeps      TransferType = "JEEPS"
)

// HotelType категория отеля.
type HotelType string

// Допустимые категории отелей.
const (
	HotelOneStar    HotelType = "ONE_STAR"
	HotelTwoStars   HotelType = "TWO_STARS"
	HotelThreeStars HotelType = "THREE_STARS"
	HotelFourStars  HotelType = "FOUR_STARS"
	HotelFiveStars  HotelType = "FIVE_STARS"
)

// VoucherStatus статус ваучера в жизненном цикле бронирования.
type VoucherStatus string

// Состояния ваучера.
//
// REGISTERED — начальное состояние: ваучер доступен для заказа, если
// у него нет владельца, и забронирован в ожидании оплаты, если владелец
// назначен. PAID — бронь оплачена. CANCELED — бронь отменена, владелец
// снят; оператор может вернуть ваучер в REGISTERED.
const (
	StatusRegistered VoucherStatus = "REGISTERED"
	StatusPaid       VoucherStatus = "PAID"
	StatusCanceled   VoucherStatus = "CANCELED"
)

// ParseTourType разбирает тип тура без учета регистра.
func ParseTourType(s string) (TourType, error) {
	switch v := TourType(strings.ToUpper(s)); v {
	case TourHealth, TourSports, TourLeisure, TourEco,
		TourAdventure, TourCultural, TourSafari, TourWine:
		return v, nil
	default:
		return "", fmt.Errorf("%w: unknown tour type %q", ErrInvalidInput, s)
	}
}

// ParseTransferType разбирает тип трансфера без учета регистра.
func ParseTransferType(s string) (TransferType, error) {
	switch v := TransferType(strings.ToUpper(s)); v {
	case TransferBus, TransferTrain, TransferPlane, TransferShip,
		TransferPrivateCar, TransferMinibus, TransferJeeps:
		return v, nil
	default:
		return "", fmt.Errorf("%w: unknown transfer type %q", ErrInvalidInput, s)
	}
}

// ParseHotelType разбирает категорию отеля без учета регистра.
func ParseHotelType(s string) (HotelType, error) {
	switch v := HotelType(strings.ToUpper(s)); v {
	case HotelOneStar, HotelTwoStars, HotelThreeStars,
		HotelFourStars, HotelFiveStars:
		return v, nil
	default:
		return "", fmt.Errorf("%w: unknown hotel type %q", ErrInvalidInput, s)
	}
}

// ParseVoucherStatus разбирает статус ваучера без учета регистра.
func ParseVoucherStatus(s string) (VoucherStatus, error) {
	switch v := VoucherStatus(strings.ToUpper(s)); v {
	case StatusRegistered, StatusPaid, StatusCanceled:
		return v, nil
	default:
		return "", fmt.Errorf("%w: unknown voucher status %q", ErrInvalidInput, s)
	}
}

// Voucher представляет туристический ваучер — пакет поездки с ценой,
// датами и классификацией.
//
// Владение односторонее: OwnerID указывает на пользователя-владельца,
// nil означает, что ваучер не забронирован. Инвариант: владелец может
// быть назначен только в статусах REGISTERED и PAID.
type Voucher struct {
	UUID          string          `json:"uid"`            // Уникальный идентификатор ваучера
	Title         string          `json:"title"`          // Название тура
	Description   string          `json:"description"`    // Описание тура
	Price         decimal.Decimal `json:"price"`          // Цена, строго положительная
	TourType      TourType        `json:"tour_type"`      // Тип тура
	TransferType  TransferType    `json:"transfer_type"`  // Тип трансфера
	HotelType     HotelType       `json:"hotel_type"`     // Категория отеля
	Status        VoucherStatus   `json:"status"`         // Текущий статус жизненного цикла
	ArrivalDate   time.Time       `json:"arrival_date"`   // Дата заезда
	EvictionDate  time.Time       `json:"eviction_date"`  // Дата выезда, не раньше даты заезда
	OwnerID       *string         `json:"owner_id"`       // UUID владельца, nil — ваучер свободен
	OwnerUsername string          `json:"owner_username"` // Имя владельца для проекций, не хранится отдельно
	IsHot         bool            `json:"is_hot"`         // Промо-флаг "горящий тур", не влияет на статус
}

// Booked сообщает, есть ли у ваучера текущий владелец.
func (v *Voucher) Booked() bool {
	return v.OwnerID != nil
}

// DummyVoucher используется для приема данных о новом ваучере из
// JSON-запроса, прежде чем конвертировать их в Voucher.
// Даты приходят в виде строк в формате 02-01-2006, чтобы их можно было
// валидировать и парсить вручную.
type DummyVoucher struct {
	Title        string `json:"title" validate:"required"`                          // Название тура
	Description  string `json:"description" validate:"required"`                    // Описание тура
	Price        string `json:"price" validate:"required"`                          // Цена (> 0), десятичная строка
	TourType     string `json:"tour_type" validate:"required"`                      // Тип тура
	TransferType string `json:"transfer_type" validate:"required"`                  // Тип трансфера
	HotelType    string `json:"hotel_type" validate:"required"`                     // Категория отеля
	ArrivalDate  string `json:"arrival_date" validate:"required,datetime=02-01-2006"`  // Дата заезда
	EvictionDate string `json:"eviction_date" validate:"required,datetime=02-01-2006"` // Дата выезда
	IsHot        bool   `json:"is_hot"`                                             // Промо-флаг
}
