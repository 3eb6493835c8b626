package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherPatch описывает частичное обновление ваучера администратором.
//
// Семантика merge-patch: nil-поле означает "оставить как есть",
// ненулевое — перезаписать. Назначение OwnerID напрямую меняет владельца
// без движения денег — это административная коррекция, баланс она не
// трогает.
type VoucherPatch struct {
	Title        *string        `json:"title"`
	Description  *string        `json:"description"`
	Price        *string        `json:"price"`
	TourType     *string        `json:"tour_type"`
	TransferType *string        `json:"transfer_type"`
	HotelType    *string        `json:"hotel_type"`
	Status       *string        `json:"status"`
	ArrivalDate  *string        `json:"arrival_date"`
	EvictionDate *string        `json:"eviction_date"`
	OwnerID      *string        `json:"owner_id"`
	IsHot        *bool          `json:"is_hot"`
}

// ApplyStrings переносит в ваучер простые строковые поля патча.
// Поля-перечисления, цена, даты и владелец проверяются и применяются
// на уровне сервиса, так как требуют валидации.
func (p *VoucherPatch) ApplyStrings(v *Voucher) {
	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.IsHot != nil {
		v.IsHot = *p.IsHot
	}
}

// SearchFilter параметры поиска ваучеров. Пустые строки означают
// отсутствие фильтра по соответствующему полю.
type SearchFilter struct {
	TourType     string
	TransferType string
	HotelType    string
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
	Limit        int
	Offset       int
}

// BookingEvent событие изменения брони, публикуемое в очередь
// уведомлений после фиксации транзакции.
type BookingEvent struct {
	VoucherID  string          `json:"voucher_id"`
	Username   string          `json:"username"`
	Action     string          `json:"action"` // ordered, canceled, paid
	Price      decimal.Decimal `json:"price"`
	OccurredAt time.Time       `json:"occurred_at"`
}
