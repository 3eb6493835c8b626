package models

import (
	"errors"
	"fmt"
)

// Типизированные доменные ошибки движка бронирования и слоя авторизации.
// Сервисы возвращают их напрямую, хендлеры отображают в HTTP-статусы,
// не теряя различие между отказом авторизации и доменной ошибкой.
var (
	// ErrNotFound базовая ошибка "сущность не найдена".
	ErrNotFound = errors.New("entity not found")

	// ErrUserNotFound пользователь с таким id или username не найден.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrVoucherNotFound ваучер с таким id не найден.
	ErrVoucherNotFound = fmt.Errorf("%w: voucher", ErrNotFound)

	// ErrAlreadyBooked заказ ваучера, у которого уже есть владелец.
	// Возвращается и при попытке удалить ваучер с владельцем.
	ErrAlreadyBooked = errors.New("voucher is already booked")

	// ErrInsufficientFunds баланс покупателя меньше цены ваучера.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotOwner операция над бронью доступна только ее владельцу.
	ErrNotOwner = errors.New("user is not the owner of this voucher")

	// ErrUnauthorized отказ проверки прав: роль не дает разрешения
	// на действие.
	ErrUnauthorized = errors.New("operation is not permitted for this role")

	// ErrInvalidTransition смена статуса недопустима из текущего
	// состояния ваучера.
	ErrInvalidTransition = errors.New("status transition is not allowed")

	// ErrInvalidAmount изменение баланса сделало бы его отрицательным.
	ErrInvalidAmount = errors.New("balance must not become negative")

	// ErrDuplicateUsername пользователь с таким именем уже существует.
	ErrDuplicateUsername = errors.New("username is already taken")

	// ErrInvalidInput входные данные не прошли доменную валидацию:
	// неизвестное значение перечисления, неположительная цена,
	// дата в неверном формате.
	ErrInvalidInput = errors.New("invalid input")
)
