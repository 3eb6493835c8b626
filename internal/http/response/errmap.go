package response

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// FromDomainError отображает типизированную доменную ошибку в HTTP-статус
// и тело ответа. Отказ авторизации отображается в 403 отдельно от
// доменных ошибок, чтобы клиент мог различать их независимо.
// Неизвестная ошибка скрывается за 500 без деталей.
func FromDomainError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, Error(err.Error())
	case errors.Is(err, models.ErrAlreadyBooked):
		return http.StatusConflict, Error(err.Error())
	case errors.Is(err, models.ErrInsufficientFunds):
		return http.StatusPaymentRequired, Error(err.Error())
	case errors.Is(err, models.ErrNotOwner):
		return http.StatusForbidden, Error(err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusForbidden, Error(err.Error())
	case errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict, Error(err.Error())
	case errors.Is(err, models.ErrInvalidAmount):
		return http.StatusBadRequest, Error(err.Error())
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest, Error(err.Error())
	case errors.Is(err, models.ErrDuplicateUsername):
		return http.StatusConflict, Error(err.Error())
	default:
		return http.StatusInternalServerError, Error("internal error")
	}
}
