// Package cancel реализует HTTP-обработчик отмены брони ваучера.
//
// Отменить бронь может владелец ваучера или администратор. Возврат
// средств выполняется на баланс владельца внутри сервиса бронирования.
package cancel

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/voucher-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/response"
	"github.com/magabrotheeeer/voucher-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// Handler обрабатывает запросы на отмену брони.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены брони.
type Service interface {
	Cancel(ctx context.Context, voucherUID, actingUsername string, actorRole models.Role) (*models.Voucher, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить бронь ваучера
// @Description Отменяет бронь и возвращает средства владельцу. Доступно владельцу или администратору.
// @Tags Bookings
// @Produce  json
// @Param uid path string true "UID ваучера"
// @Success 200 {object} map[string]any "Бронь отменена"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 403 {object} response.ErrorResponse "Нет прав на отмену"
// @Failure 404 {object} response.ErrorResponse "Ваучер не найден"
// @Security BearerAuth
// @Router /vouchers/{uid}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	voucherUID := chi.URLParam(r, "uid")
	if _, err := uuid.Parse(voucherUID); err != nil {
		log.Error("failed to decode uid from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid voucher uid"))
		return
	}

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	role, _ := r.Context().Value(middlewarectx.Role).(models.Role)

	voucher, err := h.service.Cancel(r.Context(), voucherUID, username, role)
	if err != nil {
		log.Error("failed to cancel booking", sl.Err(err))
		status, body := response.FromDomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("booking canceled", slog.String("voucher_uid", voucherUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"voucher": voucher,
	}))
}
