// Package order реализует HTTP-обработчик бронирования ваучера.
//
// Handler извлекает UID ваучера из URL-параметров и UID покупателя из
// контекста, вызывает бизнес-логику заказа и возвращает обновленный
// ваучер в JSON-формате. Списание средств происходит атомарно внутри
// сервиса бронирования.
package order

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

// Handler обрабатывает запросы на бронирование ваучера.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики бронирования
}

// Service описывает интерфейс бизнес-логики заказа.
type Service interface {
	Order(ctx context.Context, voucherUID, buyerUID string) (*models.Voucher, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Забронировать ваучер
// @Description Бронирует свободный ваучер на текущего пользователя и списывает его цену с баланса.
// @Tags Bookings
// @Produce  json
// @Param uid path string true "UID ваучера"
// @Success 200 {object} map[string]any "Ваучер забронирован"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 402 {object} response.ErrorResponse "Недостаточно средств"
// @Failure 404 {object} response.ErrorResponse "Ваучер не найден"
// @Failure 409 {object} response.ErrorResponse "Ваучер уже забронирован"
// @Security BearerAuth
// @Router /vouchers/{uid}/order [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.order"

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

	buyerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || buyerUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	voucher, err := h.service.Order(r.Context(), voucherUID, buyerUID)
	if err != nil {
		log.Error("failed to order voucher", sl.Err(err))
		status, body := response.FromDomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("voucher ordered", slog.String("voucher_uid", voucherUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"voucher": voucher,
	}))
}
