// Package remove реализует HTTP-обработчик удаления ваучера из каталога.
// Ваучер с владельцем удалить нельзя: сначала нужно отменить бронь.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/voucher-marketplace/internal/http/response"
	"github.com/magabrotheeeer/voucher-marketplace/internal/lib/sl"
)

// Handler обрабатывает запросы на удаление ваучера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления ваучера.
type Service interface {
	Delete(ctx context.Context, voucherUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить ваучер
// @Description Удаляет свободный ваучер из каталога. Забронированный ваучер удалить нельзя.
// @Tags Vouchers
// @Produce  json
// @Param uid path string true "UID ваучера"
// @Success 200 {object} map[string]any "Ваучер удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 404 {object} response.ErrorResponse "Ваучер не найден"
// @Failure 409 {object} response.ErrorResponse "Ваучер забронирован"
// @Security BearerAuth
// @Router /vouchers/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.voucher.remove"

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

	if err := h.service.Delete(r.Context(), voucherUID); err != nil {
		log.Error("failed to delete voucher", sl.Err(err))
		status, body := response.FromDomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("voucher deleted", slog.String("uid", voucherUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid": voucherUID,
	}))
}
