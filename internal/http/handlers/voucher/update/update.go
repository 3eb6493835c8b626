// Package update реализует HTTP-обработчик административного
// редактирования ваучера.
//
// Запрос — merge-patch: заданные поля перезаписывают текущие значения,
// отсутствующие остаются как есть. Назначение owner_id меняет владельца
// без движения денег.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/voucher-marketplace/internal/http/response"
	"github.com/magabrotheeeer/voucher-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// Handler обрабатывает запросы на редактирование ваучера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики редактирования ваучера.
type Service interface {
	Update(ctx context.Context, voucherUID string, patch models.VoucherPatch) (*models.Voucher, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отредактировать ваучер
// @Description Частичное обновление ваучера администратором. Отсутствующие в запросе поля не меняются.
// @Tags Vouchers
// @Accept  json
// @Produce  json
// @Param uid path string true "UID ваучера"
// @Param request body models.VoucherPatch true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновленный ваучер"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} response.ErrorResponse "Ваучер или пользователь не найден"
// @Security BearerAuth
// @Router /vouchers/{uid} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.voucher.update"

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

	var patch models.VoucherPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("patch", patch))

	voucher, err := h.service.Update(r.Context(), voucherUID, patch)
	if err != nil {
		log.Error("failed to update voucher", sl.Err(err))
		status, body := response.FromDomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("voucher updated", slog.String("uid", voucherUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"voucher": voucher,
	}))
}
