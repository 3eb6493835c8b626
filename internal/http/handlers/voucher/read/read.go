// Package read реализует HTTP-обработчик для получения конкретного ваучера по UID.
//
// Handler извлекает UID из URL-параметров, вызывает бизнес-логику для чтения ваучера
// и возвращает данные в JSON-формате.
package read

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
	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// Handler обрабатывает запросы на получение ваучера по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для получения ваучера по UID
}

// Service описывает интерфейс бизнес-логики чтения ваучера.
type Service interface {
	Read(ctx context.Context, voucherUID string) (*models.Voucher, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить ваучер
// @Description Возвращает ваучер по его UID.
// @Tags Vouchers
// @Produce  json
// @Param uid path string true "UID ваучера"
// @Success 200 {object} map[string]any "Данные ваучера"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 404 {object} response.ErrorResponse "Ваучер не найден"
// @Security BearerAuth
// @Router /vouchers/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.voucher.read"

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

	voucher, err := h.service.Read(r.Context(), voucherUID)
	if err != nil {
		log.Error("failed to read voucher", sl.Err(err))
		status, body := response.FromDomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("success to read voucher", slog.String("uid", voucherUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"voucher": voucher,
	}))
}
