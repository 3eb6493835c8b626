// Package status реализует HTTP-обработчик смены статуса ваучера.
//
// Менеджер ограничен допустимыми переходами между статусами,
// администратор может выставить любой статус.
package status

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/voucher-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/response"
	"github.com/magabrotheeeer/voucher-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// Request — входные данные для смены статуса.
type Request struct {
	Status string `json:"status" validate:"required"`
}

// Handler обрабатывает запросы на смену статуса ваучера.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены статуса.
type Service interface {
	ChangeStatus(ctx context.Context, voucherUID, status string, actorRole models.Role) (*models.Voucher, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сменить статус ваучера
// @Description Меняет статус ваучера. Менеджер ограничен допустимыми переходами, администратор — нет.
// @Tags Vouchers
// @Accept  json
// @Produce  json
// @Param uid path string true "UID ваучера"
// @Param request body Request true "Новый статус"
// @Success 200 {object} map[string]any "Обновленный ваучер"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} response.ErrorResponse "Ваучер не найден"
// @Failure 409 {object} response.ErrorResponse "Недопустимый переход статуса"
// @Security BearerAuth
// @Router /vouchers/{uid}/status [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.voucher.status"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	role, _ := r.Context().Value(middlewarectx.Role).(models.Role)

	voucher, err := h.service.ChangeStatus(r.Context(), voucherUID, req.Status, role)
	if err != nil {
		log.Error("failed to change voucher status", sl.Err(err))
		status, body := response.FromDomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("voucher status changed",
		slog.String("uid", voucherUID), slog.String("status", req.Status))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"voucher": voucher,
	}))
}
