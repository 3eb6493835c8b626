// Package balance реализует HTTP-обработчик пополнения и корректировки
// баланса пользователя.
//
// Пользователь меняет собственный баланс, администратор — баланс любого
// пользователя через URL-параметр username. Дельта может быть
// отрицательной, но баланс не может уйти в минус.
package balance

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/voucher-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/response"
	"github.com/magabrotheeeer/voucher-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// Request — входные данные для изменения баланса.
type Request struct {
	Amount string `json:"amount" validate:"required"`
}

// Handler обрабатывает запросы на изменение баланса.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики изменения баланса.
type Service interface {
	UpdateBalance(ctx context.Context, username string, delta decimal.Decimal) (*models.User, error)
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
// @Summary Изменить баланс
// @Description Прибавляет дельту к балансу. Баланс не может стать отрицательным.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param username path string false "Имя пользователя (только для администратора)"
// @Param request body Request true "Дельта баланса, десятичная строка"
// @Success 200 {object} map[string]any "Новый баланс"
// @Failure 400 {object} response.ErrorResponse "Некорректная сумма"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Security BearerAuth
// @Router /users/me/balance [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.balance"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	delta, err := decimal.NewFromString(req.Amount)
	if err != nil {
		log.Error("failed to parse amount", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid amount"))
		return
	}

	username := chi.URLParam(r, "username")
	if username == "" {
		var ok bool
		username, ok = r.Context().Value(middlewarectx.User).(string)
		if !ok || username == "" {
			log.Error("username not found in context")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}
	}

	user, err := h.service.UpdateBalance(r.Context(), username, delta)
	if err != nil {
		log.Error("failed to update balance", sl.Err(err))
		status, body := response.FromDomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("balance updated", slog.String("username", username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"username": user.Username,
		"balance":  user.Balance,
	}))
}
