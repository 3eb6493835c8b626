// Package activation реализует HTTP-обработчик блокировки и
// разблокировки пользователей администратором. Заблокированный
// пользователь не может войти в систему.
package activation

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/voucher-marketplace/internal/http/response"
	"github.com/magabrotheeeer/voucher-marketplace/internal/lib/sl"
)

// Request — входные данные для смены активности пользователя.
type Request struct {
	Active *bool `json:"active" validate:"required"`
}

// Handler обрабатывает запросы на блокировку и разблокировку.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики управления активностью.
type Service interface {
	Block(ctx context.Context, username string) error
	Unblock(ctx context.Context, username string) error
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
// @Summary Заблокировать или разблокировать пользователя
// @Description Меняет флаг активности пользователя. Заблокированный пользователь не может войти.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param username path string true "Имя пользователя"
// @Param request body Request true "Флаг активности"
// @Success 200 {object} map[string]any "Активность изменена"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Security BearerAuth
// @Router /users/{username}/active [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.activation"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")
	if username == "" {
		log.Error("username missing in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid username"))
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

	var err error
	if *req.Active {
		err = h.service.Unblock(r.Context(), username)
	} else {
		err = h.service.Block(r.Context(), username)
	}
	if err != nil {
		log.Error("failed to change user activity", sl.Err(err))
		status, body := response.FromDomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("user activity changed",
		slog.String("username", username), slog.Bool("active", *req.Active))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"username": username,
		"active":   *req.Active,
	}))
}
