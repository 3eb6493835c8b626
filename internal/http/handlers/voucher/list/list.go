// Package list реализует HTTP-обработчик списка ваучеров каталога.
//
// Горящие туры идут первыми, внутри — сортировка по дате заезда.
// Параметр owner=me ограничивает выборку ваучерами текущего пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/voucher-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/response"
	"github.com/magabrotheeeer/voucher-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// Handler обрабатывает запросы на получение списка ваучеров.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка ваучеров.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.Voucher, error)
	ListByOwner(ctx context.Context, ownerUID string, limit, offset int) ([]*models.Voucher, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список ваучеров
// @Description Возвращает страницу каталога ваучеров, горящие туры первыми. С owner=me — только ваучеры текущего пользователя.
// @Tags Vouchers
// @Produce  json
// @Param limit query int false "Размер страницы" default(10)
// @Param offset query int false "Смещение" default(0)
// @Param owner query string false "me — только свои ваучеры"
// @Success 200 {object} map[string]any "Список ваучеров"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /vouchers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.voucher.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limitStr := r.URL.Query().Get("limit")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 10
	}

	offsetStr := r.URL.Query().Get("offset")
	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		offset = 0
	}

	var res []*models.Voucher
	if r.URL.Query().Get("owner") == "me" {
		ownerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
		if !ok || ownerUID == "" {
			log.Error("user uid not found in context")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}
		res, err = h.service.ListByOwner(r.Context(), ownerUID, limit, offset)
	} else {
		res, err = h.service.List(r.Context(), limit, offset)
	}
	if err != nil {
		log.Error("failed to list vouchers", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list vouchers"))
		return
	}

	log.Info("list vouchers", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"vouchers":   res,
	}))
}
