// Package search реализует HTTP-обработчик поиска ваучеров по фильтрам.
//
// Фильтры передаются query-параметрами: тип тура, тип трансфера,
// категория отеля и диапазон цен. Пустой параметр означает отсутствие
// фильтра по соответствующему полю.
package search

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/voucher-marketplace/internal/http/response"
	"github.com/magabrotheeeer/voucher-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// Handler обрабатывает запросы поиска ваучеров.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики поиска.
type Service interface {
	Search(ctx context.Context, filter models.SearchFilter) ([]*models.Voucher, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Поиск ваучеров
// @Description Возвращает ваучеры, подходящие под фильтры. Горящие туры первыми.
// @Tags Vouchers
// @Produce  json
// @Param tour_type query string false "Тип тура"
// @Param transfer_type query string false "Тип трансфера"
// @Param hotel_type query string false "Категория отеля"
// @Param price_min query string false "Минимальная цена"
// @Param price_max query string false "Максимальная цена"
// @Param limit query int false "Размер страницы" default(10)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Результат поиска"
// @Failure 400 {object} response.ErrorResponse "Некорректные фильтры"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /vouchers/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.voucher.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	filter := models.SearchFilter{
		TourType:     q.Get("tour_type"),
		TransferType: q.Get("transfer_type"),
		HotelType:    q.Get("hotel_type"),
	}

	if raw := q.Get("price_min"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			log.Error("failed to parse price_min", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid price_min"))
			return
		}
		filter.PriceMin = &price
	}
	if raw := q.Get("price_max"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			log.Error("failed to parse price_max", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid price_max"))
			return
		}
		filter.PriceMax = &price
	}

	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	res, err := h.service.Search(r.Context(), filter)
	if err != nil {
		log.Error("failed to search vouchers", sl.Err(err))
		status, body := response.FromDomainError(err)
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("search vouchers", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"vouchers":   res,
	}))
}
