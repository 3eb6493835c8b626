package marketplace

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/voucher-marketplace/internal/authz"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/auth/changepassword"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/booking/cancel"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/booking/order"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/booking/pay"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/user/activation"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/user/balance"
	userlist "github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/user/list"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/user/profile"
	userread "github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/user/read"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/user/role"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/voucher/create"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/voucher/hot"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/voucher/list"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/voucher/read"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/voucher/remove"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/voucher/search"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/voucher/status"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/handlers/voucher/update"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/voucher-marketplace/internal/services/auth"
	bookingservice "github.com/magabrotheeeer/voucher-marketplace/internal/services/booking"
	userservice "github.com/magabrotheeeer/voucher-marketplace/internal/services/user"
	voucherservice "github.com/magabrotheeeer/voucher-marketplace/internal/services/voucher"
)

// RegisterRoutes регистрирует все маршруты приложения, разбитые на
// группы по требуемым разрешениям.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.Service,
	bookingService *bookingservice.Service,
	voucherService *voucherservice.Service,
	userService *userservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			// Каталог доступен всем ролям
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequirePermission(authz.UserRead, logger))
				r.Get("/vouchers", list.New(logger, voucherService).ServeHTTP)
				r.Get("/vouchers/search", search.New(logger, voucherService).ServeHTTP)
				r.Get("/vouchers/{uid}", read.New(logger, voucherService).ServeHTTP)
			})

			// Бронирование, отмена и оплата
			r.With(middlewarectx.RequirePermission(authz.UserCreate, logger)).
				Post("/vouchers/{uid}/order", order.New(logger, bookingService).ServeHTTP)
			r.With(middlewarectx.RequirePermission(authz.UserDelete, logger)).
				Post("/vouchers/{uid}/cancel", cancel.New(logger, bookingService).ServeHTTP)
			r.With(middlewarectx.RequirePermission(authz.UserUpdate, logger)).
				Post("/vouchers/{uid}/pay", pay.New(logger, bookingService).ServeHTTP)

			// Личный кабинет
			r.With(middlewarectx.RequirePermission(authz.UserRead, logger)).
				Get("/users/me", profile.New(logger, userService).ServeHTTP)
			r.With(middlewarectx.RequirePermission(authz.UserUpdate, logger)).
				Put("/users/me/balance", balance.New(logger, bookingService).ServeHTTP)
			r.With(middlewarectx.RequirePermission(authz.UserUpdate, logger)).
				Put("/users/me/password", changepassword.New(logger, authService).ServeHTTP)

			// Операции менеджера
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequirePermission(authz.ManagerUpdate, logger))
				r.Put("/vouchers/{uid}/status", status.New(logger, voucherService).ServeHTTP)
				r.Put("/vouchers/{uid}/hot", hot.New(logger, voucherService).ServeHTTP)
			})

			// Операции администратора
			r.With(middlewarectx.RequirePermission(authz.AdminCreate, logger)).
				Post("/vouchers", create.New(logger, voucherService).ServeHTTP)
			r.With(middlewarectx.RequirePermission(authz.AdminUpdate, logger)).
				Patch("/vouchers/{uid}", update.New(logger, voucherService).ServeHTTP)
			r.With(middlewarectx.RequirePermission(authz.AdminDelete, logger)).
				Delete("/vouchers/{uid}", remove.New(logger, voucherService).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequirePermission(authz.AdminRead, logger))
				r.Get("/users", userlist.New(logger, userService).ServeHTTP)
				r.Get("/users/{username}", userread.New(logger, userService).ServeHTTP)
			})
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequirePermission(authz.AdminUpdate, logger))
				r.Put("/users/{username}/active", activation.New(logger, userService).ServeHTTP)
				r.Put("/users/{username}/role", role.New(logger, userService).ServeHTTP)
				r.Put("/users/{username}/balance", balance.New(logger, bookingService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
