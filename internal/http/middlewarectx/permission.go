package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/voucher-marketplace/internal/authz"
	"github.com/magabrotheeeer/voucher-marketplace/internal/http/response"
	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// RequirePermission возвращает middleware, пропускающий запрос только
// если роль из контекста дает указанное разрешение. Отказ — HTTP 403,
// отдельно от доменных ошибок обработчиков.
func RequirePermission(perm authz.Permission, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "auth.RequirePermission"

			role, ok := r.Context().Value(Role).(models.Role)
			if !ok {
				log.Error("role not found in context",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			if !authz.Allowed(role, perm) {
				log.Warn("permission denied",
					slog.String("op", op),
					slog.String("role", string(role)),
					slog.String("permission", string(perm)),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("operation is not permitted for this role"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
