package middlewarectx

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"
)

// visitorLimiters выдает каждому посетителю собственный лимитер,
// чтобы один агрессивный клиент не исчерпывал общий бюджет запросов.
type visitorLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newVisitorLimiters(limit rate.Limit, burst int) *visitorLimiters {
	return &visitorLimiters{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (v *visitorLimiters) get(key string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()
	lim, ok := v.limiters[key]
	if !ok {
		lim = rate.NewLimiter(v.limit, v.burst)
		v.limiters[key] = lim
	}
	return lim
}

// RateLimitMiddleware ограничивает частоту запросов к защищенным
// конечным точкам. Лимит считается отдельно для каждого
// аутентифицированного пользователя; до аутентификации ключом
// служит адрес клиента.
func RateLimitMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	visitors := newVisitorLimiters(10, 30)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := r.Context().Value(User).(string)
			if !ok || key == "" {
				key = r.RemoteAddr
			}
			if !visitors.get(key).Allow() {
				log.Error("too many requests", slog.String("key", key))
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
