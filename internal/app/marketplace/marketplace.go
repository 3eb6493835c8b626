// Package marketplace собирает приложение маркетплейса ваучеров:
// хранилище, миграции, кеш, очередь событий, сервисы и HTTP-сервер.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/voucher-marketplace/internal/authz"
	"github.com/magabrotheeeer/voucher-marketplace/internal/cache"
	"github.com/magabrotheeeer/voucher-marketplace/internal/config"
	"github.com/magabrotheeeer/voucher-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/voucher-marketplace/internal/lib/password"
	"github.com/magabrotheeeer/voucher-marketplace/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/voucher-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/voucher-marketplace/internal/migrations"
	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
	authservice "github.com/magabrotheeeer/voucher-marketplace/internal/services/auth"
	bookingservice "github.com/magabrotheeeer/voucher-marketplace/internal/services/booking"
	userservice "github.com/magabrotheeeer/voucher-marketplace/internal/services/user"
	voucherservice "github.com/magabrotheeeer/voucher-marketplace/internal/services/voucher"
	"github.com/magabrotheeeer/voucher-marketplace/internal/storage/repository"
)

// App агрегирует работающие части приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New инициализирует приложение: подключается к Postgres, применяет
// миграции, поднимает Redis и RabbitMQ, создает администратора при
// первом запуске и собирает маршруты.
//
// Недоступность RabbitMQ не фатальна: события бронирования просто не
// публикуются, о чем пишется предупреждение в лог.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var events bookingservice.EventPublisher = rabbitmq.NoopPublisher{}
	conn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		logger.Warn("rabbitmq unavailable, booking events disabled", sl.Err(err))
	} else {
		ch, err := rabbitmq.SetupChannel(conn)
		if err != nil {
			logger.Warn("rabbitmq channel setup failed, booking events disabled", sl.Err(err))
		} else {
			events = rabbitmq.NewPublisher(ch)
		}
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, jwtMaker)
	bookingService := bookingservice.New(db, cacheRedis, events, authz.NewPolicy(db), logger)
	voucherService := voucherservice.New(db, cacheRedis, logger)
	userService := userservice.New(db, logger)

	if err := bootstrapAdmin(ctx, db, cfg.BootstrapAdmin, logger); err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, bookingService, voucherService, userService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста или
// фатальной ошибки сервера. При отмене контекста выполняется
// graceful shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}

// bootstrapAdmin создает администратора из конфигурации, если
// пользователя с таким именем еще нет.
func bootstrapAdmin(ctx context.Context, db *repository.Storage, cfg config.BootstrapAdmin, logger *slog.Logger) error {
	const op = "app.marketplace.bootstrapAdmin"

	if cfg.AdminUsername == "" {
		return nil
	}

	_, err := db.GetUserByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	hash, err := password.GetHash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = db.RegisterUser(ctx, models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Balance:      decimal.Zero,
		Active:       true,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("bootstrap admin created", slog.String("username", cfg.AdminUsername))
	return nil
}
