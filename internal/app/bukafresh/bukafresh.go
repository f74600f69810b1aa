// Package bukafresh собирает клиент: хранилище сессии, кеш ответов,
// клиент бэкенда, состояния сессии, оформления, подписок, платежей и
// профиля, а также локальный JSON API.
package bukafresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/bukafresh-client/internal/api"
	"github.com/magabrotheeeer/bukafresh-client/internal/cache"
	"github.com/magabrotheeeer/bukafresh-client/internal/config"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/sl"
	checkoutservice "github.com/magabrotheeeer/bukafresh-client/internal/services/checkout"
	paymentservice "github.com/magabrotheeeer/bukafresh-client/internal/services/payment"
	profileservice "github.com/magabrotheeeer/bukafresh-client/internal/services/profile"
	sessionservice "github.com/magabrotheeeer/bukafresh-client/internal/services/session"
	subscriptionservice "github.com/magabrotheeeer/bukafresh-client/internal/services/subscription"
	"github.com/magabrotheeeer/bukafresh-client/internal/storage"
	boltstorage "github.com/magabrotheeeer/bukafresh-client/internal/storage/bbolt"
	memstorage "github.com/magabrotheeeer/bukafresh-client/internal/storage/memory"
)

// shutdownTimeout — сколько ждать завершения запросов при остановке.
const shutdownTimeout = 15 * time.Second

// App — собранный клиент.
type App struct {
	Session       *sessionservice.SessionService
	Checkout      *checkoutservice.Wizard
	Subscriptions *subscriptionservice.SubscriptionService
	Payments      *paymentservice.PaymentService
	Profile       *profileservice.ProfileService
	API           *api.Client

	cfg      *config.Config
	logger   *slog.Logger
	store    storage.Store
	redis    *cache.Redis
	registry *prometheus.Registry
	server   *http.Server
}

// New собирает клиент и восстанавливает сессию из хранилища.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.bukafresh.New"

	var store storage.Store
	if cfg.Storage.Path == "" {
		store = memstorage.New()
	} else {
		db, err := boltstorage.New(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		store = db
	}

	a := &App{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		registry: prometheus.NewRegistry(),
	}

	var responses cache.Cache
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		r, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.redis = r
		responses = r
	default:
		responses = cache.NewMemory()
	}

	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.API = api.New(cfg.API, storage.TokenReader{Store: store}, api.NewMetrics(a.registry), logger)

	query := cache.NewQueryClient(responses, cfg.Cache, logger)
	a.Session = sessionservice.NewSessionService(a.API, store, query, logger)
	if err := a.Session.Restore(); err != nil {
		logger.Warn("failed to restore session", sl.Err(err))
	}
	a.Checkout = checkoutservice.NewWizard(a.API, logger)
	a.Subscriptions = subscriptionservice.NewSubscriptionService(a.API, a.Session, query, logger)
	a.Payments = paymentservice.New(a.API, a.Session, query, logger)
	a.Profile = profileservice.NewProfileService(a.API, a.Session, query, logger)

	router := chi.NewRouter()
	a.RegisterRoutes(router)
	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	logger.Info("client initialized",
		slog.String("api", cfg.BaseURL),
		slog.String("cache", cfg.Cache.Backend),
		slog.Bool("authenticated", a.Session.IsAuthenticated()),
	)
	return a, nil
}

// Logger возвращает логгер клиента.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Handler возвращает маршрутизатор локального API.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run обслуживает локальный API до отмены ctx.
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
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}

// Close освобождает хранилище и соединение с Redis.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
