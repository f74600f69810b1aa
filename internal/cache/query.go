package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/bukafresh-client/internal/config"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/sl"
)

// DefaultRetries — число повторов чтения по умолчанию.
const DefaultRetries = 3

// RetryPolicy решает, повторять ли чтение после очередной неудачи.
// failures — число неудач до текущей, начиная с 0.
type RetryPolicy func(failures int, err error) bool

// DefaultRetry повторяет любую ошибку до DefaultRetries раз.
func DefaultRetry(failures int, _ error) bool {
	return failures < DefaultRetries
}

// QueryClient читает ресурсы через кеш: свежий ответ отдаётся из кеша,
// иначе вызывается загрузчик с повторами по политике.
type QueryClient struct {
	cache      Cache
	staleTime  time.Duration
	retryDelay time.Duration
	log        *slog.Logger
}

// NewQueryClient создаёт клиент поверх c.
func NewQueryClient(c Cache, cfg config.Cache, log *slog.Logger) *QueryClient {
	return &QueryClient{
		cache:      c,
		staleTime:  cfg.StaleTime,
		retryDelay: cfg.RetryDelay,
		log:        log,
	}
}

// Fetch возвращает ресурс key из кеша или загружает его через load.
// Ошибки самого кеша не прерывают чтение, а только логируются.
func Fetch[T any](ctx context.Context, q *QueryClient, key string, retry RetryPolicy, load func(ctx context.Context) (T, error)) (T, error) {
	log := q.log.With(slog.String("op", "cache.Fetch"), slog.String("key", key))

	var cached T
	found, err := q.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("cache read failed", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	if retry == nil {
		retry = DefaultRetry
	}
	for failures := 0; ; failures++ {
		v, err := load(ctx)
		if err == nil {
			if err := q.cache.Set(ctx, key, v, q.staleTime); err != nil {
				log.Warn("cache write failed", sl.Err(err))
			}
			return v, nil
		}
		if ctx.Err() != nil || !retry(failures, err) {
			var zero T
			return zero, err
		}
		log.Debug("retrying load", slog.Int("failures", failures+1), sl.Err(err))
		select {
		case <-ctx.Done():
			var zero T
			return zero, err
		case <-time.After(q.retryDelay):
		}
	}
}

// Peek возвращает закешированное значение без загрузки.
func Peek[T any](ctx context.Context, q *QueryClient, key string) (T, bool) {
	var v T
	found, err := q.cache.Get(ctx, key, &v)
	if err != nil {
		q.log.Warn("cache read failed", slog.String("op", "cache.Peek"), slog.String("key", key), sl.Err(err))
		return v, false
	}
	return v, found
}

// Invalidate удаляет ресурсы по префиксам. Ошибки логируются: сбой
// инвалидации не отменяет уже выполненную мутацию.
func (q *QueryClient) Invalidate(ctx context.Context, prefixes ...string) {
	for _, p := range prefixes {
		if err := q.cache.Invalidate(ctx, p); err != nil {
			q.log.Error("cache invalidation failed", slog.String("op", "cache.Invalidate"), slog.String("key", p), sl.Err(err))
		}
	}
}

// Clear очищает кеш целиком.
func (q *QueryClient) Clear(ctx context.Context) error {
	return q.cache.Clear(ctx)
}
