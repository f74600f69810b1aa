package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/bukafresh-client/internal/config"
)

const scanCount = 100

// Redis — кеш в Redis. Все ключи получают префикс из конфига, чтобы
// несколько клиентов могли делить один сервер.
type Redis struct {
	Db     *redis.Client
	prefix string
}

var _ Cache = (*Redis)(nil)

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Redis, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Redis{Db: db, prefix: cfg.KeyPrefix}, nil
}

func (c *Redis) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

func (c *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	const op = "cache.Redis.Get"
	val, err := c.Db.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

func (c *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	const op = "cache.Redis.Set"
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.Db.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Redis) Invalidate(ctx context.Context, prefix string) error {
	const op = "cache.Redis.Invalidate"
	if err := c.Db.Del(ctx, c.key(prefix)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.deleteMatching(ctx, c.key(prefix)+":*"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Clear удаляет все ключи клиента. Без префикса очищается вся база.
func (c *Redis) Clear(ctx context.Context) error {
	const op = "cache.Redis.Clear"
	var err error
	if c.prefix == "" {
		err = c.Db.FlushDB(ctx).Err()
	} else {
		err = c.deleteMatching(ctx, c.prefix+":*")
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Redis) deleteMatching(ctx context.Context, pattern string) error {
	iter := c.Db.Scan(ctx, 0, pattern, scanCount).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.Db.Del(ctx, keys...).Err()
}

// Close закрывает соединение.
func (c *Redis) Close() error {
	return c.Db.Close()
}
