// Package config предоставляет структуры и функции для загрузки конфигурации клиента.
//
// Конфиг читается из YAML-файла (путь в CONFIG_PATH или флаге --config),
// любое поле можно переопределить переменной окружения из тега env.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Допустимые окружения.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Бэкенды кеша ответов.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config общая структура для хранения настроек клиента.
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	API             `yaml:"api"`
	Storage         `yaml:"storage"`
	Cache           `yaml:"cache"`
	RedisConnection `yaml:"redis_connection"`
	HTTPServer      `yaml:"http_server"`
	Verification    `yaml:"verification"`
}

// API настройки подключения к бэкенду bukafresh.
type API struct {
	BaseURL   string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:8080/api"`
	Timeout   time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"15s"`
	RateLimit float64       `yaml:"rate_limit" env:"API_RATE_LIMIT" env-default:"10"`
	Burst     int           `yaml:"burst" env:"API_BURST" env-default:"5"`
}

// Storage настройки долговременного хранилища сессии.
// Пустой Path означает хранение только в памяти процесса.
type Storage struct {
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:"bukafresh.db"`
}

// Cache настройки кеша ответов.
type Cache struct {
	Backend    string        `yaml:"backend" env:"CACHE_BACKEND" env-default:"memory"`
	StaleTime  time.Duration `yaml:"stale_time" env:"CACHE_STALE_TIME" env-default:"5m"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"CACHE_RETRY_DELAY" env-default:"1s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env:"REDIS_TIMEOUT"`
	KeyPrefix    string        `yaml:"key_prefix" env:"REDIS_KEY_PREFIX" env-default:"bukafresh"`
}

// HTTPServer структура для настройки локального JSON API.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:"localhost:8090"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Verification настройки экрана подтверждения почты.
type Verification struct {
	RedirectDelay time.Duration `yaml:"redirect_delay" env:"VERIFY_REDIRECT_DELAY" env-default:"2s"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла. Пустой путь означает: только переменные окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: file %s does not exist", op, path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}
	switch c.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if c.AddressRedis == "" {
			return errors.New("redis cache requires redis_connection.addressredis")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.BaseURL == "" {
		return errors.New("api.base_url is empty")
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"API:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"  RateLimit: %.2f (burst %d)\n"+
			"Storage:\n"+
			"  Path: %s\n"+
			"Cache:\n"+
			"  Backend: %s\n"+
			"  StaleTime: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n",
		c.Env,
		c.BaseURL,
		c.API.Timeout,
		c.RateLimit,
		c.Burst,
		c.Path,
		c.Backend,
		c.StaleTime,
		c.AddressRedis,
		c.User,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
	)
}
