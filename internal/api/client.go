// Package api реализует HTTP-клиент бэкенда bukafresh.
//
// Каждая операция отображается в один HTTP-вызов. Ответ разбирается из
// конверта {success, message, data}; неуспех транспорта или статуса
// переводится классификатором операции в *apperr.Error с понятным
// пользователю текстом.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/bukafresh-client/internal/config"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/apperr"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/sl"
)

// maxBodySize ограничивает размер читаемого ответа.
const maxBodySize = 1 << 20

// TokenSource отдает токен сессии из долговременного хранилища.
type TokenSource interface {
	Token() (string, bool)
}

// Client — клиент бэкенда bukafresh.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	metrics    *Metrics
	log        *slog.Logger
}

// New создаёт клиент. metrics может быть nil.
func New(cfg config.API, tokens TokenSource, metrics *Metrics, log *slog.Logger) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tokens:     tokens,
		limiter:    rate.NewLimiter(limit, burst),
		metrics:    metrics,
		log:        log,
	}
}

// request описывает один вызов бэкенда.
type request struct {
	op       string
	method   string
	path     string
	query    url.Values
	body     any
	auth     bool
	rejected string // текст по умолчанию для success=false
}

// failure — сырое описание неуспешного вызова до классификации.
type failure struct {
	status  int    // 0 — ответа не было
	message string // message из тела ответа
	timeout bool
	err     error
}

// classifier переводит failure в ошибку для пользователя.
type classifier func(f failure) *apperr.Error

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	var buf bytes.Buffer
	if r.body != nil {
		if err := json.NewEncoder(&buf).Encode(r.body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if r.auth && c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// call выполняет запрос и разбирает конверт ответа в data.
// Возвращает message из конверта.
func call[T any](ctx context.Context, c *Client, r request, classify classifier) (T, string, error) {
	var zero T
	log := c.log.With(slog.String("op", r.op))

	if err := c.limiter.Wait(ctx); err != nil {
		return zero, "", fmt.Errorf("%s: %w", r.op, err)
	}

	req, err := c.newRequest(ctx, r)
	if err != nil {
		return zero, "", fmt.Errorf("%s: %w", r.op, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(r.op, 0, time.Since(start))
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, "", fmt.Errorf("%s: %w", r.op, ctx.Err())
		}
		f := failure{timeout: isTimeout(err), err: err}
		log.Error("request failed", sl.Err(err))
		return zero, "", classify(f)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.metrics.observe(r.op, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Error("failed to read response body", sl.Err(err))
		return zero, "", classify(failure{status: resp.StatusCode, err: err})
	}

	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f := failure{
			status:  resp.StatusCode,
			message: env.Message,
			err:     errors.New("unexpected status: " + resp.Status),
		}
		log.Warn("backend returned error status", sl.Status(resp.StatusCode), slog.String("message", env.Message))
		return zero, env.Message, classify(f)
	}
	if decodeErr != nil {
		log.Error("failed to decode response", sl.Err(decodeErr))
		return zero, "", &apperr.Error{
			Kind:    apperr.KindUnknown,
			Message: "Unexpected response from server. Please try again.",
			Status:  resp.StatusCode,
			Err:     decodeErr,
		}
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = r.rejected
		}
		log.Warn("backend rejected request", slog.String("message", env.Message))
		return zero, env.Message, &apperr.Error{Kind: apperr.KindRejected, Message: msg, Status: resp.StatusCode}
	}

	var data T
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			log.Error("failed to decode response data", sl.Err(err))
			return zero, env.Message, &apperr.Error{
				Kind:    apperr.KindUnknown,
				Message: "Unexpected response from server. Please try again.",
				Status:  resp.StatusCode,
				Err:     err,
			}
		}
	}
	log.Debug("request succeeded", sl.Status(resp.StatusCode))
	return data, env.Message, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Ping проверяет доступность бэкенда через /health. Тело ответа не разбирается.
func (c *Client) Ping(ctx context.Context) error {
	const op = "api.Ping"
	req, err := c.newRequest(ctx, request{method: http.MethodGet, path: "/health"})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(op, 0, time.Since(start))
		return networkError(failure{timeout: isTimeout(err), err: err})
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.metrics.observe(op, resp.StatusCode, time.Since(start))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return genericError("Health check failed.")(failure{status: resp.StatusCode})
	}
	return nil
}
