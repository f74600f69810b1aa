// Package middlewarectx содержит HTTP middleware локального API.
//
// RequireSession пропускает запрос, только если в клиенте открыта сессия.
// RateLimit ограничивает частоту запросов к локальному API.
package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/bukafresh-client/internal/http/response"
)

// Session сообщает, открыта ли сессия.
type Session interface {
	IsAuthenticated() bool
}

// RequireSession отвечает 401, если сессия не открыта.
func RequireSession(session Session, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireSession"
			if !session.IsAuthenticated() {
				log.Info("request without session",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
				)
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Please log in to continue."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit отвечает 429, когда limiter исчерпан.
func RateLimit(limiter *rate.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Warn("too many requests", slog.String("op", "middlewarectx.RateLimit"))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
