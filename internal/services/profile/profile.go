// Package services отдает профиль текущего пользователя из /users/me через кеш.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/bukafresh-client/internal/cache"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/apperr"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/sl"
	"github.com/magabrotheeeer/bukafresh-client/internal/models"
)

// ProfileAPI — вызов бэкенда за профилем.
type ProfileAPI interface {
	Me(ctx context.Context) (models.Profile, error)
}

// Authenticator сообщает, открыта ли сессия.
type Authenticator interface {
	IsAuthenticated() bool
}

// Retry не повторяет ошибки входа и доступа.
func Retry(failures int, err error) bool {
	switch apperr.KindOf(err) {
	case apperr.KindUnauthenticated, apperr.KindPermissionDenied:
		return false
	}
	return cache.DefaultRetry(failures, err)
}

type ProfileService struct {
	api   ProfileAPI
	auth  Authenticator
	query *cache.QueryClient
	log   *slog.Logger
}

func NewProfileService(api ProfileAPI, auth Authenticator, query *cache.QueryClient, log *slog.Logger) *ProfileService {
	return &ProfileService{api: api, auth: auth, query: query, log: log}
}

// Profile возвращает профиль. Без сессии запрос не выполняется.
func (s *ProfileService) Profile(ctx context.Context) (models.Profile, error) {
	const op = "services.profile.Profile"
	if !s.auth.IsAuthenticated() {
		return models.Profile{}, apperr.ErrUnauthenticated
	}
	p, err := cache.Fetch(ctx, s.query, cache.KeyUserProfile, Retry, s.api.Me)
	if err != nil {
		s.log.Error("profile fetch failed", slog.String("op", op), sl.Err(err))
		return models.Profile{}, err
	}
	return p, nil
}

// Refresh сбрасывает закешированный профиль.
func (s *ProfileService) Refresh(ctx context.Context) {
	s.query.Invalidate(ctx, cache.KeyUserProfile)
}
