// Package services управляет сессией пользователя: вход, регистрация,
// подтверждение почты и выход. Учетные данные хранятся в долговременном
// хранилище и восстанавливаются при старте.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/bukafresh-client/internal/lib/apperr"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/jwt"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/sl"
	"github.com/magabrotheeeer/bukafresh-client/internal/models"
	"github.com/magabrotheeeer/bukafresh-client/internal/storage"
)

// ErrNoSession возвращается, если токен сессии не сохранён.
var ErrNoSession = errors.New("no session")

// AuthAPI описывает вызовы бэкенда, нужные сессии.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (models.AuthData, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	VerifyEmail(ctx context.Context, token, userID string) (*models.AuthData, string, error)
	ResendVerificationEmail(ctx context.Context, email string) (string, error)
}

// Cache — кеш ответов, который сбрасывается при выходе.
type Cache interface {
	Clear(ctx context.Context) error
}

// VerifyResult — итог подтверждения почты.
type VerifyResult struct {
	Message string
	// Authenticated — бэкенд вернул токен и сессия открыта.
	Authenticated bool
}

// SessionService хранит состояние сессии. Безопасен для конкурентного использования.
type SessionService struct {
	api   AuthAPI
	store storage.Store
	cache Cache
	log   *slog.Logger
	now   func() time.Time

	mu            sync.RWMutex
	user          *models.User
	authenticated bool
	inFlight      int
	lastErr       error
}

// NewSessionService создает сессию. Состояние нужно восстановить вызовом Restore.
func NewSessionService(api AuthAPI, store storage.Store, cache Cache, log *slog.Logger) *SessionService {
	return &SessionService{
		api:   api,
		store: store,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Restore выводит признак аутентификации из хранилища: сессия открыта,
// если сохранены и токен, и почта.
func (s *SessionService) Restore() error {
	const op = "services.session.Restore"
	creds, err := storage.LoadCredentials(s.store)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.authenticated = false
		s.user = nil
		return fmt.Errorf("%s: %w", op, err)
	}
	s.authenticated = creds.Complete()
	if s.authenticated {
		s.user = &models.User{Email: creds.Email, UserID: creds.UserID}
	} else {
		s.user = nil
	}
	s.log.Debug("session restored", slog.String("op", op), slog.Bool("authenticated", s.authenticated))
	return nil
}

// begin отмечает начало операции и сбрасывает последнюю ошибку.
func (s *SessionService) begin() {
	s.mu.Lock()
	s.inFlight++
	s.lastErr = nil
	s.mu.Unlock()
}

// end завершает операцию, запоминая ошибку.
func (s *SessionService) end(err error) {
	s.mu.Lock()
	s.inFlight--
	if err != nil {
		s.lastErr = err
	}
	s.mu.Unlock()
}

// open сохраняет учетные данные и открывает сессию. Кеш ответов сбрасывается
// заранее: данные прежнего пользователя не должны достаться новому.
func (s *SessionService) open(ctx context.Context, data models.AuthData) error {
	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			return err
		}
	}
	creds := storage.Credentials{Token: data.Token, Email: data.Email, UserID: data.UserID}
	if err := storage.SaveCredentials(s.store, creds); err != nil {
		return err
	}
	s.mu.Lock()
	s.user = models.UserFromAuth(data)
	s.authenticated = true
	s.mu.Unlock()
	return nil
}

// Login выполняет вход. При ошибке состояние и хранилище не меняются.
func (s *SessionService) Login(ctx context.Context, email, password string) (_ *models.User, err error) {
	const op = "services.session.Login"
	log := s.log.With(slog.String("op", op))
	s.begin()
	defer func() { s.end(err) }()

	data, err := s.api.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		log.Info("login failed", sl.Err(err))
		return nil, err
	}
	if data.Token == "" {
		return nil, apperr.New(apperr.KindUnknown, "Login failed. Please try again.")
	}
	if err := s.open(ctx, data); err != nil {
		log.Error("failed to persist session", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("user logged in", slog.String("user_id", data.UserID))
	return s.User(), nil
}

// Register создаёт аккаунт. Сессия не открывается до подтверждения почты.
func (s *SessionService) Register(ctx context.Context, req models.RegisterRequest) (_ string, err error) {
	const op = "services.session.Register"
	s.begin()
	defer func() { s.end(err) }()

	msg, err := s.api.Register(ctx, req)
	if err != nil {
		s.log.Info("registration failed", slog.String("op", op), sl.Err(err))
		return "", err
	}
	return msg, nil
}

// Logout удаляет учетные данные и сбрасывает весь кеш ответов.
// Состояние сбрасывается даже при ошибке хранилища.
func (s *SessionService) Logout(ctx context.Context) error {
	const op = "services.session.Logout"
	s.mu.Lock()
	s.user = nil
	s.authenticated = false
	s.lastErr = nil
	s.mu.Unlock()

	var errs []error
	if err := storage.ClearCredentials(s.store); err != nil {
		errs = append(errs, err)
	}
	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.log.Error("logout incomplete", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user logged out", slog.String("op", op))
	return nil
}

// VerifyEmail подтверждает почту. Если бэкенд вернул токен, сессия открывается.
func (s *SessionService) VerifyEmail(ctx context.Context, token, userID string) (_ VerifyResult, err error) {
	const op = "services.session.VerifyEmail"
	s.begin()
	defer func() { s.end(err) }()

	data, msg, err := s.api.VerifyEmail(ctx, token, userID)
	if err != nil {
		s.log.Info("email verification failed", slog.String("op", op), sl.Err(err))
		return VerifyResult{}, err
	}
	res := VerifyResult{Message: msg}
	if res.Message == "" {
		res.Message = "Your email has been successfully verified"
	}
	if data != nil && data.Token != "" {
		if err := s.open(ctx, *data); err != nil {
			return VerifyResult{}, fmt.Errorf("%s: %w", op, err)
		}
		res.Authenticated = true
	}
	return res, nil
}

// ResendVerificationEmail повторно отправляет письмо подтверждения.
func (s *SessionService) ResendVerificationEmail(ctx context.Context, email string) (_ string, err error) {
	const op = "services.session.ResendVerificationEmail"
	s.begin()
	defer func() { s.end(err) }()

	msg, err := s.api.ResendVerificationEmail(ctx, email)
	if err != nil {
		s.log.Info("resend failed", slog.String("op", op), sl.Err(err))
		return "", err
	}
	if msg == "" {
		msg = "Verification email has been sent to your inbox"
	}
	return msg, nil
}

// IsAuthenticated сообщает, открыта ли сессия.
func (s *SessionService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// User возвращает копию профиля сессии или nil.
func (s *SessionService) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Loading сообщает, выполняется ли сейчас операция сессии.
func (s *SessionService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

// LastError возвращает ошибку последней операции.
func (s *SessionService) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// TokenExpired сообщает, истёк ли сохранённый токен.
// Restore этот признак не учитывает.
func (s *SessionService) TokenExpired() (bool, error) {
	const op = "services.session.TokenExpired"
	token, ok := storage.TokenReader{Store: s.store}.Token()
	if !ok {
		return false, ErrNoSession
	}
	expired, err := jwt.Expired(token, s.now())
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return expired, nil
}
