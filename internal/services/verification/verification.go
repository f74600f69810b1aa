// Package services реализует экран подтверждения почты как конечный автомат
// loading | success | expired | error с однократной попыткой подтверждения.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/bukafresh-client/internal/lib/apperr"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/sl"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/validate"
	sessionservice "github.com/magabrotheeeer/bukafresh-client/internal/services/session"
)

// State — состояние экрана подтверждения.
type State string

const (
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateExpired State = "expired"
	StateError   State = "error"
)

// Тексты экрана.
const (
	MsgEnterEmail    = "Please enter your email to receive a verification link"
	MsgMissingUserID = "Invalid verification link - missing user ID"
	MsgExpired       = "This verification link has expired. Please request a new one below."
	MsgInvalidLink   = "This verification link is not valid. Please check your email for the correct link or request a new one below."
	MsgNoInternet    = "Please check your internet connection and try again."
	MsgEmailRequired = "Please enter your email address to resend verification"
	MsgInvalidEmail  = "Please enter a valid email address"
)

// Verifier — операции сессии, которые использует экран.
type Verifier interface {
	VerifyEmail(ctx context.Context, token, userID string) (sessionservice.VerifyResult, error)
	ResendVerificationEmail(ctx context.Context, email string) (string, error)
}

// View — снимок состояния экрана.
type View struct {
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
	// RedirectAfter — через сколько перейти в кабинет; 0 — переход не нужен.
	RedirectAfter time.Duration `json:"redirectAfter,omitempty"`
	Resending     bool          `json:"resending"`
	ResendSent    bool          `json:"resendSent"`
}

// Flow — состояние одного экрана подтверждения.
type Flow struct {
	verifier      Verifier
	token         string
	userID        string
	redirectDelay time.Duration
	log           *slog.Logger

	mu         sync.Mutex
	attempted  bool
	state      State
	message    string
	redirect   bool
	resending  bool
	resendSent bool
}

// NewFlow создаёт экран для параметров ссылки token и userID.
// Без токена экран сразу в состоянии expired и предлагает повторную отправку.
func NewFlow(v Verifier, token, userID string, redirectDelay time.Duration, log *slog.Logger) *Flow {
	f := &Flow{
		verifier:      v,
		token:         token,
		userID:        userID,
		redirectDelay: redirectDelay,
		log:           log,
		state:         StateLoading,
	}
	if token == "" {
		f.state = StateExpired
		f.message = MsgEnterEmail
	}
	return f
}

// Run выполняет подтверждение один раз. Повторные вызовы ничего не делают
// и возвращают текущее состояние.
func (f *Flow) Run(ctx context.Context) View {
	const op = "services.verification.Run"

	f.mu.Lock()
	if f.attempted || f.token == "" {
		v := f.viewLocked()
		f.mu.Unlock()
		return v
	}
	f.attempted = true
	if f.userID == "" {
		f.state = StateError
		f.message = MsgMissingUserID
		v := f.viewLocked()
		f.mu.Unlock()
		return v
	}
	f.mu.Unlock()

	res, err := f.verifier.VerifyEmail(ctx, f.token, f.userID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		f.state = StateSuccess
		f.message = res.Message
		f.redirect = res.Authenticated
		return f.viewLocked()
	}

	f.log.Info("verification failed", slog.String("op", op), sl.Err(err))
	f.state, f.message, f.redirect = classify(err)
	return f.viewLocked()
}

// classify переводит ошибку подтверждения в состояние экрана.
func classify(err error) (State, string, bool) {
	msg := err.Error()
	switch {
	case errors.Is(err, apperr.ErrLinkExpired) || strings.Contains(msg, "expired"):
		return StateExpired, MsgExpired, false
	case errors.Is(err, apperr.ErrAlreadyVerified) || strings.Contains(msg, "already verified"):
		return StateSuccess, "Your email is already verified. You can start shopping!", true
	case errors.Is(err, apperr.ErrInvalidLink) || strings.Contains(msg, "not valid") || strings.Contains(msg, "invalid"):
		return StateError, MsgInvalidLink, false
	case errors.Is(err, apperr.ErrNetwork) || strings.Contains(msg, "internet connection"):
		return StateError, MsgNoInternet, false
	default:
		return StateError, msg, false
	}
}

// Resend проверяет адрес и повторно отправляет письмо. Состояние
// подтверждения не меняется; при ошибке её текст становится сообщением экрана.
func (f *Flow) Resend(ctx context.Context, email string) error {
	const op = "services.verification.Resend"
	email = strings.TrimSpace(email)
	if email == "" {
		return apperr.Validation(MsgEmailRequired, nil)
	}
	if !validate.IsEmail(email) {
		return apperr.Validation(MsgInvalidEmail, nil)
	}

	f.mu.Lock()
	f.resending = true
	f.mu.Unlock()

	_, err := f.verifier.ResendVerificationEmail(ctx, email)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.resending = false
	if err != nil {
		f.log.Info("resend failed", slog.String("op", op), sl.Err(err))
		f.message = err.Error()
		return err
	}
	f.resendSent = true
	return nil
}

// View возвращает текущий снимок состояния.
func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

func (f *Flow) viewLocked() View {
	v := View{
		State:      f.state,
		Message:    f.message,
		Resending:  f.resending,
		ResendSent: f.resendSent,
	}
	if f.redirect {
		v.RedirectAfter = f.redirectDelay
	}
	return v
}
