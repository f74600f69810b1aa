// Package payment — платежи прямого дебета: инициация платежа и кешируемые
// списки платежей пользователя и подписки.
package payment

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bukafresh-client/internal/cache"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/apperr"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/sl"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/validate"
	"github.com/magabrotheeeer/bukafresh-client/internal/models"
)

// PaymentAPI описывает вызовы бэкенда для платежей.
type PaymentAPI interface {
	ProcessPayment(ctx context.Context, req models.ProcessPaymentRequest) (models.Payment, error)
	UserPayments(ctx context.Context) ([]models.Payment, error)
	Payment(ctx context.Context, id string) (models.Payment, error)
	SubscriptionPayments(ctx context.Context, subscriptionID string) ([]models.Payment, error)
}

// Authenticator сообщает, открыта ли сессия. Без сессии чтения не выполняются.
type Authenticator interface {
	IsAuthenticated() bool
}

// PaymentService хранит состояние платежей пользователя.
type PaymentService struct {
	api      PaymentAPI
	auth     Authenticator
	query    *cache.QueryClient
	validate *validator.Validate
	log      *slog.Logger
}

// New создаёт сервис платежей.
func New(api PaymentAPI, auth Authenticator, query *cache.QueryClient, log *slog.Logger) *PaymentService {
	return &PaymentService{
		api:      api,
		auth:     auth,
		query:    query,
		validate: validate.New(),
		log:      log,
	}
}

// Process инициирует платеж. При успехе сбрасываются платежи, текущая
// подписка и профиль: оплата может активировать подписку.
func (s *PaymentService) Process(ctx context.Context, req models.ProcessPaymentRequest) (models.Payment, error) {
	const op = "services.payment.Process"
	log := s.log.With(slog.String("op", op), slog.String("subscription_id", req.SubscriptionID))

	if err := s.validate.Struct(req); err != nil {
		return models.Payment{}, apperr.Validation(validate.Message(err), err)
	}
	p, err := s.api.ProcessPayment(ctx, req)
	if err != nil {
		log.Info("payment failed", sl.Err(err))
		return models.Payment{}, err
	}
	s.query.Invalidate(ctx, cache.KeyPayments, cache.KeySubscription, cache.KeyUserProfile)
	log.Info("payment initiated", slog.String("payment_id", p.ID), slog.String("status", p.Status))
	return p, nil
}

// UserPayments возвращает платежи пользователя.
func (s *PaymentService) UserPayments(ctx context.Context) ([]models.Payment, error) {
	if !s.auth.IsAuthenticated() {
		return nil, apperr.ErrUnauthenticated
	}
	return cache.Fetch(ctx, s.query, cache.KeyPaymentsUser, cache.DefaultRetry, s.api.UserPayments)
}

// Payment возвращает платеж по идентификатору. Пустой id даёт ошибку валидации.
func (s *PaymentService) Payment(ctx context.Context, id string) (models.Payment, error) {
	if id == "" {
		return models.Payment{}, apperr.Validation("Payment ID is required.", nil)
	}
	if !s.auth.IsAuthenticated() {
		return models.Payment{}, apperr.ErrUnauthenticated
	}
	return cache.Fetch(ctx, s.query, cache.PaymentKey(id), cache.DefaultRetry, func(ctx context.Context) (models.Payment, error) {
		return s.api.Payment(ctx, id)
	})
}

// SubscriptionPayments возвращает платежи подписки.
func (s *PaymentService) SubscriptionPayments(ctx context.Context, subscriptionID string) ([]models.Payment, error) {
	if subscriptionID == "" {
		return nil, apperr.Validation("Subscription ID is required.", nil)
	}
	if !s.auth.IsAuthenticated() {
		return nil, apperr.ErrUnauthenticated
	}
	return cache.Fetch(ctx, s.query, cache.SubscriptionPaymentsKey(subscriptionID), cache.DefaultRetry, func(ctx context.Context) ([]models.Payment, error) {
		return s.api.SubscriptionPayments(ctx, subscriptionID)
	})
}

// IsPaymentSuccessful сообщает, оплачен ли платеж (PAID).
func IsPaymentSuccessful(p models.Payment) bool {
	return p.Status == models.PaymentPaid
}

// IsPaymentPending: PENDING и PROCESSING считаются ожидающими.
func IsPaymentPending(p models.Payment) bool {
	return p.Status == models.PaymentPending || p.Status == models.PaymentProcessing
}

// IsPaymentFailed сообщает, отклонён ли платеж (FAILED).
func IsPaymentFailed(p models.Payment) bool {
	return p.Status == models.PaymentFailed
}
