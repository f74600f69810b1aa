// Package services содержит состояние подписок пользователя: кешируемые
// чтения текущей подписки и списка подписок и переходы жизненного цикла.
//
// Мутации не обновляют кеш оптимистично: после успешного ответа бэкенда
// зависимые ключи инвалидируются и перечитываются при следующем обращении.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bukafresh-client/internal/cache"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/apperr"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/sl"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/validate"
	"github.com/magabrotheeeer/bukafresh-client/internal/models"
)

// SubscriptionAPI описывает вызовы бэкенда для подписок.
type SubscriptionAPI interface {
	CurrentSubscription(ctx context.Context) (*models.Subscription, error)
	Subscriptions(ctx context.Context) ([]models.Subscription, error)
	CreateSubscription(ctx context.Context, req models.CreateSubscriptionRequest) (models.Subscription, error)
	PauseSubscription(ctx context.Context, id string) (models.Subscription, error)
	ResumeSubscription(ctx context.Context, id string) (models.Subscription, error)
	CancelSubscription(ctx context.Context, id string) (models.Subscription, error)
	ActivateSubscription(ctx context.Context, id string) (models.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) error
}

// Authenticator сообщает, открыта ли сессия. Без сессии чтения не выполняются.
type Authenticator interface {
	IsAuthenticated() bool
}

// Action — мутация подписки.
type Action string

const (
	ActionCreate   Action = "create"
	ActionPause    Action = "pause"
	ActionResume   Action = "resume"
	ActionCancel   Action = "cancel"
	ActionActivate Action = "activate"
	ActionDelete   Action = "delete"
)

// invalidates — ключи кеша, которые сбрасывает каждая мутация.
var invalidates = map[Action][]string{
	ActionCreate:   {cache.KeySubscription, cache.KeySubscriptions, cache.KeyUserProfile},
	ActionPause:    {cache.KeySubscription, cache.KeySubscriptions},
	ActionResume:   {cache.KeySubscription, cache.KeySubscriptions},
	ActionCancel:   {cache.KeySubscription, cache.KeySubscriptions},
	ActionActivate: {cache.KeySubscription, cache.KeySubscriptions, cache.KeyUserProfile},
	ActionDelete:   {cache.KeySubscription, cache.KeySubscriptions, cache.KeyUserProfile},
}

// Retry не повторяет ошибки доступа, отсутствия подписки и ошибки сервера.
func Retry(failures int, err error) bool {
	switch apperr.KindOf(err) {
	case apperr.KindUnauthenticated, apperr.KindPermissionDenied, apperr.KindNotFound, apperr.KindServer:
		return false
	}
	return cache.DefaultRetry(failures, err)
}

// SubscriptionService — состояние подписок. Безопасен для конкурентного использования.
type SubscriptionService struct {
	api      SubscriptionAPI
	auth     Authenticator
	query    *cache.QueryClient
	validate *validator.Validate
	log      *slog.Logger

	mu       sync.Mutex
	inFlight map[Action]int
}

// NewSubscriptionService создает сервис подписок.
func NewSubscriptionService(api SubscriptionAPI, auth Authenticator, query *cache.QueryClient, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		api:      api,
		auth:     auth,
		query:    query,
		validate: validate.New(),
		log:      log,
		inFlight: make(map[Action]int),
	}
}

// Current возвращает текущую подписку. Отсутствие подписки даёт apperr.ErrNotFound.
func (s *SubscriptionService) Current(ctx context.Context) (*models.Subscription, error) {
	if !s.auth.IsAuthenticated() {
		return nil, apperr.ErrUnauthenticated
	}
	return cache.Fetch(ctx, s.query, cache.KeySubscription, Retry, s.api.CurrentSubscription)
}

// All возвращает все подписки пользователя.
func (s *SubscriptionService) All(ctx context.Context) ([]models.Subscription, error) {
	if !s.auth.IsAuthenticated() {
		return nil, apperr.ErrUnauthenticated
	}
	return cache.Fetch(ctx, s.query, cache.KeySubscriptionsAll, cache.DefaultRetry, s.api.Subscriptions)
}

// mutate выполняет мутацию и при успехе инвалидирует зависимые ключи.
func (s *SubscriptionService) mutate(ctx context.Context, action Action, fn func() error) error {
	const op = "services.subscription.mutate"
	log := s.log.With(slog.String("op", op), slog.String("action", string(action)))

	s.mu.Lock()
	s.inFlight[action]++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight[action]--
		s.mu.Unlock()
	}()

	if err := fn(); err != nil {
		log.Info("subscription action failed", sl.Err(err))
		return err
	}
	s.query.Invalidate(ctx, invalidates[action]...)
	log.Info("subscription action succeeded")
	return nil
}

// Create создаёт подписку в статусе PENDING.
func (s *SubscriptionService) Create(ctx context.Context, req models.CreateSubscriptionRequest) (models.Subscription, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Subscription{}, apperr.Validation(validate.Message(err), err)
	}
	var sub models.Subscription
	err := s.mutate(ctx, ActionCreate, func() (err error) {
		sub, err = s.api.CreateSubscription(ctx, req)
		return err
	})
	return sub, err
}

func (s *SubscriptionService) transition(ctx context.Context, action Action, id string, call func(context.Context, string) (models.Subscription, error)) (models.Subscription, error) {
	if id == "" {
		return models.Subscription{}, apperr.Validation("Subscription ID is required.", nil)
	}
	var sub models.Subscription
	err := s.mutate(ctx, action, func() (err error) {
		sub, err = call(ctx, id)
		return err
	})
	return sub, err
}

// Pause приостанавливает подписку.
func (s *SubscriptionService) Pause(ctx context.Context, id string) (models.Subscription, error) {
	return s.transition(ctx, ActionPause, id, s.api.PauseSubscription)
}

// Resume возобновляет подписку.
func (s *SubscriptionService) Resume(ctx context.Context, id string) (models.Subscription, error) {
	return s.transition(ctx, ActionResume, id, s.api.ResumeSubscription)
}

// Cancel отменяет подписку.
func (s *SubscriptionService) Cancel(ctx context.Context, id string) (models.Subscription, error) {
	return s.transition(ctx, ActionCancel, id, s.api.CancelSubscription)
}

// Activate активирует подписку после оплаты.
func (s *SubscriptionService) Activate(ctx context.Context, id string) (models.Subscription, error) {
	return s.transition(ctx, ActionActivate, id, s.api.ActivateSubscription)
}

// Delete удаляет подписку в статусе PENDING или INACTIVE.
func (s *SubscriptionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperr.Validation("Subscription ID is required.", nil)
	}
	if err := s.checkDeletable(ctx, id); err != nil {
		return err
	}
	return s.mutate(ctx, ActionDelete, func() error {
		return s.api.DeleteSubscription(ctx, id)
	})
}

// Pending сообщает, выполняется ли мутация action.
func (s *SubscriptionService) Pending(action Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[action] > 0
}

func (s *SubscriptionService) cachedStatus(ctx context.Context) (models.SubscriptionStatus, bool) {
	sub, ok := cache.Peek[*models.Subscription](ctx, s.query, cache.KeySubscription)
	if !ok || sub == nil {
		return "", false
	}
	return sub.Status, true
}

// HasActiveSubscription проверяет статус закешированной текущей подписки.
func (s *SubscriptionService) HasActiveSubscription(ctx context.Context) bool {
	st, ok := s.cachedStatus(ctx)
	return ok && st == models.StatusActive
}

// IsPaused проверяет, приостановлена ли закешированная текущая подписка.
func (s *SubscriptionService) IsPaused(ctx context.Context) bool {
	st, ok := s.cachedStatus(ctx)
	return ok && st == models.StatusPaused
}

// IsCancelled проверяет, отменена ли закешированная текущая подписка.
func (s *SubscriptionService) IsCancelled(ctx context.Context) bool {
	st, ok := s.cachedStatus(ctx)
	return ok && st == models.StatusCanceled
}

// ErrNotDeletable возвращается при попытке удалить подписку не в статусе
// PENDING или INACTIVE.
var ErrNotDeletable = errors.New("only pending or inactive subscriptions can be deleted")

// checkDeletable сверяется со списком подписок в кеше. Если подписки в кеше
// нет, решение остаётся за бэкендом.
func (s *SubscriptionService) checkDeletable(ctx context.Context, id string) error {
	all, ok := cache.Peek[[]models.Subscription](ctx, s.query, cache.KeySubscriptionsAll)
	if !ok {
		return nil
	}
	for _, sub := range all {
		if sub.ID == id && !sub.Status.Deletable() {
			return apperr.Validation(
				fmt.Sprintf("Only pending or inactive subscriptions can be deleted. This one is %s.", sub.Status),
				ErrNotDeletable,
			)
		}
	}
	return nil
}
