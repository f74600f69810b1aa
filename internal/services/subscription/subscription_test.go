package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bukafresh-client/internal/cache"
	"github.com/magabrotheeeer/bukafresh-client/internal/config"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/apperr"
	"github.com/magabrotheeeer/bukafresh-client/internal/models"
)

type APIMock struct{ mock.Mock }

func (m *APIMock) CurrentSubscription(ctx context.Context) (*models.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *APIMock) Subscriptions(ctx context.Context) ([]models.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func (m *APIMock) CreateSubscription(ctx context.Context, req models.CreateSubscriptionRequest) (models.Subscription, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Subscription), args.Error(1)
}

func (m *APIMock) PauseSubscription(ctx context.Context, id string) (models.Subscription, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Subscription), args.Error(1)
}

func (m *APIMock) ResumeSubscription(ctx context.Context, id string) (models.Subscription, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Subscription), args.Error(1)
}

func (m *APIMock) CancelSubscription(ctx context.Context, id string) (models.Subscription, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Subscription), args.Error(1)
}

func (m *APIMock) ActivateSubscription(ctx context.Context, id string) (models.Subscription, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Subscription), args.Error(1)
}

func (m *APIMock) DeleteSubscription(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type authStub bool

func (a authStub) IsAuthenticated() bool { return bool(a) }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(api SubscriptionAPI, auth Authenticator) (*SubscriptionService, *cache.Memory) {
	mem := cache.NewMemory()
	q := cache.NewQueryClient(mem, config.Cache{StaleTime: time.Minute, RetryDelay: time.Millisecond}, newNoopLogger())
	return NewSubscriptionService(api, auth, q, newNoopLogger()), mem
}

func seed(t *testing.T, c cache.Cache, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, c.Set(context.Background(), k, map[string]string{"k": k}, time.Minute))
	}
}

func cached(t *testing.T, c cache.Cache, key string) bool {
	t.Helper()
	var v any
	found, err := c.Get(context.Background(), key, &v)
	require.NoError(t, err)
	return found
}

func TestSubscriptionService_Current_Caches(t *testing.T) {
	ctx := context.Background()
	api := new(APIMock)
	api.On("CurrentSubscription", ctx).Return(&models.Subscription{ID: "s1", Status: models.StatusActive}, nil).Once()
	s, _ := newTestService(api, authStub(true))

	sub, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s1", sub.ID)

	sub, err = s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s1", sub.ID)
	api.AssertNumberOfCalls(t, "CurrentSubscription", 1)
	assert.True(t, s.HasActiveSubscription(ctx))
}

func TestSubscriptionService_ReadsRequireSession(t *testing.T) {
	api := new(APIMock)
	s, _ := newTestService(api, authStub(false))

	_, err := s.Current(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	_, err = s.All(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	api.AssertNotCalled(t, "CurrentSubscription", mock.Anything)
}

func TestSubscriptionService_Current_RetryPolicy(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCalls int
	}{
		{"not found is not retried", apperr.New(apperr.KindNotFound, "No subscription found"), 1},
		{"auth is not retried", apperr.New(apperr.KindUnauthenticated, "Please log in to continue."), 1},
		{"permission is not retried", apperr.New(apperr.KindPermissionDenied, "x"), 1},
		{"server is not retried", apperr.New(apperr.KindServer, "x"), 1},
		{"network is retried three times", apperr.New(apperr.KindNetwork, "x"), 4},
		{"timeout is retried three times", apperr.New(apperr.KindTimeout, "x"), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			api := new(APIMock)
			api.On("CurrentSubscription", ctx).Return(nil, tt.err)
			s, _ := newTestService(api, authStub(true))

			_, err := s.Current(ctx)
			require.Error(t, err)
			api.AssertNumberOfCalls(t, "CurrentSubscription", tt.wantCalls)
			assert.False(t, s.HasActiveSubscription(ctx))
		})
	}
}

func TestSubscriptionService_Mutations_Invalidate(t *testing.T) {
	sub := models.Subscription{ID: "s1"}
	tests := []struct {
		name        string
		setup       func(api *APIMock)
		run         func(s *SubscriptionService) error
		profileGone bool
	}{
		{
			name:  "create",
			setup: func(api *APIMock) { api.On("CreateSubscription", mock.Anything, mock.Anything).Return(sub, nil) },
			run: func(s *SubscriptionService) error {
				_, err := s.Create(context.Background(), models.CreateSubscriptionRequest{Tier: "STANDARD", BillingCycle: "MONTHLY"})
				return err
			},
			profileGone: true,
		},
		{
			name:  "pause",
			setup: func(api *APIMock) { api.On("PauseSubscription", mock.Anything, "s1").Return(sub, nil) },
			run: func(s *SubscriptionService) error {
				_, err := s.Pause(context.Background(), "s1")
				return err
			},
		},
		{
			name:  "resume",
			setup: func(api *APIMock) { api.On("ResumeSubscription", mock.Anything, "s1").Return(sub, nil) },
			run: func(s *SubscriptionService) error {
				_, err := s.Resume(context.Background(), "s1")
				return err
			},
		},
		{
			name:  "cancel",
			setup: func(api *APIMock) { api.On("CancelSubscription", mock.Anything, "s1").Return(sub, nil) },
			run: func(s *SubscriptionService) error {
				_, err := s.Cancel(context.Background(), "s1")
				return err
			},
		},
		{
			name:  "activate",
			setup: func(api *APIMock) { api.On("ActivateSubscription", mock.Anything, "s1").Return(sub, nil) },
			run: func(s *SubscriptionService) error {
				_, err := s.Activate(context.Background(), "s1")
				return err
			},
			profileGone: true,
		},
		{
			name:  "delete",
			setup: func(api *APIMock) { api.On("DeleteSubscription", mock.Anything, "s1").Return(nil) },
			run: func(s *SubscriptionService) error {
				return s.Delete(context.Background(), "s1")
			},
			profileGone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(APIMock)
			tt.setup(api)
			s, mem := newTestService(api, authStub(true))
			seed(t, mem, cache.KeySubscription, cache.KeySubscriptionsAll, cache.KeyUserProfile, cache.KeyPaymentsUser)

			require.NoError(t, tt.run(s))
			assert.False(t, cached(t, mem, cache.KeySubscription))
			assert.False(t, cached(t, mem, cache.KeySubscriptionsAll))
			assert.Equal(t, !tt.profileGone, cached(t, mem, cache.KeyUserProfile))
			assert.True(t, cached(t, mem, cache.KeyPaymentsUser))
		})
	}
}

func TestSubscriptionService_MutationFailure_KeepsCache(t *testing.T) {
	ctx := context.Background()
	api := new(APIMock)
	api.On("PauseSubscription", ctx, "s1").Return(models.Subscription{}, apperr.New(apperr.KindServer, "down"))
	s, mem := newTestService(api, authStub(true))
	require.NoError(t, mem.Set(ctx, cache.KeySubscription, &models.Subscription{ID: "s1", Status: models.StatusActive}, time.Minute))

	_, err := s.Pause(ctx, "s1")
	assert.ErrorIs(t, err, apperr.ErrServer)
	assert.True(t, s.HasActiveSubscription(ctx))
	assert.False(t, s.IsPaused(ctx))
	assert.False(t, s.Pending(ActionPause))
}

func TestSubscriptionService_Create_Validation(t *testing.T) {
	api := new(APIMock)
	s, _ := newTestService(api, authStub(true))

	_, err := s.Create(context.Background(), models.CreateSubscriptionRequest{Tier: "GOLD", BillingCycle: "MONTHLY"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	api.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)

	_, err = s.Pause(context.Background(), "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSubscriptionService_Delete_ActiveRefused(t *testing.T) {
	ctx := context.Background()
	api := new(APIMock)
	api.On("Subscriptions", ctx).Return([]models.Subscription{
		{ID: "s1", Status: models.StatusActive},
		{ID: "s2", Status: models.StatusPending},
	}, nil)
	api.On("DeleteSubscription", ctx, "s2").Return(nil)
	s, _ := newTestService(api, authStub(true))

	_, err := s.All(ctx)
	require.NoError(t, err)

	err = s.Delete(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotDeletable)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	api.AssertNotCalled(t, "DeleteSubscription", ctx, "s1")

	require.NoError(t, s.Delete(ctx, "s2"))
}

func TestSubscriptionService_Predicates(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		status    models.SubscriptionStatus
		active    bool
		paused    bool
		cancelled bool
	}{
		{models.StatusActive, true, false, false},
		{models.StatusPaused, false, true, false},
		{models.StatusCanceled, false, false, true},
		{models.StatusPending, false, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			s, mem := newTestService(new(APIMock), authStub(true))
			require.NoError(t, mem.Set(ctx, cache.KeySubscription, &models.Subscription{Status: tt.status}, time.Minute))

			assert.Equal(t, tt.active, s.HasActiveSubscription(ctx))
			assert.Equal(t, tt.paused, s.IsPaused(ctx))
			assert.Equal(t, tt.cancelled, s.IsCancelled(ctx))
		})
	}

	s, _ := newTestService(new(APIMock), authStub(true))
	assert.False(t, s.HasActiveSubscription(ctx))
}
