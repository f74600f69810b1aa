package services

import (
	"context"
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

type ProfileAPIMock struct{ mock.Mock }

func (m *ProfileAPIMock) Me(ctx context.Context) (models.Profile, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Profile), args.Error(1)
}

type authStub bool

func (a authStub) IsAuthenticated() bool { return bool(a) }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(api ProfileAPI, auth bool) *ProfileService {
	q := cache.NewQueryClient(cache.NewMemory(), config.Cache{StaleTime: time.Minute, RetryDelay: time.Millisecond}, newNoopLogger())
	return NewProfileService(api, authStub(auth), q, newNoopLogger())
}

func TestProfile_CachedAndRefreshed(t *testing.T) {
	ctx := context.Background()
	api := new(ProfileAPIMock)
	api.On("Me", mock.Anything).Return(models.Profile{ID: "p1", FirstName: "Ada"}, nil)
	s := newService(api, true)

	p, err := s.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.FirstName)

	_, err = s.Profile(ctx)
	require.NoError(t, err)
	api.AssertNumberOfCalls(t, "Me", 1)

	s.Refresh(ctx)
	_, err = s.Profile(ctx)
	require.NoError(t, err)
	api.AssertNumberOfCalls(t, "Me", 2)
}

func TestProfile_RequiresSession(t *testing.T) {
	api := new(ProfileAPIMock)
	s := newService(api, false)

	_, err := s.Profile(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	api.AssertNotCalled(t, "Me", mock.Anything)
}

func TestProfile_Retry(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCalls int
	}{
		{"log in required", apperr.New(apperr.KindUnauthenticated, "Please log in to view your profile."), 1},
		{"permission", apperr.New(apperr.KindPermissionDenied, "You don't have permission to view this profile."), 1},
		{"not found is retried", apperr.New(apperr.KindNotFound, "Profile not found. Please contact support."), 4},
		{"server is retried", apperr.New(apperr.KindServer, "down"), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(ProfileAPIMock)
			api.On("Me", mock.Anything).Return(models.Profile{}, tt.err)
			s := newService(api, true)

			_, err := s.Profile(context.Background())
			assert.ErrorIs(t, err, tt.err)
			api.AssertNumberOfCalls(t, "Me", tt.wantCalls)
		})
	}
}
