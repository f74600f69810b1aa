package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bukafresh-client/internal/lib/apperr"
	"github.com/magabrotheeeer/bukafresh-client/internal/models"
)

type SessionServiceMock struct {
	mock.Mock
}

func (m *SessionServiceMock) Login(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *SessionServiceMock) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *SessionServiceMock) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *SessionServiceMock) IsAuthenticated() bool {
	return m.Called().Bool(0)
}

func (m *SessionServiceMock) User() *models.User {
	u, _ := m.Called().Get(0).(*models.User)
	return u
}

func (m *SessionServiceMock) Loading() bool {
	return m.Called().Bool(0)
}

func (m *SessionServiceMock) TokenExpired() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Kind   string          `json:"kind"`
	Data   json.RawMessage `json:"data"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockUser       *models.User
		mockErr        error
		callService    bool
		wantStatusCode int
		wantError      string
		wantKind       string
	}{
		{
			name:           "valid login",
			body:           `{"email":"ada@example.com","password":"secret1"}`,
			mockUser:       &models.User{UserID: "u1", Email: "ada@example.com"},
			callService:    true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid json body",
			body:           "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "invalid email",
			body:           `{"email":"ada","password":"secret1"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Email must be a valid email address",
			wantKind:       "validation-failed",
		},
		{
			name:           "wrong credentials",
			body:           `{"email":"ada@example.com","password":"wrong"}`,
			mockErr:        apperr.New(apperr.KindUnauthenticated, "Invalid email or password. Please check your credentials and try again."),
			callService:    true,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "Invalid email or password. Please check your credentials and try again.",
			wantKind:       "authentication-required",
		},
		{
			name:           "email not verified",
			body:           `{"email":"ada@example.com","password":"secret1"}`,
			mockErr:        apperr.New(apperr.KindPermissionDenied, "Please verify your email before signing in. Check your inbox for the verification link."),
			callService:    true,
			wantStatusCode: http.StatusForbidden,
			wantKind:       "permission-denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(SessionServiceMock)
			if tt.callService {
				svc.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(tt.mockUser, tt.mockErr).Once()
			}
			h := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/session/login", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			h.Login(rr, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			env := decode(t, rr)
			if tt.wantStatusCode == http.StatusOK {
				assert.Equal(t, "OK", env.Status)
				var u models.User
				require.NoError(t, json.Unmarshal(env.Data, &u))
				assert.Equal(t, "u1", u.UserID)
			} else {
				assert.Equal(t, "Error", env.Status)
				if tt.wantError != "" {
					assert.Contains(t, env.Error, tt.wantError)
				}
				assert.Equal(t, tt.wantKind, env.Kind)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Register(t *testing.T) {
	body := `{"firstName":"Ada","lastName":"Obi","email":"ada@example.com","password":"secret1","phone":"08012345678"}`

	t.Run("created", func(t *testing.T) {
		svc := new(SessionServiceMock)
		svc.On("Register", mock.Anything, mock.MatchedBy(func(r models.RegisterRequest) bool {
			return r.Email == "ada@example.com" && r.Phone == "08012345678"
		})).Return("Registration successful. Please verify your email.", nil)
		h := New(newNoopLogger(), svc)

		rr := httptest.NewRecorder()
		h.Register(rr, httptest.NewRequest(http.MethodPost, "/session/register", bytes.NewBufferString(body)))

		assert.Equal(t, http.StatusCreated, rr.Code)
		env := decode(t, rr)
		assert.Contains(t, string(env.Data), "Please verify your email.")
	})

	t.Run("phone conflict", func(t *testing.T) {
		svc := new(SessionServiceMock)
		svc.On("Register", mock.Anything, mock.Anything).
			Return("", apperr.New(apperr.KindConflictPhone, "This phone number is already in use. Please use a different number."))
		h := New(newNoopLogger(), svc)

		rr := httptest.NewRecorder()
		h.Register(rr, httptest.NewRequest(http.MethodPost, "/session/register", bytes.NewBufferString(body)))

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "conflict-phone", decode(t, rr).Kind)
	})

	t.Run("bad phone", func(t *testing.T) {
		svc := new(SessionServiceMock)
		h := New(newNoopLogger(), svc)
		bad := `{"firstName":"Ada","lastName":"Obi","email":"ada@example.com","password":"secret1","phone":"555"}`

		rr := httptest.NewRecorder()
		h.Register(rr, httptest.NewRequest(http.MethodPost, "/session/register", bytes.NewBufferString(bad)))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})
}

func TestHandler_LogoutAndStatus(t *testing.T) {
	svc := new(SessionServiceMock)
	svc.On("Logout", mock.Anything).Return(nil).Once()
	svc.On("IsAuthenticated").Return(true)
	svc.On("User").Return(&models.User{UserID: "u1", Email: "ada@example.com"})
	svc.On("Loading").Return(false)
	svc.On("TokenExpired").Return(true, nil)
	h := New(newNoopLogger(), svc)

	rr := httptest.NewRecorder()
	h.Status(rr, httptest.NewRequest(http.MethodGet, "/session", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var st Status
	require.NoError(t, json.Unmarshal(decode(t, rr).Data, &st))
	assert.True(t, st.Authenticated)
	assert.True(t, st.TokenExpired)
	assert.Equal(t, "u1", st.User.UserID)

	rr = httptest.NewRecorder()
	h.Logout(rr, httptest.NewRequest(http.MethodPost, "/session/logout", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}
