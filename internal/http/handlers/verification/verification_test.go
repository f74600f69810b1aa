package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bukafresh-client/internal/lib/apperr"
	sessionservice "github.com/magabrotheeeer/bukafresh-client/internal/services/session"
	verificationservice "github.com/magabrotheeeer/bukafresh-client/internal/services/verification"
)

type VerifierMock struct {
	mock.Mock
}

func (m *VerifierMock) VerifyEmail(ctx context.Context, token, userID string) (sessionservice.VerifyResult, error) {
	args := m.Called(ctx, token, userID)
	return args.Get(0).(sessionservice.VerifyResult), args.Error(1)
}

func (m *VerifierMock) ResendVerificationEmail(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func viewOf(t *testing.T, rr *httptest.ResponseRecorder) verificationservice.View {
	t.Helper()
	var env struct {
		Data verificationservice.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env.Data
}

func TestHandler_Verify_OnlyOnce(t *testing.T) {
	v := new(VerifierMock)
	v.On("VerifyEmail", mock.Anything, "tok", "u1").
		Return(sessionservice.VerifyResult{Message: "Your email has been successfully verified", Authenticated: true}, nil).Once()
	h := New(newNoopLogger(), v, 2*time.Second)

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.Verify(rr, httptest.NewRequest(http.MethodGet, "/verify-email?token=tok&userId=u1", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		view := viewOf(t, rr)
		assert.Equal(t, verificationservice.StateSuccess, view.State)
		assert.Equal(t, 2*time.Second, view.RedirectAfter)
	}
	v.AssertNumberOfCalls(t, "VerifyEmail", 1)
}

func TestHandler_Verify_States(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		mockErr   error
		callsAPI  bool
		wantState verificationservice.State
	}{
		{"no token", "", nil, false, verificationservice.StateExpired},
		{"no user id", "?token=tok", nil, false, verificationservice.StateError},
		{"expired", "?token=tok&userId=u1", apperr.New(apperr.KindLinkExpired, "This verification link has expired. Please request a new one."), true, verificationservice.StateExpired},
		{"already verified", "?token=tok&userId=u1", apperr.New(apperr.KindAlreadyVerified, "Your email is already verified!"), true, verificationservice.StateSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := new(VerifierMock)
			if tt.callsAPI {
				v.On("VerifyEmail", mock.Anything, "tok", "u1").Return(sessionservice.VerifyResult{}, tt.mockErr).Once()
			}
			h := New(newNoopLogger(), v, time.Second)

			rr := httptest.NewRecorder()
			h.Verify(rr, httptest.NewRequest(http.MethodGet, "/verify-email"+tt.query, nil))
			assert.Equal(t, tt.wantState, viewOf(t, rr).State)
			v.AssertExpectations(t)
		})
	}
}

func TestHandler_Resend(t *testing.T) {
	v := new(VerifierMock)
	v.On("ResendVerificationEmail", mock.Anything, "ada@example.com").Return("sent", nil).Once()
	v.On("ResendVerificationEmail", mock.Anything, "spam@example.com").
		Return("", apperr.New(apperr.KindRateLimited, "You've requested too many verification emails. Please wait a few minutes before trying again.")).Once()
	h := New(newNoopLogger(), v, time.Second)

	rr := httptest.NewRecorder()
	h.Resend(rr, httptest.NewRequest(http.MethodPost, "/verify-email/resend", bytes.NewBufferString(`{"email":"ada@example.com"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	view := viewOf(t, rr)
	assert.True(t, view.ResendSent)
	assert.Equal(t, verificationservice.StateExpired, view.State)

	rr = httptest.NewRecorder()
	h.Resend(rr, httptest.NewRequest(http.MethodPost, "/verify-email/resend", bytes.NewBufferString(`{"email":"not-an-email"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), verificationservice.MsgInvalidEmail)

	rr = httptest.NewRecorder()
	h.Resend(rr, httptest.NewRequest(http.MethodPost, "/verify-email/resend", bytes.NewBufferString(`{"email":"spam@example.com"}`)))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	v.AssertExpectations(t)
}

func TestHandler_ResendBeforeVerifyKeepsLinkUsable(t *testing.T) {
	v := new(VerifierMock)
	v.On("ResendVerificationEmail", mock.Anything, "a@x.com").Return("sent", nil).Once()
	v.On("VerifyEmail", mock.Anything, "tok", "u1").
		Return(sessionservice.VerifyResult{Message: "Your email has been successfully verified"}, nil).Once()
	h := New(newNoopLogger(), v, time.Second)

	rr := httptest.NewRecorder()
	h.Resend(rr, httptest.NewRequest(http.MethodPost, "/verify-email/resend", bytes.NewBufferString(`{"email":"a@x.com","token":"tok"}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Verify(rr, httptest.NewRequest(http.MethodGet, "/verify-email?token=tok&userId=u1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, verificationservice.StateSuccess, viewOf(t, rr).State)
	v.AssertExpectations(t)
}

func TestHandler_ResendReportsOpenScreen(t *testing.T) {
	v := new(VerifierMock)
	v.On("VerifyEmail", mock.Anything, "tok", "u1").
		Return(sessionservice.VerifyResult{}, apperr.New(apperr.KindLinkExpired, "This verification link has expired. Please request a new one.")).Once()
	v.On("ResendVerificationEmail", mock.Anything, "a@x.com").Return("sent", nil).Once()
	h := New(newNoopLogger(), v, time.Second)

	rr := httptest.NewRecorder()
	h.Verify(rr, httptest.NewRequest(http.MethodGet, "/verify-email?token=tok&userId=u1", nil))
	require.Equal(t, verificationservice.StateExpired, viewOf(t, rr).State)

	rr = httptest.NewRecorder()
	h.Resend(rr, httptest.NewRequest(http.MethodPost, "/verify-email/resend", bytes.NewBufferString(`{"email":"a@x.com","token":"tok","userId":"u1"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, viewOf(t, rr).ResendSent)

	rr = httptest.NewRecorder()
	h.Verify(rr, httptest.NewRequest(http.MethodGet, "/verify-email?token=tok&userId=u1", nil))
	view := viewOf(t, rr)
	assert.Equal(t, verificationservice.StateExpired, view.State)
	assert.True(t, view.ResendSent)
	v.AssertExpectations(t)
}

func TestHandler_FlowsKeyedByTokenAndUser(t *testing.T) {
	v := new(VerifierMock)
	h := New(newNoopLogger(), v, time.Second)

	rr := httptest.NewRecorder()
	h.Verify(rr, httptest.NewRequest(http.MethodGet, "/verify-email?token=tok", nil))
	require.Equal(t, verificationservice.StateError, viewOf(t, rr).State)

	v.On("VerifyEmail", mock.Anything, "tok", "u1").
		Return(sessionservice.VerifyResult{Message: "ok"}, nil).Once()
	rr = httptest.NewRecorder()
	h.Verify(rr, httptest.NewRequest(http.MethodGet, "/verify-email?token=tok&userId=u1", nil))
	assert.Equal(t, verificationservice.StateSuccess, viewOf(t, rr).State)
	v.AssertExpectations(t)
}

func TestHandler_FlowsAreBounded(t *testing.T) {
	h := New(newNoopLogger(), new(VerifierMock), time.Second)
	first := h.flow("tok-0", "u")
	for i := 1; i <= maxFlows; i++ {
		h.flow(fmt.Sprintf("tok-%d", i), "u")
	}
	assert.Len(t, h.flows, maxFlows)
	assert.NotSame(t, first, h.flow("tok-0", "u"))
}
