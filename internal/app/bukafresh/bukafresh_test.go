package bukafresh

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bukafresh-client/internal/config"
	"github.com/magabrotheeeer/bukafresh-client/internal/models"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func respond(w http.ResponseWriter, r *http.Request, status int, success bool, message string, data any) {
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"success": success, "message": message, "data": data})
}

// fakeBackend отвечает на вход, профиль и текущую подписку.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		require.NoError(t, render.DecodeJSON(r.Body, &req))
		respond(w, r, http.StatusOK, true, "Login successful", models.AuthData{Token: "tok", Email: req.Email, UserID: "u1"})
	})
	r.Get("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		respond(w, r, http.StatusOK, true, "", models.Profile{ID: "p1", UserID: "u1", FullName: "Ada Obi"})
	})
	r.Get("/api/subscriptions/current", func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusNotFound, false, "No subscription found", nil)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL, storagePath string) *config.Config {
	return &config.Config{
		Env:          config.EnvLocal,
		API:          config.API{BaseURL: baseURL + "/api", Timeout: 2 * time.Second},
		Storage:      config.Storage{Path: storagePath},
		Cache:        config.Cache{Backend: config.CacheMemory, StaleTime: time.Minute, RetryDelay: time.Millisecond},
		HTTPServer:   config.HTTPServer{AddressHTTP: "127.0.0.1:0"},
		Verification: config.Verification{RedirectDelay: 2 * time.Second},
	}
}

func call(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, rd))
	return rr
}

func TestApp_SessionGuardsAndLogin(t *testing.T) {
	backend := fakeBackend(t)
	a, err := New(context.Background(), testConfig(backend.URL, ""), newNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	h := a.Handler()

	rr := call(t, h, http.MethodGet, "/api/v1/profile", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = call(t, h, http.MethodPost, "/api/v1/session/login", `{"email":"ada@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, a.Session.IsAuthenticated())

	rr = call(t, h, http.MethodGet, "/api/v1/profile", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Ada Obi")

	rr = call(t, h, http.MethodGet, "/api/v1/subscriptions/current", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "No subscription found")

	rr = call(t, h, http.MethodPost, "/api/v1/session/logout", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, a.Session.IsAuthenticated())
}

func TestApp_PublicRoutes(t *testing.T) {
	backend := fakeBackend(t)
	a, err := New(context.Background(), testConfig(backend.URL, ""), newNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	h := a.Handler()

	assert.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/v1/health", "").Code)
	assert.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/v1/packages", "").Code)
	assert.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/v1/checkout", "").Code)

	rr := call(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "bukafresh_api_requests_total")
}

func TestApp_RestoresSessionFromFile(t *testing.T) {
	backend := fakeBackend(t)
	path := filepath.Join(t.TempDir(), "session.db")

	a, err := New(context.Background(), testConfig(backend.URL, path), newNoopLogger())
	require.NoError(t, err)
	_, err = a.Session.Login(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := New(context.Background(), testConfig(backend.URL, path), newNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	assert.True(t, b.Session.IsAuthenticated())
	require.NotNil(t, b.Session.User())
	assert.Equal(t, "ada@example.com", b.Session.User().Email)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	backend := fakeBackend(t)
	a, err := New(context.Background(), testConfig(backend.URL, ""), newNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
