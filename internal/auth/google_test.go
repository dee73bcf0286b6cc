package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	sharedauth "resume-builder/internal/shared/auth"
	"resume-builder/internal/users"
)

func fakeGoogle(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"42","email":"ada@example.com","name":"Ada Lovelace","given_name":"Ada","family_name":"Lovelace"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestGoogle(t *testing.T, store UserStore) (*GoogleService, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := fakeGoogle(t)
	svc := NewGoogleService("client", "secret", "http://api.local/callback", "http://ui.local/login?next=%2F", store)
	svc.oauthConfig.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	svc.userInfoURL = srv.URL + "/userinfo"

	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/v1"))
	return svc, r
}

func TestGoogleLoginFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := users.NewService(users.NewMemoryRepo())
	_, r := newTestGoogle(t, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil))
	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?code=good-code&state="+state, nil))
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	redirect, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "ui.local", redirect.Host)
	assert.Equal(t, "/", redirect.Query().Get("next"))
	claims, err := sharedauth.VerifyJWT(redirect.Query().Get("token"))
	require.NoError(t, err)
	assert.Equal(t, "google:42", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)

	u, err := store.GetByID(context.Background(), "google:42")
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", u.FamilyName)

	// states are single use
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?code=good-code&state="+state, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoogleCallbackRejectsBadCode(t *testing.T) {
	svc, r := newTestGoogle(t, nil)
	svc.states.put("s1", time.Minute)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?code=bad&state=s1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoogleStartNotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewGoogleService("", "", "", "", nil).RegisterRoutes(r.Group("/api/v1"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStateStoreExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newStateStore(func() time.Time { return now })
	s.put("a", time.Minute)
	s.put("b", time.Minute)

	now = now.Add(2 * time.Minute)
	assert.False(t, s.consume("a"))
	s.put("c", time.Minute)
	assert.NotContains(t, s.items, "b")
	assert.True(t, s.consume("c"))
	assert.False(t, s.consume("c"))
}
