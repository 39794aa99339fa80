package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corderos/corderos-go/internal/adapters/sessionjwt"
	domainstats "github.com/corderos/corderos-go/internal/domain/stats"
	authmocks "github.com/corderos/corderos-go/internal/mocks/auth"
	statsmocks "github.com/corderos/corderos-go/internal/mocks/stats"
	"github.com/corderos/corderos-go/internal/service"
)

const testCookieName = "corderos_session"

func newTestRouter(t *testing.T, dir *authmocks.FakeDirectory) http.Handler {
	t.Helper()

	codec, err := sessionjwt.NewCodec("router-test-secret")
	require.NoError(t, err)

	auth := service.NewAuthService(service.AuthServiceOptions{
		Verifier: service.NewCredentialVerifier(dir, nil),
		Roles:    service.NewRoleResolver(dir, "administrators", nil),
		Sessions: service.NewSessionManager(codec, 12*time.Hour),
	})

	stats := service.NewStatsService(service.StatsServiceOptions{
		Source: &statsmocks.FakeSource{
			Teams:   []domainstats.TeamForm{{TeamID: 1, TeamName: "Boston Celtics", NetRating: 11.2}},
			Players: []domainstats.PlayerLine{{PlayerID: 1, PlayerName: "Star", TeamID: 1, Points: 30}},
			Rookies: []domainstats.PlayerLine{{PlayerID: 2, PlayerName: "Rookie", TeamID: 1, Points: 18}},
			WinPcts: map[int64]float64{1: 0.8},
		},
		Cache:  statsmocks.NewMemoryCache(),
		Season: "2025-26",
	})

	return NewRouter(RouterServices{
		Auth:    auth,
		Stats:   stats,
		Cookies: SessionCookies{Name: testCookieName},
	})
}

func seededDirectory() *authmocks.FakeDirectory {
	dir := authmocks.NewFakeDirectory()
	dir.AddUser("alice", "uid=alice,ou=people,dc=example,dc=com", "s3cret", true)
	dir.AddUser("bob", "uid=bob,ou=people,dc=example,dc=com", "hunter2", false)
	return dir
}

func loginForm(t *testing.T, router http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestRouter_LoginFormSuccess(t *testing.T) {
	router := newTestRouter(t, seededDirectory())

	rec := loginForm(t, router, "bob", "hunter2")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "bob", body["username"])
	assert.Equal(t, "standard", body["role"])

	cookie := sessionCookie(t, rec)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.False(t, cookie.Secure) // plain-HTTP test request
	assert.InDelta(t, (12 * time.Hour).Seconds(), float64(cookie.MaxAge), 5)
}

func TestRouter_LoginJSONSuccess(t *testing.T) {
	router := newTestRouter(t, seededDirectory())

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}

func TestRouter_LoginSecureCookieBehindProxy(t *testing.T) {
	router := newTestRouter(t, seededDirectory())

	form := url.Values{"username": {"bob"}, "password": {"hunter2"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sessionCookie(t, rec).Secure)
}

func TestRouter_LoginFailuresAreOpaque(t *testing.T) {
	dir := seededDirectory()
	router := newTestRouter(t, dir)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "bob", "wrong"},
		{"unknown user", "ghost", "whatever"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := loginForm(t, router, tc.username, tc.password)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "invalid_credentials")
			// No hint about which phase failed, and no cookie.
			assert.NotContains(t, rec.Body.String(), "password")
			assert.NotContains(t, rec.Body.String(), "user")
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestRouter_LoginDirectoryOutageIsOpaque(t *testing.T) {
	dir := seededDirectory()
	dir.FindErr = assert.AnError
	router := newTestRouter(t, dir)

	rec := loginForm(t, router, "bob", "hunter2")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_credentials")
}

func TestRouter_LoginMissingFields(t *testing.T) {
	router := newTestRouter(t, seededDirectory())

	rec := loginForm(t, router, "bob", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_LogoutIsIdempotent(t *testing.T) {
	router := newTestRouter(t, seededDirectory())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		cookie := sessionCookie(t, rec)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}

func TestRouter_SessionEndpoint(t *testing.T) {
	router := newTestRouter(t, seededDirectory())

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"authenticated":false`)
	})

	t.Run("authenticated", func(t *testing.T) {
		login := loginForm(t, router, "alice", "s3cret")
		cookie := sessionCookie(t, login)

		req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["authenticated"])
		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "alice", user["username"])
		assert.Equal(t, "admin", user["role"])
	})
}

func TestRouter_TrackerRequiresSession(t *testing.T) {
	router := newTestRouter(t, seededDirectory())

	req := httptest.NewRequest(http.MethodGet, "/nba/tracker", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_TrackerWithStandardSession(t *testing.T) {
	router := newTestRouter(t, seededDirectory())
	cookie := sessionCookie(t, loginForm(t, router, "bob", "hunter2"))

	req := httptest.NewRequest(http.MethodGet, "/nba/tracker", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2025-26", body["season"])
	assert.NotEmpty(t, body["team_form"])
	assert.NotEmpty(t, body["mvp_ladder"])
	assert.NotEmpty(t, body["roy_ladder"])
}

func TestRouter_RefreshRequiresAdmin(t *testing.T) {
	router := newTestRouter(t, seededDirectory())

	t.Run("standard user is forbidden", func(t *testing.T) {
		cookie := sessionCookie(t, loginForm(t, router, "bob", "hunter2"))

		req := httptest.NewRequest(http.MethodPost, "/nba/refresh", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "admin_required")
	})

	t.Run("admin succeeds", func(t *testing.T) {
		cookie := sessionCookie(t, loginForm(t, router, "alice", "s3cret"))

		req := httptest.NewRequest(http.MethodPost, "/nba/refresh", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "refreshed")
	})
}

func TestRouter_TamperedCookieIsRejectedAndCleared(t *testing.T) {
	router := newTestRouter(t, seededDirectory())
	cookie := sessionCookie(t, loginForm(t, router, "alice", "s3cret"))

	mutated := []byte(cookie.Value)
	mutated[len(mutated)-1] ^= 0x04
	cookie.Value = string(mutated)

	req := httptest.NewRequest(http.MethodGet, "/nba/tracker", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cleared := sessionCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t, seededDirectory())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
