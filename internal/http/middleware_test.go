package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/corderos/corderos-go/internal/domain/auth"
	"github.com/corderos/corderos-go/internal/service"
)

// stubValidator returns a canned validation result.
type stubValidator struct {
	result service.ValidateResult
}

func (s stubValidator) Validate(string) service.ValidateResult {
	return s.result
}

func testCookies() SessionCookies {
	return SessionCookies{Name: "corderos_session"}
}

func okHandler(t *testing.T, wantSubject string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetUserSessionFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantSubject, session.Subject)
		w.WriteHeader(http.StatusNoContent)
	})
}

func validSession(role domainauth.Role) service.ValidateResult {
	now := time.Now()
	return service.ValidateResult{
		Session: domainauth.Session{
			Subject:   "alice",
			Role:      role,
			IssuedAt:  now,
			ExpiresAt: now.Add(12 * time.Hour),
		},
		Present: true,
	}
}

func requestWithCookie(carrier string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if carrier != "" {
		req.AddCookie(&http.Cookie{Name: "corderos_session", Value: carrier})
	}
	return req
}

func TestRequireUser_NoCookie(t *testing.T) {
	guard := RequireUser(stubValidator{}, testCookies())
	rec := httptest.NewRecorder()

	guard(okHandler(t, "")).ServeHTTP(rec, requestWithCookie(""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication_required")
}

func TestRequireUser_InvalidCarrierClearsCookie(t *testing.T) {
	guard := RequireUser(stubValidator{}, testCookies())
	rec := httptest.NewRecorder()

	guard(okHandler(t, "")).ServeHTTP(rec, requestWithCookie("bogus"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "corderos_session", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestRequireUser_ValidSession(t *testing.T) {
	guard := RequireUser(stubValidator{result: validSession(domainauth.RoleStandard)}, testCookies())
	rec := httptest.NewRecorder()

	guard(okHandler(t, "alice")).ServeHTTP(rec, requestWithCookie("carrier"))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestRequireUser_RenewalWritesFreshCookie(t *testing.T) {
	result := validSession(domainauth.RoleStandard)
	result.RefreshedCarrier = "fresh-carrier"
	guard := RequireUser(stubValidator{result: result}, testCookies())
	rec := httptest.NewRecorder()

	guard(okHandler(t, "alice")).ServeHTTP(rec, requestWithCookie("old-carrier"))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "fresh-carrier", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Positive(t, cookies[0].MaxAge)
}

func TestRequireAdmin_StandardRoleIsForbiddenNotUnauthorized(t *testing.T) {
	guard := RequireAdmin(stubValidator{result: validSession(domainauth.RoleStandard)}, testCookies())
	rec := httptest.NewRecorder()

	guard(okHandler(t, "alice")).ServeHTTP(rec, requestWithCookie("carrier"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin_required")
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	guard := RequireAdmin(stubValidator{result: validSession(domainauth.RoleAdmin)}, testCookies())
	rec := httptest.NewRecorder()

	guard(okHandler(t, "alice")).ServeHTTP(rec, requestWithCookie("carrier"))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAdmin_AnonymousIsUnauthorized(t *testing.T) {
	guard := RequireAdmin(stubValidator{}, testCookies())
	rec := httptest.NewRecorder()

	guard(okHandler(t, "")).ServeHTTP(rec, requestWithCookie(""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalUser_AnonymousPassesThrough(t *testing.T) {
	var sawSession bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawSession = GetUserSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()

	OptionalUser(stubValidator{}, testCookies())(next).ServeHTTP(rec, requestWithCookie(""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, sawSession)
}

func TestOptionalUser_AttachesSession(t *testing.T) {
	guard := OptionalUser(stubValidator{result: validSession(domainauth.RoleStandard)}, testCookies())
	rec := httptest.NewRecorder()

	guard(okHandler(t, "alice")).ServeHTTP(rec, requestWithCookie("carrier"))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
