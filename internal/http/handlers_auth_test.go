package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkops/reserve-ui-api/internal/adapters/memory"
	domainauth "github.com/parkops/reserve-ui-api/internal/domain/auth"
	"github.com/parkops/reserve-ui-api/internal/ports"
	"github.com/parkops/reserve-ui-api/internal/service"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := memory.NewCredentialStore()
	svc := service.NewAuthService(service.AuthServiceOptions{
		Store:    store,
		Sessions: memory.NewSessionRegistry(),
	})

	ctx := context.Background()
	require.NoError(t, store.Enroll(ctx, ports.EnrollInput{
		Kind: domainauth.KindRoot, ID: domainauth.RootIdentifier,
		DisplayName: "Root Administrator", Role: domainauth.RoleAdmin, Password: "root",
	}))
	require.NoError(t, store.Enroll(ctx, ports.EnrollInput{
		Kind: domainauth.KindStaff, ID: "STAFF-001",
		DisplayName: "Chen Wei", Role: "监测员", Password: "Pw1",
	}))

	return NewRouter(RouterServices{Auth: svc})
}

func doLogin(t *testing.T, router http.Handler, identifier, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := strings.NewReader(`{"identifier":"` + identifier + `","password":"` + password + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestLoginEndpoint_Success(t *testing.T) {
	router := newTestRouter(t)

	rec := doLogin(t, router, "STAFF-001", "Pw1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "STAFF-001", resp["principal_id"])
	assert.Equal(t, "Chen Wei", resp["display_name"])
	assert.Equal(t, "监测员", resp["role"])

	cookie := sessionCookie(t, rec)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestLoginEndpoint_BadCredential(t *testing.T) {
	router := newTestRouter(t)

	rec := doLogin(t, router, "STAFF-001", "wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bad_credential", resp["error"])
	assert.Contains(t, resp["message"], "4 attempts remaining")
}

func TestLoginEndpoint_UnknownPrincipal(t *testing.T) {
	router := newTestRouter(t)

	rec := doLogin(t, router, "STAFF-404", "x")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "login_failed", resp["error"])
}

func TestLoginEndpoint_Lockout(t *testing.T) {
	router := newTestRouter(t)

	for i := 0; i < domainauth.DefaultLockoutThreshold-1; i++ {
		rec := doLogin(t, router, "STAFF-001", "wrong")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := doLogin(t, router, "STAFF-001", "wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "account_locked", resp["error"])

	// Correct password after the lock is still rejected.
	rec = doLogin(t, router, "STAFF-001", "Pw1")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "account_locked", resp["error"])
}

func TestLoginEndpoint_InvalidJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMeEndpoint(t *testing.T) {
	router := newTestRouter(t)

	login := doLogin(t, router, "STAFF-001", "Pw1")
	require.Equal(t, http.StatusOK, login.Code)
	cookie := sessionCookie(t, login)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "STAFF-001", resp["id"])
	assert.Equal(t, false, resp["is_admin"])
}

func TestMeEndpoint_NoSession(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "access_denied", resp["error"])
}

func TestSessionEndpoint(t *testing.T) {
	router := newTestRouter(t)

	// Anonymous.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["authenticated"])

	// Authenticated.
	login := doLogin(t, router, "ROOT", "root")
	require.Equal(t, http.StatusOK, login.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(sessionCookie(t, login))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["authenticated"])
	user, ok := resp["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ROOT", user["id"])
	assert.Equal(t, "admin", user["role"])
}

func TestLogoutEndpoint_Idempotent(t *testing.T) {
	router := newTestRouter(t)

	login := doLogin(t, router, "STAFF-001", "Pw1")
	require.Equal(t, http.StatusOK, login.Code)
	cookie := sessionCookie(t, login)

	logout := func(withCookie bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		if withCookie {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, logout(true).Code)
	assert.Equal(t, http.StatusOK, logout(true).Code)
	assert.Equal(t, http.StatusOK, logout(false).Code)

	// The destroyed token no longer grants access.
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
