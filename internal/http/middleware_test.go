package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkops/reserve-ui-api/internal/adapters/memory"
	domainauth "github.com/parkops/reserve-ui-api/internal/domain/auth"
	"github.com/parkops/reserve-ui-api/internal/ports"
	"github.com/parkops/reserve-ui-api/internal/service"
)

func newGateFixture(t *testing.T) (*service.AuthService, map[string]*http.Cookie) {
	t.Helper()

	store := memory.NewCredentialStore()
	svc := service.NewAuthService(service.AuthServiceOptions{
		Store:    store,
		Sessions: memory.NewSessionRegistry(),
	})
	ctx := context.Background()

	principals := []ports.EnrollInput{
		{Kind: domainauth.KindRoot, ID: domainauth.RootIdentifier, DisplayName: "Root Administrator", Role: domainauth.RoleAdmin, Password: "root"},
		{Kind: domainauth.KindStaff, ID: "STAFF-001", DisplayName: "Chen Wei", Role: "监测员", Password: "Pw1"},
		{Kind: domainauth.KindVisitor, ID: "VI-0001", DisplayName: "Visitor One", Password: "vp"},
	}
	passwords := map[string]string{"ROOT": "root", "STAFF-001": "Pw1", "VI-0001": "vp"}

	cookies := make(map[string]*http.Cookie)
	for _, in := range principals {
		require.NoError(t, store.Enroll(ctx, in))
		res, err := svc.Login(ctx, in.ID, passwords[in.ID])
		require.NoError(t, err)
		cookies[in.ID] = &http.Cookie{Name: sessionCookieName, Value: res.Token}
	}
	return svc, cookies
}

func gateStatus(t *testing.T, handler http.Handler, cookie *http.Cookie) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRoles_Membership(t *testing.T) {
	svc, cookies := newGateFixture(t)
	gate := RequireRoles(svc, "监测员")(okHandler())

	assert.Equal(t, http.StatusOK, gateStatus(t, gate, cookies["STAFF-001"]))
	assert.Equal(t, http.StatusForbidden, gateStatus(t, gate, cookies["VI-0001"]))
	assert.Equal(t, http.StatusForbidden, gateStatus(t, gate, nil))
}

func TestRequireRoles_AdminSuperset(t *testing.T) {
	svc, cookies := newGateFixture(t)

	// Admin passes gates for roles it was never assigned.
	for _, roles := range [][]domainauth.Role{
		{"监测员"},
		{domainauth.RoleVisitor},
		{domainauth.RoleEnforcer, domainauth.RoleResearcher},
	} {
		gate := RequireRoles(svc, roles...)(okHandler())
		assert.Equal(t, http.StatusOK, gateStatus(t, gate, cookies["ROOT"]), "roles %v", roles)
	}
}

func TestRequireRoles_DenialsUndifferentiated(t *testing.T) {
	svc, cookies := newGateFixture(t)
	gate := RequireRoles(svc, domainauth.RoleResearcher)(okHandler())

	// Missing, bogus, and wrong-role sessions all get the same 403.
	assert.Equal(t, http.StatusForbidden, gateStatus(t, gate, nil))
	assert.Equal(t, http.StatusForbidden, gateStatus(t, gate, &http.Cookie{Name: sessionCookieName, Value: "bogus"}))
	assert.Equal(t, http.StatusForbidden, gateStatus(t, gate, cookies["VI-0001"]))
}

func TestRequireAuth_PutsSessionInContext(t *testing.T) {
	svc, cookies := newGateFixture(t)

	var got *domainauth.Session
	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetUserSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	require.Equal(t, http.StatusOK, gateStatus(t, handler, cookies["VI-0001"]))
	require.NotNil(t, got)
	assert.Equal(t, "VI-0001", got.PrincipalID)
	assert.Equal(t, domainauth.RoleVisitor, got.Role)
}

func TestRequireAuth_BearerToken(t *testing.T) {
	svc, cookies := newGateFixture(t)
	handler := RequireAuth(svc)(okHandler())

	// Cookieless API clients can present the token as a bearer header.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+cookies["STAFF-001"].Value)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetUserSessionFromContext_Absent(t *testing.T) {
	_, ok := GetUserSessionFromContext(context.Background())
	assert.False(t, ok)
	assert.False(t, IsAdminUser(context.Background()))
}
