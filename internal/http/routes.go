package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         AuthServiceInterface
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures a new HTTP router. Role gating for the
// business routes of the surrounding application mounts on the same mux via
// RequireRoles; this router carries only the auth surface itself.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	mux.Handle("POST /api/auth/login", http.HandlerFunc(authHandlers.Login))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(authHandlers.Logout))
	mux.Handle("GET /api/auth/session", http.HandlerFunc(authHandlers.Session))

	// /api/me requires a live session; the middleware slides the window.
	mux.Handle("GET /api/me", RequireAuth(services.Auth)(http.HandlerFunc(authHandlers.Me)))

	return mux
}
