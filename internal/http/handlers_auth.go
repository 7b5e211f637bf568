package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/parkops/reserve-ui-api/internal/domain/auth"
	"github.com/parkops/reserve-ui-api/internal/service"
)

const sessionCookieName = "session_token"

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, identifier, password string) (*service.LoginResult, error)
	Authorize(ctx context.Context, token string, required ...domainauth.Role) (*domainauth.Session, bool)
	CheckSession(ctx context.Context, token string) (*domainauth.Session, bool)
	CurrentSession(ctx context.Context, token string) (*domainauth.Session, bool)
	Logout(ctx context.Context, token string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	PrincipalID string `json:"principal_id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Login handles the credential login endpoint.
// POST /api/auth/login with a JSON body {"identifier": ..., "password": ...}.
//
// All login failures answer 401 with a distinguishing error code:
// account_locked, bad_credential (with remaining attempts), or login_failed
// for unknown principals.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		h.writeLoginError(w, r, err)
		return
	}

	h.setSessionCookie(w, r, result.Token)
	WriteJSON(w, http.StatusOK, loginResponse{
		PrincipalID: result.PrincipalID,
		DisplayName: result.DisplayName,
		Role:        string(result.Role),
	})
}

func (h *AuthHandlers) writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domainauth.ErrAccountLocked):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "account_locked", Err: err})
	case errors.Is(err, domainauth.ErrPrincipalNotFound):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "login_failed", Err: err})
	default:
		if _, ok := domainauth.IsBadCredential(err); ok {
			WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "bad_credential", Err: err})
			return
		}
		h.logger().ErrorContext(r.Context(), "login failed", "err", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal", Err: errors.New("internal error")})
	}
}

// Logout handles the logout endpoint.
// POST /api/auth/logout. Logging out without a session is still a 200.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), cookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "err", logoutErr)
		}
	}

	h.clearSessionCookie(w, r)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Session returns the current authentication status without refreshing the
// session's inactivity window; a UI polling this endpoint does not keep an
// abandoned session alive.
// GET /api/auth/session.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, ok := h.Svc.CurrentSession(r.Context(), cookie.Value)
	if !ok {
		h.clearSessionCookie(w, r)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":           session.PrincipalID,
			"display_name": session.DisplayName,
			"role":         session.Role,
		},
	})
}

// Me returns the session stored in the request context by the auth
// middleware, which already slid the inactivity window.
// GET /api/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		writeAccessDenied(w)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"id":           session.PrincipalID,
		"display_name": session.DisplayName,
		"role":         session.Role,
		"is_admin":     session.IsAdmin(),
	})
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		// No MaxAge: the cookie is session-scoped, server-side expiry governs.
	})
}

// clearSessionCookie clears the cookie by setting it to expire immediately.
// It mirrors the attributes used when setting it to maximize compatibility
// across browsers during deletion.
func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
