package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainauth "github.com/parkops/reserve-ui-api/internal/domain/auth"
	"github.com/parkops/reserve-ui-api/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Store    ports.CredentialStore
	Sessions ports.SessionRegistry
	Logger   *slog.Logger
	// LockoutThreshold is the number of consecutive failures that trips the
	// lock; defaults to domainauth.DefaultLockoutThreshold. Must match the
	// threshold configured on the credential store.
	LockoutThreshold int
}

// AuthService is the sole entry point for login, authorization, and session
// lifecycle. It coordinates the principal resolver, the credential store,
// and the session registry; it holds no session state of its own.
type AuthService struct {
	store     ports.CredentialStore
	sessions  ports.SessionRegistry
	logger    *slog.Logger
	threshold int
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	threshold := opts.LockoutThreshold
	if threshold <= 0 {
		threshold = domainauth.DefaultLockoutThreshold
	}
	return &AuthService{
		store:     opts.Store,
		sessions:  opts.Sessions,
		logger:    logger,
		threshold: threshold,
	}
}

// LoginResult contains the issued token and the session's presentation
// fields on a successful login.
type LoginResult struct {
	Token       string
	PrincipalID string
	DisplayName string
	Role        domainauth.Role
}

// Login resolves the identifier, verifies the password against the stored
// digest, applies lockout bookkeeping, and issues a session on success.
//
// Failure outcomes:
//   - domainauth.ErrPrincipalNotFound: no such principal.
//   - domainauth.ErrAccountLocked: locked before or by this attempt.
//   - *domainauth.BadCredentialError: wrong password, attempt counted.
//
// Store failures propagate as-is: a lost lockout-counter write must never be
// reported as an ordinary bad-credential failure.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	if identifier == "" {
		return nil, domainauth.ErrPrincipalNotFound
	}

	id, kind := domainauth.Resolve(identifier)

	principal, cred, err := s.store.FindPrincipal(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	// A locked record rejects every attempt, correct password included, and
	// the counter stays put.
	if cred.Locked {
		return nil, domainauth.ErrAccountLocked
	}

	if domainauth.Digest(password) != cred.Digest {
		count, locked, failErr := s.store.RecordFailure(ctx, kind, id)
		if failErr != nil {
			return nil, fmt.Errorf("record login failure: %w", failErr)
		}
		if locked {
			s.logger.InfoContext(ctx, "account locked after repeated failures",
				"kind", string(kind), "principal_id", id, "fail_count", count)
			return nil, domainauth.ErrAccountLocked
		}
		remaining := s.threshold - count
		if remaining < 0 {
			remaining = 0
		}
		return nil, &domainauth.BadCredentialError{Remaining: remaining}
	}

	if successErr := s.store.RecordSuccess(ctx, kind, id); successErr != nil {
		// The lock may have tripped between the read and the write.
		if errors.Is(successErr, domainauth.ErrAccountLocked) {
			return nil, domainauth.ErrAccountLocked
		}
		return nil, fmt.Errorf("record login success: %w", successErr)
	}

	token, err := s.sessions.Create(ctx, principal.ID, principal.DisplayName, principal.EffectiveRole())
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.InfoContext(ctx, "login succeeded",
		"kind", string(kind), "principal_id", principal.ID, "role", string(principal.EffectiveRole()))

	return &LoginResult{
		Token:       token,
		PrincipalID: principal.ID,
		DisplayName: principal.DisplayName,
		Role:        principal.EffectiveRole(),
	}, nil
}

// Authorize validates the token against the registry, sliding the session's
// inactivity window, and applies the role check: the admin role satisfies
// every check, any other role must be a member of the required set. A false
// verdict is deliberately undifferentiated; callers cannot tell an expired
// session from an insufficient role.
func (s *AuthService) Authorize(ctx context.Context, token string, required ...domainauth.Role) (*domainauth.Session, bool) {
	sess, err := s.sessions.TouchAndCheck(ctx, token)
	if err != nil {
		if !errors.Is(err, ports.ErrSessionNotFound) {
			s.logger.ErrorContext(ctx, "session check failed", "err", err)
		}
		return nil, false
	}

	if sess.IsAdmin() {
		return &sess, true
	}
	for _, role := range required {
		if sess.Role == role {
			return &sess, true
		}
	}
	return nil, false
}

// CheckSession validates the token and slides the inactivity window without
// any role requirement. Used by handlers that only need an authenticated
// caller.
func (s *AuthService) CheckSession(ctx context.Context, token string) (*domainauth.Session, bool) {
	sess, err := s.sessions.TouchAndCheck(ctx, token)
	if err != nil {
		if !errors.Is(err, ports.ErrSessionNotFound) {
			s.logger.ErrorContext(ctx, "session check failed", "err", err)
		}
		return nil, false
	}
	return &sess, true
}

// CurrentSession is the read-only lookup for UI personalization: it does not
// refresh the activity timestamp, so a UI polling it cannot keep an
// abandoned session alive. Idle-expired tokens read as absent.
func (s *AuthService) CurrentSession(ctx context.Context, token string) (*domainauth.Session, bool) {
	sess, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, false
	}
	return &sess, true
}

// Logout destroys the session. Destroying an absent or never-issued token is
// a no-op, so repeated logouts are safe.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// Enroll registers a principal with a digested credential. Exposed for the
// enrollment flow and dev seeding.
func (s *AuthService) Enroll(ctx context.Context, in ports.EnrollInput) error {
	return s.store.Enroll(ctx, in)
}

// Unlock clears a lockout; the administrative recovery path.
func (s *AuthService) Unlock(ctx context.Context, kind domainauth.PrincipalKind, id string) error {
	return s.store.Unlock(ctx, kind, id)
}
