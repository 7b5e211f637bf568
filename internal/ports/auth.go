package ports

// Package ports defines interfaces (hexagonal ports) for auth-related
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/parkops/reserve-ui-api/internal/domain/auth"
)

// ErrSessionNotFound is returned by registry lookups for absent tokens.
// Absence is a normal outcome, not a failure.
var ErrSessionNotFound = errors.New("session not found")

// EnrollInput carries the fields needed to enroll a principal with its
// credential record. Role is only meaningful for staff principals.
type EnrollInput struct {
	Kind        domainauth.PrincipalKind
	ID          string
	DisplayName string
	Role        domainauth.Role
	Password    string
}

// CredentialStore persists principals and their credential records.
// All failure-counter updates are committed before the call returns, so
// concurrent attempts observe monotonically increasing counts.
type CredentialStore interface {
	// FindPrincipal locates a principal and its credential record, joined on
	// the principal identifier. Returns domainauth.ErrPrincipalNotFound when
	// either is missing.
	FindPrincipal(ctx context.Context, kind domainauth.PrincipalKind, id string) (domainauth.Principal, domainauth.Credential, error)

	// RecordSuccess resets the failure counter to zero and stamps the
	// last-login timestamp.
	RecordSuccess(ctx context.Context, kind domainauth.PrincipalKind, id string) error

	// RecordFailure atomically increments the failure counter and sets the
	// lock flag when the counter reaches the threshold, returning the new
	// counter value and lock state. Two concurrent failures must never
	// under-count or skip the lock transition.
	RecordFailure(ctx context.Context, kind domainauth.PrincipalKind, id string) (failCount int, locked bool, err error)

	// Enroll creates a principal and its credential record, digesting the
	// supplied password.
	Enroll(ctx context.Context, in EnrollInput) error

	// Unlock is the external administrative action that clears a lock,
	// resetting both the counter and the flag.
	Unlock(ctx context.Context, kind domainauth.PrincipalKind, id string) error
}

// SessionRegistry owns session records exclusively; no other component
// mutates them directly.
type SessionRegistry interface {
	// Create issues a token unique among live sessions, stores the session
	// with last-activity set to now, and returns the token.
	Create(ctx context.Context, principalID, displayName string, role domainauth.Role) (string, error)

	// TouchAndCheck validates a token, evicting it when idle beyond the
	// inactivity window, and refreshes last-activity otherwise. The
	// check-and-refresh is atomic with respect to concurrent callers.
	// Returns ErrSessionNotFound for absent or just-expired tokens.
	TouchAndCheck(ctx context.Context, token string) (domainauth.Session, error)

	// Lookup is the read-only variant used for display purposes: it does
	// not refresh last-activity. Idle-expired tokens read as
	// ErrSessionNotFound.
	Lookup(ctx context.Context, token string) (domainauth.Session, error)

	// Destroy removes the session if present; removing an absent token is a
	// no-op.
	Destroy(ctx context.Context, token string) error

	// Sweep evicts sessions idle beyond the inactivity window and reports
	// how many were removed. Backends whose store expires entries natively
	// may report zero.
	Sweep(ctx context.Context) (int, error)
}
