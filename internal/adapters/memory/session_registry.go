package memory

// Package memory provides in-process adapters: the session registry used by
// single-process deployments and a credential store for dev mode and tests.

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/parkops/reserve-ui-api/internal/domain/auth"
	"github.com/parkops/reserve-ui-api/internal/ports"
)

// sweepEvery bounds registry growth under login load: every N creates the
// registry evicts entries idle beyond the window, so one-shot sessions that
// are never revisited do not accumulate for the process lifetime.
const sweepEvery = 64

// SessionRegistry is a process-wide in-memory session table. It is an
// injected instance with an explicit lifecycle, constructed once per server
// process; a restart invalidates all sessions.
type SessionRegistry struct {
	mu          sync.Mutex
	sessions    map[string]domainauth.Session
	idleTimeout time.Duration
	now         func() time.Time
	creates     int
}

// Option customizes a SessionRegistry.
type Option func(*SessionRegistry)

// WithIdleTimeout overrides the default 30-minute sliding inactivity window.
func WithIdleTimeout(d time.Duration) Option {
	return func(r *SessionRegistry) {
		if d > 0 {
			r.idleTimeout = d
		}
	}
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(r *SessionRegistry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewSessionRegistry constructs an empty registry.
func NewSessionRegistry(opts ...Option) *SessionRegistry {
	r := &SessionRegistry{
		sessions:    make(map[string]domainauth.Session),
		idleTimeout: domainauth.DefaultSessionIdleTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create issues a token unique among live sessions and stores the session
// with last-activity set to now. It always succeeds.
func (r *SessionRegistry) Create(_ context.Context, principalID, displayName string, role domainauth.Role) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.creates++
	if r.creates%sweepEvery == 0 {
		r.sweepLocked(now)
	}

	token := uuid.NewString()
	for {
		if _, exists := r.sessions[token]; !exists {
			break
		}
		token = uuid.NewString()
	}

	r.sessions[token] = domainauth.Session{
		Token:        token,
		PrincipalID:  principalID,
		DisplayName:  displayName,
		Role:         role,
		LastActivity: now,
	}
	return token, nil
}

// TouchAndCheck validates the token under the registry lock, so two callers
// racing on a just-expired session cannot both observe it as valid.
func (r *SessionRegistry) TouchAndCheck(_ context.Context, token string) (domainauth.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[token]
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	now := r.now()
	if now.Sub(sess.LastActivity) > r.idleTimeout {
		delete(r.sessions, token)
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	sess.LastActivity = now
	r.sessions[token] = sess
	return sess, nil
}

// Lookup returns the session without refreshing the timestamp. An entry idle
// beyond the window reads as not found but stays in the table for the
// sweeper, matching the Redis backend where an expired key simply reads as
// absent.
func (r *SessionRegistry) Lookup(_ context.Context, token string) (domainauth.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[token]
	if !ok || r.now().Sub(sess.LastActivity) > r.idleTimeout {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

// Destroy removes the entry if present; removing an absent token is a no-op.
func (r *SessionRegistry) Destroy(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

// Sweep evicts every session idle beyond the inactivity window and reports
// how many were removed. Used by the session-reaper service mode.
func (r *SessionRegistry) Sweep(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now()), nil
}

// Len reports the number of live entries, expired or not.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *SessionRegistry) sweepLocked(now time.Time) int {
	removed := 0
	for token, sess := range r.sessions {
		if now.Sub(sess.LastActivity) > r.idleTimeout {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed
}

var _ ports.SessionRegistry = (*SessionRegistry)(nil)
