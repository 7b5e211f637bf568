package redis

// Package redis provides the Redis-backed session registry used by
// multi-process deployments, where sessions must survive web-tier restarts
// and be shared across workers.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	domainauth "github.com/parkops/reserve-ui-api/internal/domain/auth"
	"github.com/parkops/reserve-ui-api/internal/ports"
)

// SessionRegistry stores sessions as JSON values whose key TTL is the
// sliding inactivity window. The server-side GETEX refresh makes
// touch-and-check atomic across concurrent callers.
type SessionRegistry struct {
	client      redis.UniversalClient
	prefix      string
	idleTimeout time.Duration
}

// Option customizes a SessionRegistry.
type Option func(*SessionRegistry)

// WithPrefix overrides the default "session:" key prefix.
func WithPrefix(prefix string) Option {
	return func(r *SessionRegistry) { r.prefix = prefix }
}

// WithIdleTimeout overrides the default 30-minute sliding inactivity window.
func WithIdleTimeout(d time.Duration) Option {
	return func(r *SessionRegistry) {
		if d > 0 {
			r.idleTimeout = d
		}
	}
}

// NewSessionRegistry creates a Redis-backed session registry.
func NewSessionRegistry(client redis.UniversalClient, opts ...Option) *SessionRegistry {
	r := &SessionRegistry{
		client:      client,
		prefix:      "session:",
		idleTimeout: domainauth.DefaultSessionIdleTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SessionRegistry) Create(ctx context.Context, principalID, displayName string, role domainauth.Role) (string, error) {
	token := uuid.NewString()
	sess := domainauth.Session{
		Token:        token,
		PrincipalID:  principalID,
		DisplayName:  displayName,
		Role:         role,
		LastActivity: time.Now(),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+token, data, r.idleTimeout).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// TouchAndCheck reads the session and slides its TTL in a single GETEX, so
// the expiry decision and the refresh happen atomically on the server. The
// key TTL is authoritative for expiry; the stored last_activity field is
// informational and the returned copy carries the touch time.
func (r *SessionRegistry) TouchAndCheck(ctx context.Context, token string) (domainauth.Session, error) {
	data, err := r.client.GetEx(ctx, r.prefix+token, r.idleTimeout).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ports.ErrSessionNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis getex: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}
	sess.LastActivity = time.Now()
	return sess, nil
}

// Lookup reads the session without touching its TTL.
func (r *SessionRegistry) Lookup(ctx context.Context, token string) (domainauth.Session, error) {
	data, err := r.client.Get(ctx, r.prefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ports.ErrSessionNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}
	return sess, nil
}

func (r *SessionRegistry) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return r.client.Del(ctx, r.prefix+token).Err()
}

// Sweep is a no-op: Redis expires idle session keys server-side.
func (r *SessionRegistry) Sweep(_ context.Context) (int, error) {
	return 0, nil
}

var _ ports.SessionRegistry = (*SessionRegistry)(nil)
