package memory

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/parkops/reserve-ui-api/internal/errors"

	domainauth "github.com/parkops/reserve-ui-api/internal/domain/auth"
	"github.com/parkops/reserve-ui-api/internal/ports"
)

type record struct {
	principal  domainauth.Principal
	credential domainauth.Credential
}

type storeKey struct {
	kind domainauth.PrincipalKind
	id   string
}

// CredentialStore is an in-memory implementation of ports.CredentialStore
// with the same lockout semantics as the Postgres adapter. Used in dev mode
// and in tests.
type CredentialStore struct {
	mu        sync.Mutex
	records   map[storeKey]*record
	threshold int
	now       func() time.Time
}

// StoreOption customizes a CredentialStore.
type StoreOption func(*CredentialStore)

// WithLockoutThreshold overrides the default 5-attempt lockout threshold.
func WithLockoutThreshold(n int) StoreOption {
	return func(s *CredentialStore) {
		if n > 0 {
			s.threshold = n
		}
	}
}

// WithStoreClock injects a time source for tests.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *CredentialStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewCredentialStore constructs an empty store.
func NewCredentialStore(opts ...StoreOption) *CredentialStore {
	s := &CredentialStore{
		records:   make(map[storeKey]*record),
		threshold: domainauth.DefaultLockoutThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CredentialStore) FindPrincipal(_ context.Context, kind domainauth.PrincipalKind, id string) (domainauth.Principal, domainauth.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[storeKey{kind: kind, id: id}]
	if !ok {
		return domainauth.Principal{}, domainauth.Credential{}, domainauth.ErrPrincipalNotFound
	}
	return rec.principal, rec.credential, nil
}

func (s *CredentialStore) RecordSuccess(_ context.Context, kind domainauth.PrincipalKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[storeKey{kind: kind, id: id}]
	if !ok {
		return domainauth.ErrPrincipalNotFound
	}
	if rec.credential.Locked {
		return domainauth.ErrAccountLocked
	}
	now := s.now()
	rec.credential.FailCount = 0
	rec.credential.LastLoginAt = &now
	return nil
}

func (s *CredentialStore) RecordFailure(_ context.Context, kind domainauth.PrincipalKind, id string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[storeKey{kind: kind, id: id}]
	if !ok {
		return 0, false, domainauth.ErrPrincipalNotFound
	}
	if rec.credential.Locked {
		return rec.credential.FailCount, true, nil
	}
	rec.credential.FailCount++
	if rec.credential.FailCount >= s.threshold {
		rec.credential.Locked = true
	}
	return rec.credential.FailCount, rec.credential.Locked, nil
}

func (s *CredentialStore) Enroll(_ context.Context, in ports.EnrollInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storeKey{kind: in.Kind, id: in.ID}
	if _, exists := s.records[key]; exists {
		return apperrors.Conflict("principal already enrolled")
	}
	s.records[key] = &record{
		principal: domainauth.Principal{
			ID:          in.ID,
			DisplayName: in.DisplayName,
			Kind:        in.Kind,
			Role:        in.Role,
		},
		credential: domainauth.Credential{
			Digest: domainauth.Digest(in.Password),
		},
	}
	return nil
}

func (s *CredentialStore) Unlock(_ context.Context, kind domainauth.PrincipalKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[storeKey{kind: kind, id: id}]
	if !ok {
		return domainauth.ErrPrincipalNotFound
	}
	rec.credential.FailCount = 0
	rec.credential.Locked = false
	return nil
}

var _ ports.CredentialStore = (*CredentialStore)(nil)
