package postgres

// Package postgres implements the credential store against the principal
// directory tables and the shared credential ledger.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domainauth "github.com/parkops/reserve-ui-api/internal/domain/auth"
	apperrors "github.com/parkops/reserve-ui-api/internal/errors"
	"github.com/parkops/reserve-ui-api/internal/ports"
)

// principalQuery selects the principal row joined with its credential row.
// Each population keeps its own directory table with its own name column;
// the query normalizes that column into display_name.
var principalQueries = map[domainauth.PrincipalKind]string{
	domainauth.KindRoot: `
		SELECT p.staff_name AS display_name, p.staff_role AS role,
		       c.password_digest, c.fail_count, c.locked, c.last_login_at
		FROM staff_principals p
		JOIN credentials c ON c.kind = $1 AND c.principal_id = p.staff_id
		WHERE p.staff_id = $2`,
	domainauth.KindStaff: `
		SELECT p.staff_name AS display_name, p.staff_role AS role,
		       c.password_digest, c.fail_count, c.locked, c.last_login_at
		FROM staff_principals p
		JOIN credentials c ON c.kind = $1 AND c.principal_id = p.staff_id
		WHERE p.staff_id = $2`,
	domainauth.KindVisitor: `
		SELECT p.visitor_name AS display_name, '' AS role,
		       c.password_digest, c.fail_count, c.locked, c.last_login_at
		FROM visitor_principals p
		JOIN credentials c ON c.kind = $1 AND c.principal_id = p.visitor_id
		WHERE p.visitor_id = $2`,
	domainauth.KindEnforcer: `
		SELECT p.enforcer_name AS display_name, '' AS role,
		       c.password_digest, c.fail_count, c.locked, c.last_login_at
		FROM enforcer_principals p
		JOIN credentials c ON c.kind = $1 AND c.principal_id = p.enforcer_id
		WHERE p.enforcer_id = $2`,
	domainauth.KindResearcher: `
		SELECT p.researcher_name AS display_name, '' AS role,
		       c.password_digest, c.fail_count, c.locked, c.last_login_at
		FROM researcher_principals p
		JOIN credentials c ON c.kind = $1 AND c.principal_id = p.researcher_id
		WHERE p.researcher_id = $2`,
}

var enrollInserts = map[domainauth.PrincipalKind]string{
	domainauth.KindStaff:      `INSERT INTO staff_principals (staff_id, staff_name, staff_role) VALUES ($1, $2, $3)`,
	domainauth.KindVisitor:    `INSERT INTO visitor_principals (visitor_id, visitor_name) VALUES ($1, $2)`,
	domainauth.KindEnforcer:   `INSERT INTO enforcer_principals (enforcer_id, enforcer_name) VALUES ($1, $2)`,
	domainauth.KindResearcher: `INSERT INTO researcher_principals (researcher_id, researcher_name) VALUES ($1, $2)`,
}

// CredentialStore provides credential and lockout operations backed by
// Postgres. The failure counter is advanced with a single conditional
// UPDATE, so concurrent failed logins cannot lose increments.
type CredentialStore struct {
	DB        *sql.DB
	threshold int
}

// Option customizes a CredentialStore.
type Option func(*CredentialStore)

// WithLockoutThreshold overrides the default 5-attempt lockout threshold.
func WithLockoutThreshold(n int) Option {
	return func(s *CredentialStore) {
		if n > 0 {
			s.threshold = n
		}
	}
}

// NewCredentialStore creates a CredentialStore with the given database connection.
func NewCredentialStore(db *sql.DB, opts ...Option) *CredentialStore {
	s := &CredentialStore{
		DB:        db,
		threshold: domainauth.DefaultLockoutThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CredentialStore) FindPrincipal(ctx context.Context, kind domainauth.PrincipalKind, id string) (domainauth.Principal, domainauth.Credential, error) {
	query, ok := principalQueries[kind]
	if !ok {
		return domainauth.Principal{}, domainauth.Credential{}, fmt.Errorf("unknown principal kind %q", kind)
	}

	var (
		p    = domainauth.Principal{ID: id, Kind: kind}
		cred domainauth.Credential
		role string
		last sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx, query, string(kind), id).Scan(
		&p.DisplayName, &role, &cred.Digest, &cred.FailCount, &cred.Locked, &last,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domainauth.Principal{}, domainauth.Credential{}, domainauth.ErrPrincipalNotFound
		}
		return domainauth.Principal{}, domainauth.Credential{}, apperrors.MapDBError(err)
	}
	p.Role = domainauth.Role(role)
	if last.Valid {
		t := last.Time
		cred.LastLoginAt = &t
	}
	return p, cred, nil
}

func (s *CredentialStore) RecordSuccess(ctx context.Context, kind domainauth.PrincipalKind, id string) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE credentials
		SET fail_count = 0, last_login_at = now(), updated_at = now()
		WHERE kind = $1 AND principal_id = $2 AND NOT locked`,
		string(kind), id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if n == 0 {
		// Either the record is locked or it does not exist.
		_, locked, readErr := s.readCounter(ctx, kind, id)
		if readErr != nil {
			return readErr
		}
		if locked {
			return domainauth.ErrAccountLocked
		}
		return domainauth.ErrPrincipalNotFound
	}
	return nil
}

// RecordFailure advances the failure counter and trips the lock at the
// threshold in one conditional UPDATE. Locked records are left untouched and
// reported as already locked.
func (s *CredentialStore) RecordFailure(ctx context.Context, kind domainauth.PrincipalKind, id string) (int, bool, error) {
	var (
		count  int
		locked bool
	)
	err := s.DB.QueryRowContext(ctx, `
		UPDATE credentials
		SET fail_count = fail_count + 1,
		    locked = fail_count + 1 >= $3,
		    updated_at = now()
		WHERE kind = $1 AND principal_id = $2 AND NOT locked
		RETURNING fail_count, locked`,
		string(kind), id, s.threshold).Scan(&count, &locked)
	if err == nil {
		return count, locked, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, apperrors.MapDBError(err)
	}

	// No row updated: the record is locked or missing.
	count, locked, err = s.readCounter(ctx, kind, id)
	if err != nil {
		return 0, false, err
	}
	if !locked {
		// The lock cleared between the UPDATE and the re-read; report the
		// current counter without claiming a lock.
		return count, false, nil
	}
	return count, true, nil
}

func (s *CredentialStore) readCounter(ctx context.Context, kind domainauth.PrincipalKind, id string) (int, bool, error) {
	var (
		count  int
		locked bool
	)
	err := s.DB.QueryRowContext(ctx, `
		SELECT fail_count, locked FROM credentials
		WHERE kind = $1 AND principal_id = $2`,
		string(kind), id).Scan(&count, &locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, domainauth.ErrPrincipalNotFound
		}
		return 0, false, apperrors.MapDBError(err)
	}
	return count, locked, nil
}

func (s *CredentialStore) Enroll(ctx context.Context, in ports.EnrollInput) error {
	insert, ok := enrollInserts[in.Kind]
	if !ok {
		return fmt.Errorf("cannot enroll principal kind %q", in.Kind)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	defer func() { _ = tx.Rollback() }()

	if in.Kind == domainauth.KindStaff {
		_, err = tx.ExecContext(ctx, insert, in.ID, in.DisplayName, string(in.Role))
	} else {
		_, err = tx.ExecContext(ctx, insert, in.ID, in.DisplayName)
	}
	if err != nil {
		return apperrors.MapDBError(err)
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO credentials (kind, principal_id, password_digest)
		VALUES ($1, $2, $3)`,
		string(in.Kind), in.ID, domainauth.Digest(in.Password)); err != nil {
		return apperrors.MapDBError(err)
	}

	if err = tx.Commit(); err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

func (s *CredentialStore) Unlock(ctx context.Context, kind domainauth.PrincipalKind, id string) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE credentials
		SET fail_count = 0, locked = FALSE, updated_at = now()
		WHERE kind = $1 AND principal_id = $2`,
		string(kind), id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if n == 0 {
		return domainauth.ErrPrincipalNotFound
	}
	return nil
}

// EnsureRoot seeds the root super-administrator if it is not already
// present. The digest is stored as-is; existing root credentials are never
// overwritten, so rotating the bootstrap password does not touch a live
// deployment.
func (s *CredentialStore) EnsureRoot(ctx context.Context, displayName, digest string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO staff_principals (staff_id, staff_name, staff_role)
		VALUES ($1, $2, $3)
		ON CONFLICT (staff_id) DO NOTHING`,
		domainauth.RootIdentifier, displayName, string(domainauth.RoleAdmin)); err != nil {
		return apperrors.MapDBError(err)
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO credentials (kind, principal_id, password_digest)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind, principal_id) DO NOTHING`,
		string(domainauth.KindRoot), domainauth.RootIdentifier, digest); err != nil {
		return apperrors.MapDBError(err)
	}

	if err = tx.Commit(); err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

var _ ports.CredentialStore = (*CredentialStore)(nil)
