package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/parkops/reserve-ui-api/internal/domain/auth"
	apperrors "github.com/parkops/reserve-ui-api/internal/errors"
	"github.com/parkops/reserve-ui-api/internal/ports"
)

func enrollStaff(t *testing.T, store *CredentialStore) {
	t.Helper()
	require.NoError(t, store.Enroll(context.Background(), ports.EnrollInput{
		Kind:        domainauth.KindStaff,
		ID:          "STAFF-001",
		DisplayName: "Chen Wei",
		Role:        "监测员",
		Password:    "Pw1",
	}))
}

func TestCredentialStore_EnrollAndFind(t *testing.T) {
	store := NewCredentialStore()
	enrollStaff(t, store)
	ctx := context.Background()

	p, cred, err := store.FindPrincipal(ctx, domainauth.KindStaff, "STAFF-001")
	require.NoError(t, err)
	assert.Equal(t, "Chen Wei", p.DisplayName)
	assert.Equal(t, domainauth.Role("监测员"), p.Role)
	assert.Equal(t, domainauth.Digest("Pw1"), cred.Digest)
	assert.Zero(t, cred.FailCount)
	assert.False(t, cred.Locked)
	assert.Nil(t, cred.LastLoginAt)
}

func TestCredentialStore_EnrollDuplicate(t *testing.T) {
	store := NewCredentialStore()
	enrollStaff(t, store)
	err := store.Enroll(context.Background(), ports.EnrollInput{
		Kind: domainauth.KindStaff, ID: "STAFF-001", Password: "other",
	})
	assert.True(t, apperrors.IsConflict(err))
}

func TestCredentialStore_FindMissing(t *testing.T) {
	store := NewCredentialStore()
	_, _, err := store.FindPrincipal(context.Background(), domainauth.KindVisitor, "VI-9999")
	assert.ErrorIs(t, err, domainauth.ErrPrincipalNotFound)
}

func TestCredentialStore_LockAtThreshold(t *testing.T) {
	store := NewCredentialStore()
	enrollStaff(t, store)
	ctx := context.Background()

	for i := 1; i < domainauth.DefaultLockoutThreshold; i++ {
		count, locked, err := store.RecordFailure(ctx, domainauth.KindStaff, "STAFF-001")
		require.NoError(t, err)
		assert.Equal(t, i, count)
		assert.False(t, locked, "attempt %d must not lock", i)
	}

	count, locked, err := store.RecordFailure(ctx, domainauth.KindStaff, "STAFF-001")
	require.NoError(t, err)
	assert.Equal(t, domainauth.DefaultLockoutThreshold, count)
	assert.True(t, locked, "threshold attempt locks the record")

	// Further failures report the lock without growing the counter.
	count, locked, err = store.RecordFailure(ctx, domainauth.KindStaff, "STAFF-001")
	require.NoError(t, err)
	assert.Equal(t, domainauth.DefaultLockoutThreshold, count)
	assert.True(t, locked)
}

func TestCredentialStore_SuccessResetsCounter(t *testing.T) {
	store := NewCredentialStore()
	enrollStaff(t, store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := store.RecordFailure(ctx, domainauth.KindStaff, "STAFF-001")
		require.NoError(t, err)
	}
	require.NoError(t, store.RecordSuccess(ctx, domainauth.KindStaff, "STAFF-001"))

	_, cred, err := store.FindPrincipal(ctx, domainauth.KindStaff, "STAFF-001")
	require.NoError(t, err)
	assert.Zero(t, cred.FailCount)
	assert.NotNil(t, cred.LastLoginAt)
}

func TestCredentialStore_SuccessOnLockedFails(t *testing.T) {
	store := NewCredentialStore(WithLockoutThreshold(1))
	enrollStaff(t, store)
	ctx := context.Background()

	_, locked, err := store.RecordFailure(ctx, domainauth.KindStaff, "STAFF-001")
	require.NoError(t, err)
	require.True(t, locked)

	assert.ErrorIs(t, store.RecordSuccess(ctx, domainauth.KindStaff, "STAFF-001"), domainauth.ErrAccountLocked)
}

func TestCredentialStore_Unlock(t *testing.T) {
	store := NewCredentialStore(WithLockoutThreshold(1))
	enrollStaff(t, store)
	ctx := context.Background()

	_, locked, err := store.RecordFailure(ctx, domainauth.KindStaff, "STAFF-001")
	require.NoError(t, err)
	require.True(t, locked)

	require.NoError(t, store.Unlock(ctx, domainauth.KindStaff, "STAFF-001"))

	_, cred, err := store.FindPrincipal(ctx, domainauth.KindStaff, "STAFF-001")
	require.NoError(t, err)
	assert.False(t, cred.Locked)
	assert.Zero(t, cred.FailCount)
}
