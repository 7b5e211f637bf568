package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/parkops/reserve-ui-api/internal/domain/auth"
	"github.com/parkops/reserve-ui-api/internal/ports"
)

// fakeClock is a mutable time source for driving the sliding window.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestSessionRegistry_CreateAndTouch(t *testing.T) {
	clock := newFakeClock()
	reg := NewSessionRegistry(WithClock(clock.now))
	ctx := context.Background()

	token, err := reg.Create(ctx, "STAFF-001", "Chen Wei", "监测员")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sess, err := reg.TouchAndCheck(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "STAFF-001", sess.PrincipalID)
	assert.Equal(t, "Chen Wei", sess.DisplayName)
	assert.Equal(t, domainauth.Role("监测员"), sess.Role)
	assert.Equal(t, clock.t, sess.LastActivity)
}

func TestSessionRegistry_TokensUniqueAmongLive(t *testing.T) {
	reg := NewSessionRegistry()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := reg.Create(ctx, "VI-0001", "Visitor", domainauth.RoleVisitor)
		require.NoError(t, err)
		assert.False(t, seen[token], "token %q issued twice", token)
		seen[token] = true
	}
}

func TestSessionRegistry_SlidingExpiry(t *testing.T) {
	clock := newFakeClock()
	reg := NewSessionRegistry(WithClock(clock.now))
	ctx := context.Background()

	token, err := reg.Create(ctx, "STAFF-001", "Chen Wei", "监测员")
	require.NoError(t, err)

	// Valid at T+29m.
	clock.advance(29 * time.Minute)
	_, err = reg.TouchAndCheck(ctx, token)
	require.NoError(t, err)

	// The touch above reset the window: still valid 29m later.
	clock.advance(29 * time.Minute)
	_, err = reg.TouchAndCheck(ctx, token)
	require.NoError(t, err)

	// Invalid after 31m of continuous inactivity, and evicted.
	clock.advance(31 * time.Minute)
	_, err = reg.TouchAndCheck(ctx, token)
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	assert.Equal(t, 0, reg.Len())
}

func TestSessionRegistry_TouchResetsWindow(t *testing.T) {
	clock := newFakeClock()
	reg := NewSessionRegistry(WithClock(clock.now))
	ctx := context.Background()

	token, err := reg.Create(ctx, "RE-1000", "Dr. Liu", domainauth.RoleResearcher)
	require.NoError(t, err)

	// Touch at T+10m, then the session must survive to T+35m (10+25).
	clock.advance(10 * time.Minute)
	_, err = reg.TouchAndCheck(ctx, token)
	require.NoError(t, err)

	clock.advance(25 * time.Minute)
	_, err = reg.TouchAndCheck(ctx, token)
	assert.NoError(t, err)
}

func TestSessionRegistry_LookupDoesNotRefreshOrEvict(t *testing.T) {
	clock := newFakeClock()
	reg := NewSessionRegistry(WithClock(clock.now))
	ctx := context.Background()

	token, err := reg.Create(ctx, "LE-0042", "Officer Zhang", domainauth.RoleEnforcer)
	require.NoError(t, err)
	created := clock.t

	// Lookup inside the window returns the entry with its original
	// timestamp: the window did not slide.
	clock.advance(20 * time.Minute)
	sess, err := reg.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, created, sess.LastActivity)

	// Past the window the token reads as absent, but eviction is left to
	// TouchAndCheck or the sweeper.
	clock.advance(11 * time.Minute)
	_, err = reg.Lookup(ctx, token)
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	assert.Equal(t, 1, reg.Len())
}

func TestSessionRegistry_DestroyIdempotent(t *testing.T) {
	reg := NewSessionRegistry()
	ctx := context.Background()

	token, err := reg.Create(ctx, "VI-0001", "Visitor", domainauth.RoleVisitor)
	require.NoError(t, err)

	require.NoError(t, reg.Destroy(ctx, token))
	require.NoError(t, reg.Destroy(ctx, token))
	require.NoError(t, reg.Destroy(ctx, "never-issued"))

	_, err = reg.TouchAndCheck(ctx, token)
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	assert.Equal(t, 0, reg.Len())
}

func TestSessionRegistry_Sweep(t *testing.T) {
	clock := newFakeClock()
	reg := NewSessionRegistry(WithClock(clock.now))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := reg.Create(ctx, "VI-0001", "Visitor", domainauth.RoleVisitor)
		require.NoError(t, err)
	}
	clock.advance(31 * time.Minute)
	fresh, err := reg.Create(ctx, "STAFF-001", "Chen Wei", "监测员")
	require.NoError(t, err)

	removed, err := reg.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.Equal(t, 1, reg.Len())

	_, err = reg.TouchAndCheck(ctx, fresh)
	assert.NoError(t, err)
}

func TestSessionRegistry_AmortizedSweepOnCreate(t *testing.T) {
	clock := newFakeClock()
	reg := NewSessionRegistry(WithClock(clock.now))
	ctx := context.Background()

	// A burst of one-shot logins that are never revisited.
	for i := 0; i < sweepEvery-1; i++ {
		_, err := reg.Create(ctx, "VI-0001", "Visitor", domainauth.RoleVisitor)
		require.NoError(t, err)
	}
	clock.advance(31 * time.Minute)

	// The Nth create triggers the amortized sweep of the expired burst.
	_, err := reg.Create(ctx, "VI-0002", "Visitor", domainauth.RoleVisitor)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())
}
