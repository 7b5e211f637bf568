package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigest_Deterministic(t *testing.T) {
	inputs := []string{"", "Pw1", "密码", "a longer passphrase with spaces"}
	for _, p := range inputs {
		first := Digest(p)
		assert.Equal(t, first, Digest(p), "digest must be stable for %q", p)
		assert.Len(t, first, 64, "sha256 hex digest is 64 chars")
	}
}

func TestDigest_KnownValue(t *testing.T) {
	// sha256("root"), fixed across process restarts.
	assert.Equal(t,
		"4813494d137e1631bba301d5acab6e7bb7aa74ce1185d456565ef51d737677b2",
		Digest("root"))
}

func TestResolve_PrefixRouting(t *testing.T) {
	tests := []struct {
		in       string
		wantID   string
		wantKind PrincipalKind
	}{
		{"ROOT", "ROOT", KindRoot},
		{"  root ", "ROOT", KindRoot},
		{"VI-0001", "VI-0001", KindVisitor},
		{"vi-0001", "VI-0001", KindVisitor},
		{"LE-0042", "LE-0042", KindEnforcer},
		{"le-0042", "LE-0042", KindEnforcer},
		{"RE-1000", "RE-1000", KindResearcher},
		{"re-1000 ", "RE-1000", KindResearcher},
		{"STAFF-001", "STAFF-001", KindStaff},
		{"anything-else", "ANYTHING-ELSE", KindStaff},
	}
	for _, tt := range tests {
		id, kind := Resolve(tt.in)
		assert.Equal(t, tt.wantID, id, "input %q", tt.in)
		assert.Equal(t, tt.wantKind, kind, "input %q", tt.in)
	}
}

func TestEffectiveRole(t *testing.T) {
	staff := Principal{ID: "STAFF-001", Kind: KindStaff, Role: "监测员"}
	assert.Equal(t, Role("监测员"), staff.EffectiveRole())

	visitor := Principal{ID: "VI-0001", Kind: KindVisitor}
	assert.Equal(t, RoleVisitor, visitor.EffectiveRole())

	root := Principal{ID: RootIdentifier, Kind: KindRoot, Role: "ignored"}
	assert.Equal(t, RoleAdmin, root.EffectiveRole())
}

func TestIsBadCredential(t *testing.T) {
	remaining, ok := IsBadCredential(&BadCredentialError{Remaining: 3})
	assert.True(t, ok)
	assert.Equal(t, 3, remaining)

	_, ok = IsBadCredential(ErrAccountLocked)
	assert.False(t, ok)
}
