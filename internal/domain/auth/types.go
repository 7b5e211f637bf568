package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Staff roles are free-form labels stored on the staff record; the
// constants below are the fixed roles assigned by principal kind.
type Role string

const (
	// RoleAdmin is a superset role: it satisfies every required-role check.
	RoleAdmin      Role = "admin"
	RoleVisitor    Role = "visitor"
	RoleEnforcer   Role = "enforcer"
	RoleResearcher Role = "researcher"
)

// DefaultLockoutThreshold is the number of consecutive failed password
// attempts after which a credential record is locked.
const DefaultLockoutThreshold = 5

// DefaultSessionIdleTimeout is the sliding inactivity window after which a
// session is evicted on its next access.
const DefaultSessionIdleTimeout = 30 * time.Minute

// Principal is an actor able to authenticate: staff, visitor, enforcer,
// researcher, or the seeded root super-administrator. DisplayName is
// normalized at load time regardless of which identity table the record
// came from.
type Principal struct {
	ID          string
	DisplayName string
	Kind        PrincipalKind
	// Role is the record-stored role for staff principals. For kinds with a
	// fixed role it may be empty; EffectiveRole resolves the final label.
	Role Role
}

// EffectiveRole returns the role a session issued for this principal
// carries: the fixed role of the kind when there is one, otherwise the
// record-stored staff role.
func (p Principal) EffectiveRole() Role {
	if fixed, ok := p.Kind.FixedRole(); ok {
		return fixed
	}
	return p.Role
}

// Credential is the persisted password digest plus failure/lock bookkeeping
// for one principal. Locked becomes true exactly when FailCount reaches the
// lockout threshold and stays true until an external unlock resets both.
type Credential struct {
	Digest      string
	FailCount   int
	Locked      bool
	LastLoginAt *time.Time
}

// Session is the server-side record of a successful login, referenced by an
// opaque token and subject to sliding inactivity expiry. JSON tags support
// the Redis-backed registry.
type Session struct {
	Token        string    `json:"token"`
	PrincipalID  string    `json:"principal_id"`
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	LastActivity time.Time `json:"last_activity"`
}

// IsAdmin reports whether the session carries the superset administrator role.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }
