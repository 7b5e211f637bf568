package auth

import "strings"

// PrincipalKind identifies which identity table a principal lives in.
// The kind is inferred from the lexical form of the identifier.
type PrincipalKind string

const (
	KindRoot       PrincipalKind = "root"
	KindStaff      PrincipalKind = "staff"
	KindVisitor    PrincipalKind = "visitor"
	KindEnforcer   PrincipalKind = "enforcer"
	KindResearcher PrincipalKind = "researcher"
)

// RootIdentifier is the reserved identifier of the super-administrator.
const RootIdentifier = "ROOT"

// Identifier prefixes for the fixed-role principal kinds.
const (
	VisitorPrefix    = "VI-"
	EnforcerPrefix   = "LE-"
	ResearcherPrefix = "RE-"
)

// NormalizeIdentifier trims surrounding whitespace and uppercases an
// identifier so prefix classification is case-insensitive.
func NormalizeIdentifier(identifier string) string {
	return strings.ToUpper(strings.TrimSpace(identifier))
}

// Resolve normalizes an identifier and classifies it into a principal kind.
// Classification is first match wins: the reserved root literal, then the
// visitor/enforcer/researcher prefixes, then staff as the fallback.
// Resolution never fails; an identifier with no backing record is reported
// as not found by the authenticator, not here.
func Resolve(identifier string) (string, PrincipalKind) {
	id := NormalizeIdentifier(identifier)
	switch {
	case id == RootIdentifier:
		return id, KindRoot
	case strings.HasPrefix(id, VisitorPrefix):
		return id, KindVisitor
	case strings.HasPrefix(id, EnforcerPrefix):
		return id, KindEnforcer
	case strings.HasPrefix(id, ResearcherPrefix):
		return id, KindResearcher
	default:
		return id, KindStaff
	}
}

// FixedRole returns the role fixed by the kind, if any. Staff principals
// carry their role on the record instead.
func (k PrincipalKind) FixedRole() (Role, bool) {
	switch k {
	case KindRoot:
		return RoleAdmin, true
	case KindVisitor:
		return RoleVisitor, true
	case KindEnforcer:
		return RoleEnforcer, true
	case KindResearcher:
		return RoleResearcher, true
	default:
		return "", false
	}
}
