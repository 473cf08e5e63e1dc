// Package permission contains the pure role model used to gate routes and actions.
package permission

import (
	"sort"
	"strings"
)

// Role is a caseworker role asserted by the identity provider.
type Role string

const (
	Administrator Role = "administrator"
	Processor     Role = "processor"
	User          Role = "user"
	Recommender   Role = "recommender"
	Authoriser    Role = "authoriser"
	Support       Role = "support"
)

// AllRoles returns every known role in a stable order.
func AllRoles() []Role {
	return []Role{Administrator, Processor, User, Recommender, Authoriser, Support}
}

// ParseRole maps a raw role claim to a Role. Matching is case-insensitive.
func ParseRole(raw string) (Role, bool) {
	candidate := Role(strings.ToLower(strings.TrimSpace(raw)))
	for _, r := range AllRoles() {
		if r == candidate {
			return r, true
		}
	}
	return "", false
}

// Roles is the set of roles held by an actor.
type Roles map[Role]struct{}

// NewRoles builds a role set.
func NewRoles(roles ...Role) Roles {
	set := make(Roles, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// ParseRoles builds a role set from raw claims, ignoring unknown values.
func ParseRoles(raw []string) Roles {
	set := make(Roles, len(raw))
	for _, s := range raw {
		if r, ok := ParseRole(s); ok {
			set[r] = struct{}{}
		}
	}
	return set
}

// Has reports whether the set contains role.
func (rs Roles) Has(role Role) bool {
	_, ok := rs[role]
	return ok
}

// HasAny reports whether the set contains at least one of roles.
func (rs Roles) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if rs.Has(r) {
			return true
		}
	}
	return false
}

// Strings returns the roles sorted alphabetically.
func (rs Roles) Strings() []string {
	out := make([]string, 0, len(rs))
	for r := range rs {
		out = append(out, string(r))
	}
	sort.Strings(out)
	return out
}

// Scope is the set of roles a route accepts. An empty scope admits any
// authenticated actor.
type Scope []Role

// Permits reports whether an actor holding roles may use the scoped route.
func (s Scope) Permits(roles Roles) bool {
	if len(s) == 0 {
		return true
	}
	return roles.HasAny(s...)
}

// Route scopes.
var (
	ViewScope        = Scope{Administrator, Processor, User, Recommender, Authoriser}
	AdminScope       = Scope{Administrator}
	AuthoriseScope   = Scope{Administrator, Authoriser}
	RecommendScope   = Scope{Administrator, Recommender}
	MoveToCheckScope = Scope{Administrator, Recommender, Authoriser}
	SupportScope     = Scope{Administrator, Support}
)

// SuperAdmins is the configured allow-list of elevated users, keyed by
// lower-cased display name.
type SuperAdmins struct {
	names map[string]struct{}
}

// NewSuperAdmins normalises names (trimmed, lower-cased, blanks dropped).
func NewSuperAdmins(names []string) SuperAdmins {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return SuperAdmins{names: set}
}

// IsSuperAdmin reports whether name is on the allow-list.
func (s SuperAdmins) IsSuperAdmin(name string) bool {
	_, ok := s.names[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Len returns the number of configured super admins.
func (s SuperAdmins) Len() int {
	return len(s.names)
}
