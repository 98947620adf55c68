package auth

import (
	"sort"
	"strings"

	"github.com/benevole/benevole/internal/db/models"
)

// RolePrefix marks role authorities. A role named "admin" resolves to "ROLE:admin".
const RolePrefix = models.RolePrefix

// AuthoritySet is the effective authority set of a principal:
// its role names, the permissions of those roles and its direct permissions.
type AuthoritySet struct {
	roles       map[string]struct{}
	permissions map[string]struct{}
}

// NewAuthoritySet returns an empty set.
func NewAuthoritySet() AuthoritySet {
	return AuthoritySet{
		roles:       map[string]struct{}{},
		permissions: map[string]struct{}{},
	}
}

// Resolve computes the effective authority set of u.
// Disabled users resolve like any other; a nil user resolves to the empty set.
func Resolve(u *models.User) AuthoritySet {
	set := NewAuthoritySet()
	if u == nil {
		return set
	}

	for _, r := range u.Roles {
		set.AddRole(r.Name)

		for _, p := range r.Permissions {
			set.AddPermission(p.Name)
		}
	}

	for _, p := range u.Permissions {
		set.AddPermission(p.Name)
	}

	return set
}

// FromGrants builds a set from separate role and permission lists, e.g. the token claims.
// A permission never turns into a role on the way.
func FromGrants(roles, permissions []string) AuthoritySet {
	set := NewAuthoritySet()

	for _, r := range roles {
		set.AddRole(r)
	}

	for _, p := range permissions {
		set.AddPermission(p)
	}

	return set
}

// ParseAuthorities rebuilds a set from its string form as returned by Strings.
func ParseAuthorities(authorities []string) AuthoritySet {
	set := NewAuthoritySet()

	for _, a := range authorities {
		if name, ok := strings.CutPrefix(a, RolePrefix); ok {
			set.AddRole(name)
			continue
		}

		set.AddPermission(a)
	}

	return set
}

// AddRole adds a role authority. Blank names are ignored.
func (s AuthoritySet) AddRole(name string) {
	if strings.TrimSpace(name) != "" {
		s.roles[name] = struct{}{}
	}
}

// AddPermission adds a permission authority.
// Blank names and names carrying the role prefix are ignored.
func (s AuthoritySet) AddPermission(name string) {
	if strings.TrimSpace(name) != "" && !models.ReservedName(name) {
		s.permissions[name] = struct{}{}
	}
}

// HasRole reports whether the set contains the role authority of name.
func (s AuthoritySet) HasRole(name string) bool {
	_, ok := s.roles[name]
	return ok
}

// HasPermission reports whether the set contains the permission name.
func (s AuthoritySet) HasPermission(name string) bool {
	_, ok := s.permissions[name]
	return ok
}

// Roles returns the sorted role names without prefix.
func (s AuthoritySet) Roles() []string {
	return sortedKeys(s.roles)
}

// Permissions returns the sorted permission names.
func (s AuthoritySet) Permissions() []string {
	return sortedKeys(s.permissions)
}

// Len returns the number of authorities.
func (s AuthoritySet) Len() int {
	return len(s.roles) + len(s.permissions)
}

// Strings returns the authorities as strings, roles first. The order is deterministic.
func (s AuthoritySet) Strings() []string {
	out := make([]string, 0, s.Len())

	for _, r := range s.Roles() {
		out = append(out, RolePrefix+r)
	}

	return append(out, s.Permissions()...)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}
