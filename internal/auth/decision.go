package auth

import (
	"fmt"
	"strings"
)

// Mode combines the names of a PermissionCheck.
type Mode int

const (
	// ModeAll requires every listed permission. An empty list allows.
	ModeAll Mode = iota
	// ModeAny requires at least one listed permission. An empty list denies.
	ModeAny
)

// Principal is an authenticated actor and its authority snapshot.
type Principal struct {
	ID          string
	Email       string
	Authorities AuthoritySet
}

// Requirement is one access predicate attached to a route or route group.
type Requirement interface {
	// Allows reports whether the authorities satisfy the requirement.
	Allows(AuthoritySet) bool
	// String describes the requirement for audit logs.
	String() string
}

// RoleCheck holds when the principal has at least one of the roles.
type RoleCheck struct {
	Names []string
}

// HasRole requires the role name.
func HasRole(name string) RoleCheck {
	return RoleCheck{Names: []string{name}}
}

// HasAnyRole requires at least one of the roles.
func HasAnyRole(names ...string) RoleCheck {
	return RoleCheck{Names: names}
}

// Allows implements Requirement. An empty list denies.
func (c RoleCheck) Allows(a AuthoritySet) bool {
	for _, n := range c.Names {
		if a.HasRole(n) {
			return true
		}
	}

	return false
}

func (c RoleCheck) String() string {
	return fmt.Sprintf("hasAnyRole(%s)", strings.Join(c.Names, ", "))
}

// PermissionCheck holds when the principal has all (ModeAll) or any (ModeAny) of the permissions.
// Blank names are ignored.
type PermissionCheck struct {
	Names []string
	Mode  Mode
}

// HasPermission requires every permission.
func HasPermission(names ...string) PermissionCheck {
	return PermissionCheck{Names: names, Mode: ModeAll}
}

// HasAnyPermission requires at least one of the permissions.
func HasAnyPermission(names ...string) PermissionCheck {
	return PermissionCheck{Names: names, Mode: ModeAny}
}

// Allows implements Requirement.
func (c PermissionCheck) Allows(a AuthoritySet) bool {
	if c.Mode == ModeAny {
		for _, n := range c.Names {
			if strings.TrimSpace(n) != "" && a.HasPermission(n) {
				return true
			}
		}

		return false
	}

	for _, n := range c.Names {
		if strings.TrimSpace(n) != "" && !a.HasPermission(n) {
			return false
		}
	}

	return true
}

// Missing returns the listed permissions the authorities lack.
func (c PermissionCheck) Missing(a AuthoritySet) []string {
	var out []string

	for _, n := range c.Names {
		if strings.TrimSpace(n) != "" && !a.HasPermission(n) {
			out = append(out, n)
		}
	}

	return out
}

func (c PermissionCheck) String() string {
	if c.Mode == ModeAny {
		return fmt.Sprintf("hasAnyPermission(%s)", strings.Join(c.Names, ", "))
	}

	return fmt.Sprintf("hasPermission(%s)", strings.Join(c.Names, ", "))
}

// Decide evaluates reqs in order and stops at the first one that denies.
// A nil principal always denies.
func Decide(p *Principal, reqs ...Requirement) error {
	if p == nil {
		return ErrNoPrincipal
	}

	for _, r := range reqs {
		if r == nil {
			continue
		}

		if !r.Allows(p.Authorities) {
			return &DeniedError{Requirement: r}
		}
	}

	return nil
}
