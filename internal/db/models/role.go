package models

import "time"

// Role represents a role in the role-based access control (RBAC) system.
// A role is a named bundle of permissions. Its name is also an authority of its own.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique name of the role (e.g., "super admin", "user").
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// Permissions granted by this role. A role without permissions is valid.
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Role model.
// This overrides GORM's default pluralized table naming.
func (Role) TableName() string {
	return "roles"
}

// Equal reports whether both roles carry the same assigned id.
func (r Role) Equal(o Role) bool {
	return r.ID != 0 && r.ID == o.ID
}

// HasPermission reports whether the role grants the permission with id.
func (r Role) HasPermission(id uint) bool {
	for _, p := range r.Permissions {
		if p.ID == id {
			return true
		}
	}

	return false
}

// UniqueRoles removes duplicates by id, keeping the first occurrence.
func UniqueRoles(in []Role) []Role {
	seen := make(map[uint]struct{}, len(in))
	out := make([]Role, 0, len(in))

	for _, r := range in {
		if r.ID != 0 {
			if _, ok := seen[r.ID]; ok {
				continue
			}

			seen[r.ID] = struct{}{}
		}

		out = append(out, r)
	}

	return out
}
