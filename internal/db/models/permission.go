package models

import (
	"strings"
	"time"
)

// RolePrefix starts the authority form of a role name. No permission name may start with it.
const RolePrefix = "ROLE:"

// Permission represents a specific permission in the authorization system.
// Permissions are named capabilities such as "create distribution" and are
// granted to roles or directly to users.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique permission name checked by the access decision engine.
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// ParentID is the id of the owning business area.
	ParentID uint `gorm:"not null;index" json:"parentId"`
	// Parent is the owning business area (loaded on demand).
	Parent *PermissionParent `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Permission model.
// This overrides GORM's default pluralized table naming.
func (Permission) TableName() string {
	return "permissions"
}

// Equal reports whether both permissions carry the same assigned id.
// Unsaved permissions are never equal.
func (p Permission) Equal(o Permission) bool {
	return p.ID != 0 && p.ID == o.ID
}

// ReservedName reports whether name would read as a role authority.
// The comparison ignores case and surrounding blanks.
func ReservedName(name string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(name)), RolePrefix)
}

// UniquePermissions removes duplicates by id, keeping the first occurrence.
// Permissions without an id are kept as they are.
func UniquePermissions(in []Permission) []Permission {
	seen := make(map[uint]struct{}, len(in))
	out := make([]Permission, 0, len(in))

	for _, p := range in {
		if p.ID != 0 {
			if _, ok := seen[p.ID]; ok {
				continue
			}

			seen[p.ID] = struct{}{}
		}

		out = append(out, p)
	}

	return out
}
