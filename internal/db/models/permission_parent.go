package models

import "time"

// PermissionParentNameMaxLen is the longest accepted parent name.
const PermissionParentNameMaxLen = 30

// PermissionParent groups permissions of one business area (e.g. "distributions", "teams").
// Every permission belongs to exactly one parent.
type PermissionParent struct {
	// ID is the unique identifier for the parent.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique display name of the business area.
	Name string `gorm:"unique;size:30;not null" json:"name"`
	// Permissions are the permissions grouped under this parent.
	Permissions []Permission `gorm:"foreignKey:ParentID" json:"permissions,omitempty"`
	// CreatedAt is the timestamp when the parent was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the parent was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the PermissionParent model.
func (PermissionParent) TableName() string {
	return "permission_parents"
}

// Equal reports whether both parents carry the same assigned id.
func (p PermissionParent) Equal(o PermissionParent) bool {
	return p.ID != 0 && p.ID == o.ID
}
