package models

import "github.com/google/uuid"

// RolePermission is the join row between roles and permissions.
// The table is managed by the Role.Permissions association; the model is used to
// detach rows in bulk and to count them.
type RolePermission struct {
	// RoleID is the ID of the role in this mapping.
	RoleID uint `gorm:"primaryKey;column:role_id"`
	// PermissionID is the ID of the permission in this mapping.
	PermissionID uint `gorm:"primaryKey;column:permission_id"`
}

// TableName specifies the database table name for the RolePermission model.
func (RolePermission) TableName() string {
	return "role_permissions"
}

// UserRole is the join row between users and roles.
type UserRole struct {
	// UserID is the ID of the user holding the role.
	UserID uuid.UUID `gorm:"primaryKey;type:varchar(36);column:user_id"`
	// RoleID is the ID of the held role.
	RoleID uint `gorm:"primaryKey;column:role_id"`
}

// TableName specifies the database table name for the UserRole model.
func (UserRole) TableName() string {
	return "user_roles"
}

// UserPermission is the join row of a permission granted directly to a user.
type UserPermission struct {
	// UserID is the ID of the user holding the permission.
	UserID uuid.UUID `gorm:"primaryKey;type:varchar(36);column:user_id"`
	// PermissionID is the ID of the directly granted permission.
	PermissionID uint `gorm:"primaryKey;column:permission_id"`
}

// TableName specifies the database table name for the UserPermission model.
func (UserPermission) TableName() string {
	return "user_permissions"
}
