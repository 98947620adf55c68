// Package models contains database model definitions.
package models

// All returns every model the schema migration has to create, join tables included.
func All() []any {
	return []any{
		&PermissionParent{},
		&Permission{},
		&Role{},
		&User{},
		&RolePermission{},
		&UserRole{},
		&UserPermission{},
	}
}
