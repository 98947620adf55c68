// Package role provides the role registry: CRUD operations for roles and their permission sets.
package role

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/db/controller"
	"github.com/benevole/benevole/internal/db/controller/permission"
	"github.com/benevole/benevole/internal/db/models"
)

const associationPermissions = "Permissions"

var (
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = fmt.Errorf("role %w", controller.ErrNotFound)
	// ErrRoleAlreadyExists is returned when a role name is taken.
	ErrRoleAlreadyExists = fmt.Errorf("role %w", controller.ErrAlreadyExists)
)

// WithPermissions preloads the permission set of roles.
func WithPermissions(db *gorm.DB) *gorm.DB {
	return db.Preload(associationPermissions, func(db *gorm.DB) *gorm.DB {
		return db.Order("permissions.name asc")
	})
}

// Get retrieves a role with its permissions by ID.
func Get(db *gorm.DB, id uint) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var r models.Role
	if err := db.Scopes(WithPermissions).First(&r, id).Error; err != nil {
		return nil, controller.NotFound(err, ErrRoleNotFound)
	}

	return &r, nil
}

// GetByName retrieves a role with its permissions by name.
func GetByName(db *gorm.DB, name string) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if name == "" {
		return nil, controller.ErrNameEmpty
	}

	var r models.Role
	if err := db.Scopes(WithPermissions).Where(controller.NameQueryPattern, name).First(&r).Error; err != nil {
		return nil, controller.NotFound(err, ErrRoleNotFound)
	}

	return &r, nil
}

// List returns page p of all roles with their permissions ordered by name.
func List(db *gorm.DB, p controller.Page) (*controller.Result[models.Role], error) {
	return controller.List[models.Role](db, p, WithPermissions)
}

// Create creates a role granting the permissions with permissionIDs.
func Create(db *gorm.DB, name string, permissionIDs []uint) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if strings.TrimSpace(name) == "" {
		return nil, controller.ErrNameEmpty
	}

	var created *models.Role

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := GetByName(tx, name); err == nil {
			return ErrRoleAlreadyExists
		} else if !errors.Is(err, ErrRoleNotFound) {
			return err
		}

		permissions, err := permission.GetMany(tx, permissionIDs)
		if err != nil {
			return err
		}

		r := &models.Role{Name: name}
		if err = tx.Omit(associationPermissions).Create(r).Error; err != nil {
			return err
		}

		if len(permissions) > 0 {
			if err = tx.Model(r).Association(associationPermissions).Append(permissions); err != nil {
				return err
			}
		}

		created, err = Get(tx, r.ID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Update renames a role. A non nil permissionIDs replaces its permission set.
func Update(db *gorm.DB, id uint, name string, permissionIDs []uint) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if strings.TrimSpace(name) == "" {
		return nil, controller.ErrNameEmpty
	}

	var updated *models.Role

	err := db.Transaction(func(tx *gorm.DB) error {
		r, err := Get(tx, id)
		if err != nil {
			return err
		}

		if other, err := GetByName(tx, name); err == nil && other.ID != r.ID {
			return ErrRoleAlreadyExists
		}

		if err = tx.Model(&models.Role{ID: r.ID}).Update("name", name).Error; err != nil {
			return err
		}

		if permissionIDs != nil {
			permissions, err := permission.GetMany(tx, permissionIDs)
			if err != nil {
				return err
			}

			if err = controller.ReplaceAssociation(tx, r, associationPermissions, permissions); err != nil {
				return err
			}
		}

		updated, err = Get(tx, id)

		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Save persists the name and replaces the permission set of an existing role.
// Every permission has to exist.
func Save(db *gorm.DB, r *models.Role) error {
	if db == nil {
		return controller.ErrDBNil
	}

	if r == nil || r.ID == 0 {
		return ErrRoleNotFound
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := Get(tx, r.ID); err != nil {
			return err
		}

		if err := tx.Model(&models.Role{ID: r.ID}).Update("name", r.Name).Error; err != nil {
			return err
		}

		ids := make([]uint, 0, len(r.Permissions))
		for _, p := range r.Permissions {
			ids = append(ids, p.ID)
		}

		permissions, err := permission.GetMany(tx, ids)
		if err != nil {
			return err
		}

		return controller.ReplaceAssociation(tx, r, associationPermissions, permissions)
	})
}

// AddPermission grants the permission to the role. Granting twice is a no-op.
func AddPermission(db *gorm.DB, roleID, permissionID uint) (*models.Role, error) {
	return changePermission(db, roleID, permissionID, true)
}

// RemovePermission revokes the permission from the role. Revoking a missing grant is a no-op.
func RemovePermission(db *gorm.DB, roleID, permissionID uint) (*models.Role, error) {
	return changePermission(db, roleID, permissionID, false)
}

func changePermission(db *gorm.DB, roleID, permissionID uint, add bool) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var out *models.Role

	err := db.Transaction(func(tx *gorm.DB) error {
		r, err := Get(tx, roleID)
		if err != nil {
			return err
		}

		p, err := permission.Get(tx, permissionID)
		if err != nil {
			return err
		}

		switch {
		case add && !r.HasPermission(p.ID):
			err = tx.Model(r).Association(associationPermissions).Append(&models.Permission{ID: p.ID})
		case !add && r.HasPermission(p.ID):
			err = tx.Model(r).Association(associationPermissions).Delete(&models.Permission{ID: p.ID})
		}

		if err != nil {
			return err
		}

		out, err = Get(tx, roleID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Delete detaches a role from every user, clears its permission set and deletes it.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := Get(tx, id); err != nil {
			return err
		}

		if err := tx.Where("role_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}

		if err := tx.Where("role_id = ?", id).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Role{}, id).Error
	})
}
