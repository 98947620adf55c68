// Package permission provides CRUD operations for the permission catalog.
package permission

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/db/controller"
	"github.com/benevole/benevole/internal/db/controller/parent"
	"github.com/benevole/benevole/internal/db/models"
)

var (
	// ErrPermissionNotFound is returned when a permission is not found.
	ErrPermissionNotFound = fmt.Errorf("permission %w", controller.ErrNotFound)
	// ErrPermissionAlreadyExists is returned when a permission name is taken.
	ErrPermissionAlreadyExists = fmt.Errorf("permission %w", controller.ErrAlreadyExists)
)

func withParent(db *gorm.DB) *gorm.DB {
	return db.Preload("Parent")
}

// Get retrieves a permission with its parent by ID.
func Get(db *gorm.DB, id uint) (*models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var p models.Permission
	if err := db.Scopes(withParent).First(&p, id).Error; err != nil {
		return nil, controller.NotFound(err, ErrPermissionNotFound)
	}

	return &p, nil
}

// GetByName retrieves a permission by its name.
func GetByName(db *gorm.DB, name string) (*models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if name == "" {
		return nil, controller.ErrNameEmpty
	}

	var p models.Permission
	if err := db.Scopes(withParent).Where(controller.NameQueryPattern, name).First(&p).Error; err != nil {
		return nil, controller.NotFound(err, ErrPermissionNotFound)
	}

	return &p, nil
}

// GetMany loads the permissions with the given ids.
// Every id has to exist, otherwise ErrPermissionNotFound is returned.
func GetMany(db *gorm.DB, ids []uint) ([]models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return []models.Permission{}, nil
	}

	var out []models.Permission
	if err := db.Where("id IN ?", unique).Order(controller.OrderByName).Find(&out).Error; err != nil {
		return nil, err
	}

	if len(out) != len(unique) {
		return nil, ErrPermissionNotFound
	}

	return out, nil
}

// ListByNames loads the permissions with the given names, unknown names are skipped.
func ListByNames(db *gorm.DB, names []string) ([]models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var out []models.Permission
	if len(names) == 0 {
		return out, nil
	}

	err := db.Where("name IN ?", names).Order(controller.OrderByName).Find(&out).Error

	return out, err
}

// List returns page p of all permissions ordered by name.
func List(db *gorm.DB, p controller.Page) (*controller.Result[models.Permission], error) {
	return controller.List[models.Permission](db, p, withParent)
}

// ListByParent returns every permission of a parent ordered by name.
func ListByParent(db *gorm.DB, parentID uint) ([]models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if _, err := parent.Get(db, parentID); err != nil {
		return nil, err
	}

	var out []models.Permission
	err := db.Where("parent_id = ?", parentID).Order(controller.OrderByName).Find(&out).Error

	return out, err
}

// Create creates a new permission below an existing parent.
func Create(db *gorm.DB, name string, parentID uint) (*models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if err := checkName(name); err != nil {
		return nil, err
	}

	if _, err := parent.Get(db, parentID); err != nil {
		return nil, err
	}

	if _, err := GetByName(db, name); err == nil {
		return nil, ErrPermissionAlreadyExists
	} else if !errors.Is(err, ErrPermissionNotFound) {
		return nil, err
	}

	p := &models.Permission{Name: name, ParentID: parentID}
	if err := db.Create(p).Error; err != nil {
		return nil, err
	}

	return Get(db, p.ID)
}

// Update renames a permission and moves it to parentID.
func Update(db *gorm.DB, id uint, name string, parentID uint) (*models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if err := checkName(name); err != nil {
		return nil, err
	}

	p, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if _, err = parent.Get(db, parentID); err != nil {
		return nil, err
	}

	if other, err := GetByName(db, name); err == nil && other.ID != p.ID {
		return nil, ErrPermissionAlreadyExists
	}

	err = db.Model(&models.Permission{ID: p.ID}).Updates(map[string]any{
		"name":      name,
		"parent_id": parentID,
	}).Error
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}

// Delete detaches a permission from every role and user and deletes it.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := Get(tx, id); err != nil {
			return err
		}

		if err := tx.Where("permission_id = ?", id).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		if err := tx.Where("permission_id = ?", id).Delete(&models.UserPermission{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Permission{}, id).Error
	})
}

// checkName rejects names that are blank or would read as a role authority.
func checkName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return controller.ErrNameEmpty
	case models.ReservedName(name):
		return controller.ErrReservedName
	}

	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
