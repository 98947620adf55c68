// Package parent provides CRUD operations for permission parents.
package parent

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/db/controller"
	"github.com/benevole/benevole/internal/db/models"
)

var (
	// ErrParentNotFound is returned when a permission parent is not found.
	ErrParentNotFound = fmt.Errorf("permission parent %w", controller.ErrNotFound)
	// ErrParentAlreadyExists is returned when a parent name is taken.
	ErrParentAlreadyExists = fmt.Errorf("permission parent %w", controller.ErrAlreadyExists)
	// ErrParentNameTooLong is returned for names above models.PermissionParentNameMaxLen.
	ErrParentNameTooLong = fmt.Errorf("permission parent name can not exceed %d characters",
		models.PermissionParentNameMaxLen)
)

func checkName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return controller.ErrNameEmpty
	case len([]rune(name)) > models.PermissionParentNameMaxLen:
		return ErrParentNameTooLong
	}

	return nil
}

// Get retrieves a parent by its ID.
func Get(db *gorm.DB, id uint) (*models.PermissionParent, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var p models.PermissionParent
	if err := db.First(&p, id).Error; err != nil {
		return nil, controller.NotFound(err, ErrParentNotFound)
	}

	return &p, nil
}

// GetByName retrieves a parent by its name.
func GetByName(db *gorm.DB, name string) (*models.PermissionParent, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if name == "" {
		return nil, controller.ErrNameEmpty
	}

	var p models.PermissionParent
	if err := db.Where(controller.NameQueryPattern, name).First(&p).Error; err != nil {
		return nil, controller.NotFound(err, ErrParentNotFound)
	}

	return &p, nil
}

// List returns page p of all parents ordered by name.
func List(db *gorm.DB, p controller.Page) (*controller.Result[models.PermissionParent], error) {
	return controller.List[models.PermissionParent](db, p)
}

// Count returns the number of parents.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, controller.ErrDBNil
	}

	var n int64
	err := db.Model(&models.PermissionParent{}).Count(&n).Error

	return n, err
}

// Create creates a new parent in the database.
func Create(db *gorm.DB, name string) (*models.PermissionParent, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if err := checkName(name); err != nil {
		return nil, err
	}

	if _, err := GetByName(db, name); err == nil {
		return nil, ErrParentAlreadyExists
	} else if !errors.Is(err, ErrParentNotFound) {
		return nil, err
	}

	p := &models.PermissionParent{Name: name}
	if err := db.Create(p).Error; err != nil {
		return nil, err
	}

	return p, nil
}

// Update renames an existing parent.
func Update(db *gorm.DB, id uint, name string) (*models.PermissionParent, error) {
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

	if other, err := GetByName(db, name); err == nil && other.ID != p.ID {
		return nil, ErrParentAlreadyExists
	}

	p.Name = name
	if err = db.Save(p).Error; err != nil {
		return nil, err
	}

	return p, nil
}

// Delete deletes a parent together with its permissions.
// The permissions are detached from every role and user first.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := Get(tx, id); err != nil {
			return err
		}

		permissions := func() *gorm.DB {
			return tx.Model(&models.Permission{}).Select("id").Where("parent_id = ?", id)
		}

		if err := tx.Where("permission_id IN (?)", permissions()).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		if err := tx.Where("permission_id IN (?)", permissions()).Delete(&models.UserPermission{}).Error; err != nil {
			return err
		}

		if err := tx.Where("parent_id = ?", id).Delete(&models.Permission{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.PermissionParent{}, id).Error
	})
}
