// Package user provides CRUD operations for user accounts and their role and permission grants.
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/db/controller"
	"github.com/benevole/benevole/internal/db/controller/permission"
	"github.com/benevole/benevole/internal/db/controller/role"
	"github.com/benevole/benevole/internal/db/models"
)

const (
	associationRoles       = "Roles"
	associationPermissions = "Permissions"

	emailQueryPattern = "email = ?"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = fmt.Errorf("user %w", controller.ErrNotFound)
	// ErrUserAlreadyExists is returned when an email is taken.
	ErrUserAlreadyExists = fmt.Errorf("user %w", controller.ErrAlreadyExists)
	// ErrEmailEmpty is returned for users without email.
	ErrEmailEmpty = errors.New("user email cannot be empty")
)

// WithGrants preloads the roles with their permissions and the direct permissions of users.
func WithGrants(db *gorm.DB) *gorm.DB {
	return db.
		Preload(associationRoles, func(db *gorm.DB) *gorm.DB { return db.Order("roles.name asc") }).
		Preload(associationRoles+"."+associationPermissions).
		Preload(associationPermissions, func(db *gorm.DB) *gorm.DB { return db.Order("permissions.name asc") })
}

// Get retrieves a user with all grants by ID.
func Get(db *gorm.DB, id uuid.UUID) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var u models.User
	if err := db.Scopes(WithGrants).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, controller.NotFound(err, ErrUserNotFound)
	}

	return &u, nil
}

// GetByEmail retrieves a user with all grants by email. The lookup ignores case.
func GetByEmail(db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailEmpty
	}

	var u models.User
	if err := db.Scopes(WithGrants).Where(emailQueryPattern, email).First(&u).Error; err != nil {
		return nil, controller.NotFound(err, ErrUserNotFound)
	}

	return &u, nil
}

// NormalizeEmail trims and lower cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// List returns page p of all users with their grants ordered by email.
func List(db *gorm.DB, p controller.Page) (*controller.Result[models.User], error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	p = p.Normalize()
	db = db.Session(&gorm.Session{})

	var (
		total int64
		items []models.User
	)

	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, err
	}

	err := db.Scopes(WithGrants, controller.Paginate(p)).Order("email asc").Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &controller.Result[models.User]{Items: items, Page: p.Number, Size: p.Size, Total: total}, nil
}

// ListByRole returns every user holding the role.
func ListByRole(db *gorm.DB, roleID uint) ([]models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var out []models.User

	holders := db.Model(&models.UserRole{}).Select("user_id").Where("role_id = ?", roleID)
	err := db.Scopes(WithGrants).Where("id IN (?)", holders).Order("email asc").Find(&out).Error

	return out, err
}

// Create inserts a user. Password must already be hashed.
// Roles and permissions are linked by id and have to exist.
func Create(db *gorm.DB, u *models.User) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	u.Email = NormalizeEmail(u.Email)
	if u.Email == "" {
		return nil, ErrEmailEmpty
	}

	var created *models.User

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := GetByEmail(tx, u.Email); err == nil {
			return ErrUserAlreadyExists
		} else if !errors.Is(err, ErrUserNotFound) {
			return err
		}

		roles, permissions := u.Roles, u.Permissions

		if err := tx.Omit(associationRoles, associationPermissions).Create(u).Error; err != nil {
			return err
		}

		if err := replaceGrants(tx, u, roles, permissions); err != nil {
			return err
		}

		var err error
		created, err = Get(tx, u.ID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Profile holds the updatable account fields. Nil fields are left unchanged.
type Profile struct {
	Username       *string
	Password       *string // hashed
	Enabled        *bool
	FirstName      *string
	LastName       *string
	Phone          *string
	City           *string
	PostalCode     *string
	Address        *string
	Profession     *string
	Sex            *string
	BirthDate      *time.Time
	DrivingLicence *bool
}

func (p Profile) updates() map[string]any {
	out := map[string]any{}

	set := func(column string, v *string) {
		if v != nil {
			out[column] = *v
		}
	}

	set("username", p.Username)
	set("password", p.Password)
	set("first_name", p.FirstName)
	set("last_name", p.LastName)
	set("phone", p.Phone)
	set("city", p.City)
	set("postal_code", p.PostalCode)
	set("address", p.Address)
	set("profession", p.Profession)
	set("sex", p.Sex)

	if p.Enabled != nil {
		out["enabled"] = *p.Enabled
	}

	if p.DrivingLicence != nil {
		out["driving_licence"] = *p.DrivingLicence
	}

	if p.BirthDate != nil {
		out["birth_date"] = *p.BirthDate
	}

	return out
}

// Update applies the non nil profile fields and persists them.
func Update(db *gorm.DB, id uuid.UUID, p Profile) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var updated *models.User

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := Get(tx, id); err != nil {
			return err
		}

		if changes := p.updates(); len(changes) > 0 {
			if err := tx.Model(&models.User{ID: id}).Updates(changes).Error; err != nil {
				return err
			}
		}

		var err error
		updated, err = Get(tx, id)

		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Save persists the enabled flag and replaces the role and permission sets of an existing user.
func Save(db *gorm.DB, u *models.User) error {
	if db == nil {
		return controller.ErrDBNil
	}

	if u == nil || u.ID == uuid.Nil {
		return ErrUserNotFound
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := Get(tx, u.ID); err != nil {
			return err
		}

		if err := tx.Model(&models.User{ID: u.ID}).Update("enabled", u.Enabled).Error; err != nil {
			return err
		}

		return replaceGrants(tx, u, u.Roles, u.Permissions)
	})
}

func replaceGrants(tx *gorm.DB, u *models.User, roles []models.Role, permissions []models.Permission) error {
	roles = models.UniqueRoles(roles)
	linked := make([]models.Role, 0, len(roles))

	for _, r := range roles {
		found, err := role.Get(tx, r.ID)
		if err != nil {
			return err
		}

		// link only, the permission set of the role is not touched
		found.Permissions = nil
		linked = append(linked, *found)
	}

	ids := make([]uint, 0, len(permissions))
	for _, p := range permissions {
		ids = append(ids, p.ID)
	}

	granted, err := permission.GetMany(tx, ids)
	if err != nil {
		return err
	}

	if err = controller.ReplaceAssociation(tx, u, associationRoles, linked); err != nil {
		return err
	}

	return controller.ReplaceAssociation(tx, u, associationPermissions, granted)
}

// Delete clears the grants of a user and deletes it.
func Delete(db *gorm.DB, id uuid.UUID) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := Get(tx, id); err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.UserPermission{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.User{}).Error
	})
}

// Count returns the number of users.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, controller.ErrDBNil
	}

	var n int64
	err := db.Model(&models.User{}).Count(&n).Error

	return n, err
}

// SetPassword stores a new password hash for the user.
func SetPassword(db *gorm.DB, id uuid.UUID, hash string) error {
	if db == nil {
		return controller.ErrDBNil
	}

	res := db.Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
