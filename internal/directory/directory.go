// Package directory implements auth.Directory on top of the database controllers.
package directory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/db/controller/permission"
	"github.com/benevole/benevole/internal/db/controller/role"
	"github.com/benevole/benevole/internal/db/controller/user"
	"github.com/benevole/benevole/internal/db/models"
)

var _ auth.Directory = (*Gorm)(nil)

// Gorm is a gorm backed directory.
type Gorm struct {
	db *gorm.DB
}

// New returns a directory using db.
func New(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) with(ctx context.Context) *gorm.DB {
	return g.db.WithContext(ctx)
}

// FindUserByID implements auth.Directory.
func (g *Gorm) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return user.Get(g.with(ctx), id)
}

// FindUserByEmail implements auth.Directory.
func (g *Gorm) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return user.GetByEmail(g.with(ctx), email)
}

// FindRoleByID implements auth.Directory.
func (g *Gorm) FindRoleByID(ctx context.Context, id uint) (*models.Role, error) {
	return role.Get(g.with(ctx), id)
}

// FindRoleByName implements auth.Directory.
func (g *Gorm) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	return role.GetByName(g.with(ctx), name)
}

// FindPermissionByID implements auth.Directory.
func (g *Gorm) FindPermissionByID(ctx context.Context, id uint) (*models.Permission, error) {
	return permission.Get(g.with(ctx), id)
}

// FindPermissionsByIDs implements auth.Directory.
func (g *Gorm) FindPermissionsByIDs(ctx context.Context, ids []uint) ([]models.Permission, error) {
	return permission.GetMany(g.with(ctx), ids)
}

// CreateUser implements auth.Directory.
func (g *Gorm) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	return user.Create(g.with(ctx), u)
}

// SaveUser implements auth.Directory.
func (g *Gorm) SaveUser(ctx context.Context, u *models.User) error {
	return user.Save(g.with(ctx), u)
}

// SaveRole implements auth.Directory.
func (g *Gorm) SaveRole(ctx context.Context, r *models.Role) error {
	return role.Save(g.with(ctx), r)
}

// UpdatePassword implements auth.Directory.
func (g *Gorm) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return user.SetPassword(g.with(ctx), id, hash)
}
