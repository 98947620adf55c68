package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/benevole/benevole/internal/db/models"
)

// Directory gives the auth service access to stored principals, roles and permissions.
// Users and roles are returned with their role and permission collections loaded.
// Lookups of unknown entities return an error matching controller.ErrNotFound.
type Directory interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindRoleByID(ctx context.Context, id uint) (*models.Role, error)
	FindRoleByName(ctx context.Context, name string) (*models.Role, error)
	FindPermissionByID(ctx context.Context, id uint) (*models.Permission, error)
	FindPermissionsByIDs(ctx context.Context, ids []uint) ([]models.Permission, error)
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
	SaveRole(ctx context.Context, r *models.Role) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}
