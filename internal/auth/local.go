package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/benevole/benevole/internal/db/controller"
	"github.com/benevole/benevole/internal/db/models"
)

// LocalProvider handles email and password authentication against the directory.
type LocalProvider struct {
	dir Directory
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(dir Directory) *LocalProvider {
	return &LocalProvider{dir: dir}
}

// Authenticate checks the credentials and returns the user with its grants.
// Errors tell the precise reason and must not be shown to clients.
func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := p.dir.FindUserByEmail(ctx, email)
	if errors.Is(err, controller.ErrNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	// Check if user is enabled
	if !user.Enabled {
		return nil, ErrUserAccountDisabled
	}

	// Verify password
	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return user, nil
}

// CreateUser creates an enabled user holding the given roles.
func (p *LocalProvider) CreateUser(ctx context.Context, u *models.User, password string, roles ...models.Role) (*models.User, error) {
	if _, err := p.dir.FindUserByEmail(ctx, u.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, controller.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u.Password = hash
	u.Roles = roles

	created, err := p.dir.CreateUser(ctx, u)
	if errors.Is(err, controller.ErrAlreadyExists) {
		return nil, ErrEmailExists
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// ChangePassword changes a user's password after checking the old one.
func (p *LocalProvider) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	user, err := p.dir.FindUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	if !user.VerifyPassword(oldPassword) {
		return ErrInvalidOldPassword
	}

	return p.ResetPassword(ctx, id, newPassword)
}

// ResetPassword sets a new password without checking the old one (admin function).
func (p *LocalProvider) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	hash, err := models.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return p.dir.UpdatePassword(ctx, id, hash)
}
