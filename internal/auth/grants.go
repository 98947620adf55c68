package auth

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/benevole/benevole/internal/db/models"
)

// Grants take effect for a principal with its next token.

// GrantRole adds the role to the user. Granting a held role is a no-op.
func (s *Service) GrantRole(ctx context.Context, userID uuid.UUID, roleID uint) (*models.User, error) {
	u, err := s.dir.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	r, err := s.dir.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if u.HasRole(r.ID) {
		return u, nil
	}

	u.Roles = append(u.Roles, *r)

	return s.saveUser(ctx, u, "role granted", log.Info().Str("role", r.Name))
}

// RevokeRole removes the role from the user. Revoking a role not held is a no-op.
func (s *Service) RevokeRole(ctx context.Context, userID uuid.UUID, roleID uint) (*models.User, error) {
	u, err := s.dir.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	r, err := s.dir.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if !u.HasRole(r.ID) {
		return u, nil
	}

	u.Roles = slices.DeleteFunc(u.Roles, func(held models.Role) bool { return held.ID == r.ID })

	return s.saveUser(ctx, u, "role revoked", log.Info().Str("role", r.Name))
}

// GrantPermissions grants permissions directly to the user.
// Permissions the user already reaches through a role or a direct grant are skipped.
func (s *Service) GrantPermissions(ctx context.Context, userID uuid.UUID, permissionIDs []uint) (*models.User, error) {
	u, err := s.dir.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	permissions, err := s.dir.FindPermissionsByIDs(ctx, permissionIDs)
	if err != nil {
		return nil, err
	}

	var added []string

	for _, p := range permissions {
		if reachable(u, p.ID) {
			continue
		}

		u.Permissions = append(u.Permissions, p)
		added = append(added, p.Name)
	}

	if len(added) == 0 {
		return u, nil
	}

	return s.saveUser(ctx, u, "permissions granted", log.Info().Strs("permissions", added))
}

// RevokePermissions removes direct permission grants from the user.
// Permissions reached through roles stay, revoke the role for those.
func (s *Service) RevokePermissions(ctx context.Context, userID uuid.UUID, permissionIDs []uint) (*models.User, error) {
	u, err := s.dir.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	permissions, err := s.dir.FindPermissionsByIDs(ctx, permissionIDs)
	if err != nil {
		return nil, err
	}

	before := len(u.Permissions)
	u.Permissions = slices.DeleteFunc(u.Permissions, func(held models.Permission) bool {
		return slices.ContainsFunc(permissions, held.Equal)
	})

	if len(u.Permissions) == before {
		return u, nil
	}

	return s.saveUser(ctx, u, "permissions revoked", log.Info().Int("revoked", before-len(u.Permissions)))
}

// AddPermissionToRole grants a permission to every holder of the role.
func (s *Service) AddPermissionToRole(ctx context.Context, roleID, permissionID uint) (*models.Role, error) {
	r, err := s.dir.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	p, err := s.dir.FindPermissionByID(ctx, permissionID)
	if err != nil {
		return nil, err
	}

	if r.HasPermission(p.ID) {
		return r, nil
	}

	r.Permissions = append(r.Permissions, *p)

	return s.saveRole(ctx, r, p.Name, "permission added to role")
}

// RemovePermissionFromRole revokes a permission from the role.
func (s *Service) RemovePermissionFromRole(ctx context.Context, roleID, permissionID uint) (*models.Role, error) {
	r, err := s.dir.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	p, err := s.dir.FindPermissionByID(ctx, permissionID)
	if err != nil {
		return nil, err
	}

	if !r.HasPermission(p.ID) {
		return r, nil
	}

	r.Permissions = slices.DeleteFunc(r.Permissions, p.Equal)

	return s.saveRole(ctx, r, p.Name, "permission removed from role")
}

// reachable reports whether u holds the permission through a role or directly.
func reachable(u *models.User, permissionID uint) bool {
	for _, r := range u.Roles {
		if r.HasPermission(permissionID) {
			return true
		}
	}

	return slices.ContainsFunc(u.Permissions, func(p models.Permission) bool { return p.ID == permissionID })
}

func (s *Service) saveUser(ctx context.Context, u *models.User, msg string, ev *zerolog.Event) (*models.User, error) {
	if err := s.dir.SaveUser(ctx, u); err != nil {
		return nil, err
	}

	ev.Str("user_id", u.ID.String()).Msg(msg)

	return s.dir.FindUserByID(ctx, u.ID)
}

func (s *Service) saveRole(ctx context.Context, r *models.Role, permission, msg string) (*models.Role, error) {
	if err := s.dir.SaveRole(ctx, r); err != nil {
		return nil, err
	}

	log.Info().Str("role", r.Name).Str("permission", permission).Msg(msg)

	return s.dir.FindRoleByID(ctx, r.ID)
}
