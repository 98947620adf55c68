// Package user provides the volunteer account endpoints and the role grants of users.
package user

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/config"
	"github.com/benevole/benevole/internal/db/controller/role"
	"github.com/benevole/benevole/internal/db/controller/user"
	"github.com/benevole/benevole/internal/db/models"
	"github.com/benevole/benevole/internal/web/handler"
)

const (
	// Path is the base path for user management.
	Path = handler.APIPath + "/users"

	paramUser = "user"
	paramRole = "role"
)

// Service provides CRUD operations for users.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil || authService == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService

	group := app.Group(Path,
		auth.RequireRole(authService, auth.RoleSuperAdmin, auth.RoleAdmin, auth.RoleUser),
	)

	group.Get(handler.RootPath, auth.RequirePermission(authService, auth.PermReadUsers), s.List)
	group.Get("/:id", auth.RequirePermission(authService, auth.PermReadUser), s.Get)
	group.Post(handler.RootPath, auth.RequirePermission(authService, auth.PermCreateUser), s.Create)
	group.Put("/:id", auth.RequirePermission(authService, auth.PermUpdateUser), s.Update)
	group.Delete("/:id", auth.RequirePermission(authService, auth.PermDeleteUser), s.Delete)
	group.Post("/appendRole/:user/:role", auth.RequirePermission(authService, auth.PermAddUserRule), s.AppendRole)
	group.Post("/removeRole/:user/:role", auth.RequirePermission(authService, auth.PermRemoveUserRule), s.RemoveRole)
	group.Post("/appendPermission/:user",
		auth.RequirePermission(authService, auth.PermAddUserPermission),
		s.AppendPermission,
	)
	group.Post("/removePermission/:user",
		auth.RequirePermission(authService, auth.PermRemoveUserPermission),
		s.RemovePermission,
	)
}

// manager reports whether the principal may act on accounts other than its own.
func manager(c *fiber.Ctx) bool {
	return auth.HasPermissionInContext(c, auth.PermReadUsers)
}

// target returns the id path parameter after checking that the principal may act on it.
// A principal that does not manage users may only act on its own account.
func target(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := handler.UUIDParam(c, handler.ParamID)
	if err != nil {
		return uuid.Nil, err
	}

	if p := auth.PrincipalFrom(c); !manager(c) && p.ID != id.String() {
		log.Warn().Str("user_id", p.ID).Str("target", id.String()).Msg("access denied to other account")
		return uuid.Nil, auth.ErrAccessDenied
	}

	return id, nil
}

// List returns one page of users ordered by email.
func (s *Service) List(c *fiber.Ctx) error {
	res, err := user.List(s.db.WithContext(c.UserContext()), handler.PageQuery(c))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(res)
}

// Get returns one user with roles and direct permissions.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := target(c)
	if err != nil {
		return err
	}

	u, err := user.Get(s.db.WithContext(c.UserContext()), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(u)
}

// Create stores a new account. Without roles in the request the account holds the user role,
// assigning other roles needs the permission to add user roles.
func (s *Service) Create(c *fiber.Ctx) error {
	var in Request
	if err := handler.ParseBody(c, &in); err != nil {
		return err
	}

	if in.Password == "" {
		return &handler.ValidationError{Details: []string{"password : required"}}
	}

	ctx := c.UserContext()

	if len(in.Roles) > 0 {
		if err := s.authService.Authorize(auth.PrincipalFrom(c), auth.HasPermission(auth.PermAddUserRule)); err != nil {
			return err //nolint:wrapcheck
		}
	}

	roles, err := s.roles(ctx, in.Roles)
	if err != nil {
		return err
	}

	u := in.User()
	u.Enabled = in.Enabled == nil || *in.Enabled

	created, err := s.authService.Local().CreateUser(ctx, u, in.Password, roles...)
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Str("user_id", created.ID.String()).Str("by", auth.PrincipalFrom(c).ID).Msg("user created")

	return c.Status(fiber.StatusCreated).JSON(created)
}

// roles loads the roles with ids, or the baseline user role when ids is empty.
func (s *Service) roles(ctx context.Context, ids []uint) ([]models.Role, error) {
	db := s.db.WithContext(ctx)

	if len(ids) == 0 {
		r, err := role.GetByName(db, auth.RoleUser)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return []models.Role{*r}, nil
	}

	out := make([]models.Role, 0, len(ids))

	for _, id := range ids {
		r, err := role.Get(db, id)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		out = append(out, *r)
	}

	return models.UniqueRoles(out), nil
}

// Update applies the profile of the request in one transaction. Changing the enabled flag
// or setting a password needs the user management permission, changing the role set needs
// both user role permissions. Users change their own password through the auth routes.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := target(c)
	if err != nil {
		return err
	}

	var in Request
	if err = handler.ParseBody(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	db := s.db.WithContext(ctx)

	current, err := user.Get(db, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if in.Enabled != nil && *in.Enabled != current.Enabled && !manager(c) {
		log.Warn().Str("user_id", id.String()).Msg("access denied to enabled flag")
		return auth.ErrAccessDenied
	}

	if in.Password != "" && !manager(c) {
		log.Warn().Str("user_id", id.String()).Msg("access denied to password without old password")
		return auth.ErrAccessDenied
	}

	var roles []models.Role

	changeRoles := in.Roles != nil && !sameRoles(current.Roles, in.Roles)
	if changeRoles {
		p := auth.PrincipalFrom(c)
		if err = s.authService.Authorize(p, auth.HasPermission(auth.PermAddUserRule, auth.PermRemoveUserRule)); err != nil {
			return err //nolint:wrapcheck
		}

		if roles, err = s.roles(ctx, in.Roles); err != nil {
			return err
		}
	}

	profile, err := in.Profile()
	if err != nil {
		return err
	}

	var updated *models.User

	err = db.Transaction(func(tx *gorm.DB) error {
		u, err := user.Update(tx, id, profile)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if changeRoles {
			u.Roles = roles

			if err = user.Save(tx, u); err != nil {
				return err //nolint:wrapcheck
			}

			if u, err = user.Get(tx, id); err != nil {
				return err //nolint:wrapcheck
			}
		}

		updated = u

		return nil
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Str("user_id", id.String()).Str("by", auth.PrincipalFrom(c).ID).Msg("user updated")

	return c.JSON(updated)
}

func sameRoles(held []models.Role, ids []uint) bool {
	want := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	if len(want) != len(held) {
		return false
	}

	for _, r := range held {
		if _, ok := want[r.ID]; !ok {
			return false
		}
	}

	return true
}

// Delete removes a user and its grants.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, handler.ParamID)
	if err != nil {
		return err
	}

	if err = user.Delete(s.db.WithContext(c.UserContext()), id); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Str("user_id", id.String()).Str("by", auth.PrincipalFrom(c).ID).Msg("user deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

// AppendRole grants a role to a user.
func (s *Service) AppendRole(c *fiber.Ctx) error {
	userID, roleID, err := roleParams(c)
	if err != nil {
		return err
	}

	u, err := s.authService.GrantRole(c.UserContext(), userID, roleID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(u)
}

// RemoveRole revokes a role from a user.
func (s *Service) RemoveRole(c *fiber.Ctx) error {
	userID, roleID, err := roleParams(c)
	if err != nil {
		return err
	}

	u, err := s.authService.RevokeRole(c.UserContext(), userID, roleID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(u)
}

func roleParams(c *fiber.Ctx) (uuid.UUID, uint, error) {
	userID, err := handler.UUIDParam(c, paramUser)
	if err != nil {
		return uuid.Nil, 0, err
	}

	roleID, err := handler.UintParam(c, paramRole)
	if err != nil {
		return uuid.Nil, 0, err
	}

	return userID, roleID, nil
}

// AppendPermission grants the permission ids of the body directly to a user.
// Permissions the user already reaches through a role are skipped.
func (s *Service) AppendPermission(c *fiber.Ctx) error {
	userID, err := handler.UUIDParam(c, paramUser)
	if err != nil {
		return err
	}

	ids, err := handler.ParseIDs(c)
	if err != nil {
		return err
	}

	u, err := s.authService.GrantPermissions(c.UserContext(), userID, ids)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(u)
}

// RemovePermission revokes the permission ids of the body from a user.
func (s *Service) RemovePermission(c *fiber.Ctx) error {
	userID, err := handler.UUIDParam(c, paramUser)
	if err != nil {
		return err
	}

	ids, err := handler.ParseIDs(c)
	if err != nil {
		return err
	}

	u, err := s.authService.RevokePermissions(c.UserContext(), userID, ids)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(u)
}
