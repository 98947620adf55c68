// Package role provides the role registry endpoints.
package role

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/config"
	"github.com/benevole/benevole/internal/db/controller/role"
	"github.com/benevole/benevole/internal/web/handler"
)

const (
	// Path is the base path of the role registry.
	Path = handler.APIPath + "/roles"

	paramRole       = "role"
	paramPermission = "perm"
)

// Request creates or updates a role. Permissions holds permission ids.
type Request struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Permissions []uint `json:"permissions"`
}

// Service provides CRUD operations for roles.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes. The whole group is reserved to super admins.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil || authService == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService

	group := app.Group(Path, auth.RequireRole(authService, auth.RoleSuperAdmin))

	group.Get(handler.RootPath, auth.RequirePermission(authService, auth.PermReadRules), s.List)
	group.Get("/:id", auth.RequirePermission(authService, auth.PermReadRule), s.Get)
	group.Post(handler.RootPath, auth.RequirePermission(authService, auth.PermCreateRule), s.Create)
	group.Put("/:id", auth.RequirePermission(authService, auth.PermUpdateRule), s.Update)
	group.Delete("/:id", auth.RequirePermission(authService, auth.PermDeleteRule), s.Delete)
	group.Post("/appendPermission/:role/:perm",
		auth.RequirePermission(authService, auth.PermAddPermissionToRule),
		s.AppendPermission,
	)
	group.Post("/removePermission/:role/:perm",
		auth.RequirePermission(authService, auth.PermRemovePermissionToRule),
		s.RemovePermission,
	)
}

// List returns one page of roles ordered by name.
func (s *Service) List(c *fiber.Ctx) error {
	res, err := role.List(s.db.WithContext(c.UserContext()), handler.PageQuery(c))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(res)
}

// Get returns one role with its permissions.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.UintParam(c, handler.ParamID)
	if err != nil {
		return err
	}

	r, err := role.Get(s.db.WithContext(c.UserContext()), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(r)
}

// Create stores a new role.
func (s *Service) Create(c *fiber.Ctx) error {
	var in Request
	if err := handler.ParseBody(c, &in); err != nil {
		return err
	}

	r, err := role.Create(s.db.WithContext(c.UserContext()), in.Name, in.Permissions)
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint("role_id", r.ID).Str("name", r.Name).Str("by", auth.PrincipalFrom(c).ID).Msg("role created")

	return c.Status(fiber.StatusCreated).JSON(r)
}

// Update replaces name and permission set of a role.
// A body without permissions clears the set.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.UintParam(c, handler.ParamID)
	if err != nil {
		return err
	}

	var in Request
	if err = handler.ParseBody(c, &in); err != nil {
		return err
	}

	if in.Permissions == nil {
		in.Permissions = []uint{}
	}

	r, err := role.Update(s.db.WithContext(c.UserContext()), id, in.Name, in.Permissions)
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint("role_id", r.ID).Str("by", auth.PrincipalFrom(c).ID).Msg("role updated")

	return c.JSON(r)
}

// Delete removes a role and detaches it from every user.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.UintParam(c, handler.ParamID)
	if err != nil {
		return err
	}

	if err = role.Delete(s.db.WithContext(c.UserContext()), id); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint("role_id", id).Str("by", auth.PrincipalFrom(c).ID).Msg("role deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

// AppendPermission adds a permission to a role.
func (s *Service) AppendPermission(c *fiber.Ctx) error {
	roleID, permissionID, err := params(c)
	if err != nil {
		return err
	}

	if _, err = s.authService.AddPermissionToRole(c.UserContext(), roleID, permissionID); err != nil {
		return err //nolint:wrapcheck
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RemovePermission removes a permission from a role.
func (s *Service) RemovePermission(c *fiber.Ctx) error {
	roleID, permissionID, err := params(c)
	if err != nil {
		return err
	}

	if _, err = s.authService.RemovePermissionFromRole(c.UserContext(), roleID, permissionID); err != nil {
		return err //nolint:wrapcheck
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func params(c *fiber.Ctx) (roleID, permissionID uint, err error) {
	if roleID, err = handler.UintParam(c, paramRole); err != nil {
		return 0, 0, err
	}

	if permissionID, err = handler.UintParam(c, paramPermission); err != nil {
		return 0, 0, err
	}

	return roleID, permissionID, nil
}
