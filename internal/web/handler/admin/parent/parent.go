// Package parent provides the endpoints of the permission parents.
package parent

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/config"
	"github.com/benevole/benevole/internal/db/controller/parent"
	"github.com/benevole/benevole/internal/web/handler"
)

// Path is the base path of the permission parents.
const Path = handler.APIPath + "/parents"

// Request creates or renames a parent.
type Request struct {
	Name string `json:"name" validate:"required,max=30"`
}

// Service provides CRUD operations for permission parents.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
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

	group := app.Group(Path, auth.RequireRole(authService, auth.RoleSuperAdmin))

	group.Get(handler.RootPath, auth.RequirePermission(authService, auth.PermReadParentPermissions), s.List)
	group.Get("/:id", auth.RequirePermission(authService, auth.PermReadParentPermission), s.Get)
	group.Post(handler.RootPath, auth.RequirePermission(authService, auth.PermCreateParentPermission), s.Create)
	group.Put("/:id", auth.RequirePermission(authService, auth.PermUpdateParentPermission), s.Update)
	group.Delete("/:id", auth.RequirePermission(authService, auth.PermDeleteParentPermission), s.Delete)
}

// List returns one page of parents ordered by name.
func (s *Service) List(c *fiber.Ctx) error {
	res, err := parent.List(s.db.WithContext(c.UserContext()), handler.PageQuery(c))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(res)
}

// Get returns one parent.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.UintParam(c, handler.ParamID)
	if err != nil {
		return err
	}

	p, err := parent.Get(s.db.WithContext(c.UserContext()), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(p)
}

// Create stores a new parent.
func (s *Service) Create(c *fiber.Ctx) error {
	var in Request
	if err := handler.ParseBody(c, &in); err != nil {
		return err
	}

	p, err := parent.Create(s.db.WithContext(c.UserContext()), in.Name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

// Update renames a parent.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.UintParam(c, handler.ParamID)
	if err != nil {
		return err
	}

	var in Request
	if err = handler.ParseBody(c, &in); err != nil {
		return err
	}

	p, err := parent.Update(s.db.WithContext(c.UserContext()), id, in.Name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(p)
}

// Delete removes a parent together with its permissions.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.UintParam(c, handler.ParamID)
	if err != nil {
		return err
	}

	if err = parent.Delete(s.db.WithContext(c.UserContext()), id); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint("parent_id", id).Str("by", auth.PrincipalFrom(c).ID).Msg("permission parent deleted")

	return c.SendStatus(fiber.StatusNoContent)
}
