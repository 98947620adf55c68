// Package permission provides the permission catalog endpoints and the direct
// permission grants of users.
package permission

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/config"
	"github.com/benevole/benevole/internal/db/controller/permission"
	"github.com/benevole/benevole/internal/web/handler"
)

const (
	// Path is the base path of the permission catalog.
	Path = handler.APIPath + "/permissions"

	paramUser   = "user"
	queryParent = "parent"
)

// Request creates or updates a permission. Parent is the parent id.
type Request struct {
	Name   string `json:"name"   validate:"required,max=100"`
	Parent uint   `json:"parent" validate:"required"`
}

// Service provides CRUD operations for permissions.
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

	group := app.Group(Path, auth.RequireRole(authService, auth.RoleSuperAdmin))

	group.Get(handler.RootPath, auth.RequirePermission(authService, auth.PermReadPermissions), s.List)
	// registered before /:id
	group.Get("/parent", auth.RequirePermission(authService, auth.PermReadPermissions), s.ListByParent)
	group.Get("/:id", auth.RequirePermission(authService, auth.PermReadPermission), s.Get)
	group.Post(handler.RootPath, auth.RequirePermission(authService, auth.PermCreatePermission), s.Create)
	group.Put("/:id", auth.RequirePermission(authService, auth.PermUpdatePermission), s.Update)
	group.Delete("/:id", auth.RequirePermission(authService, auth.PermDeletePermission), s.Delete)
	group.Post("/appendPermission/:user",
		auth.RequirePermission(authService, auth.PermAddPermissionToUser),
		s.AppendToUser,
	)
	group.Post("/removePermission/:user",
		auth.RequirePermission(authService, auth.PermRemovePermissionToUser),
		s.RemoveFromUser,
	)
}

// List returns one page of permissions ordered by name.
func (s *Service) List(c *fiber.Ctx) error {
	res, err := permission.List(s.db.WithContext(c.UserContext()), handler.PageQuery(c))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(res)
}

// ListByParent returns the permissions of the parent given by the parent query parameter.
func (s *Service) ListByParent(c *fiber.Ctx) error {
	parentID := c.QueryInt(queryParent, 0)
	if parentID <= 0 {
		return &handler.ValidationError{Details: []string{queryParent + " : required"}}
	}

	res, err := permission.ListByParent(s.db.WithContext(c.UserContext()), uint(parentID))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(res)
}

// Get returns one permission.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.UintParam(c, handler.ParamID)
	if err != nil {
		return err
	}

	p, err := permission.Get(s.db.WithContext(c.UserContext()), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(p)
}

// Create stores a new permission under an existing parent.
func (s *Service) Create(c *fiber.Ctx) error {
	var in Request
	if err := handler.ParseBody(c, &in); err != nil {
		return err
	}

	p, err := permission.Create(s.db.WithContext(c.UserContext()), in.Name, in.Parent)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

// Update changes name and parent of a permission.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.UintParam(c, handler.ParamID)
	if err != nil {
		return err
	}

	var in Request
	if err = handler.ParseBody(c, &in); err != nil {
		return err
	}

	p, err := permission.Update(s.db.WithContext(c.UserContext()), id, in.Name, in.Parent)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(p)
}

// Delete removes a permission from the catalog, every role and every user.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.UintParam(c, handler.ParamID)
	if err != nil {
		return err
	}

	if err = permission.Delete(s.db.WithContext(c.UserContext()), id); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint("permission_id", id).Str("by", auth.PrincipalFrom(c).ID).Msg("permission deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

// AppendToUser grants the permission ids of the body directly to a user.
func (s *Service) AppendToUser(c *fiber.Ctx) error {
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

// RemoveFromUser revokes the permission ids of the body from a user.
func (s *Service) RemoveFromUser(c *fiber.Ctx) error {
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
