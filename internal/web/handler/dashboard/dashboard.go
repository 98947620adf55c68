// Package dashboard provides the administration overview and the public application info.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/config"
	"github.com/benevole/benevole/internal/db/controller/parent"
	"github.com/benevole/benevole/internal/db/controller/role"
	"github.com/benevole/benevole/internal/db/controller/user"
	"github.com/benevole/benevole/internal/db/models"
	"github.com/benevole/benevole/internal/web/handler"
)

const (
	// Path is the path of the dashboard.
	Path = handler.APIPath + "/dashboard"

	// InfoPath is the path of the application info.
	InfoPath = handler.APIPath + "/info"
)

// Counts holds the size of the catalog, the registry and the user base.
type Counts struct {
	Users       int64 `json:"users"`
	Roles       int64 `json:"roles"`
	Permissions int64 `json:"permissions"`
	Parents     int64 `json:"parents"`
}

// RoleUsage is the number of users holding a role.
type RoleUsage struct {
	Role  string `json:"role"`
	Users int    `json:"users"`
}

// Data represents the complete dashboard data.
type Data struct {
	Counts Counts      `json:"counts"`
	Roles  []RoleUsage `json:"roles"`
}

// Info describes the running application.
type Info struct {
	Title       string `json:"title"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil || authService == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Get(InfoPath, s.Info)
	app.Get(Path,
		auth.RequireRole(authService, auth.RoleSuperAdmin, auth.RoleAdmin),
		auth.RequireAllPermissions(authService, auth.PermReadUsers, auth.PermReadRules),
		s.Get,
	)
}

// Info returns title, name, description and version of the application.
func (s *Service) Info(c *fiber.Ctx) error {
	return c.JSON(Info{
		Title:       s.cfg.Title,
		Name:        s.cfg.Application.Name,
		Description: s.cfg.Application.Description,
		Version:     s.cfg.Application.Version,
	})
}

// Get returns the counts and the number of users per default role.
func (s *Service) Get(c *fiber.Ctx) error {
	db := s.db.WithContext(c.UserContext())

	counts, err := count(db)
	if err != nil {
		return err
	}

	data := Data{Counts: counts, Roles: make([]RoleUsage, 0, len(auth.DefaultRoles()))}

	for _, d := range auth.DefaultRoles() {
		r, err := role.GetByName(db, d.Name)
		if err != nil {
			log.Debug().Err(err).Str("role", d.Name).Msg("default role missing")
			continue
		}

		users, err := user.ListByRole(db, r.ID)
		if err != nil {
			return err //nolint:wrapcheck
		}

		data.Roles = append(data.Roles, RoleUsage{Role: r.Name, Users: len(users)})
	}

	log.Debug().
		Int64("users", counts.Users).
		Int64("roles", counts.Roles).
		Int64("permissions", counts.Permissions).
		Int64("parents", counts.Parents).
		Msg("dashboard counts retrieved")

	return c.JSON(data)
}

func count(db *gorm.DB) (Counts, error) {
	var (
		out Counts
		err error
	)

	if out.Users, err = user.Count(db); err != nil {
		return out, err //nolint:wrapcheck
	}

	if out.Parents, err = parent.Count(db); err != nil {
		return out, err //nolint:wrapcheck
	}

	if err = db.Model(&models.Role{}).Count(&out.Roles).Error; err != nil {
		return out, err //nolint:wrapcheck
	}

	if err = db.Model(&models.Permission{}).Count(&out.Permissions).Error; err != nil {
		return out, err //nolint:wrapcheck
	}

	return out, nil
}
