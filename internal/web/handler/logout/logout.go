// Package logout provides the logout endpoint.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/config"
	"github.com/benevole/benevole/internal/web/handler"
)

// Path is the logout route.
const Path = handler.APIPath + "/auth/logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg *config.Config
}

// Handler is the logout handler.
var Handler = Service{}

// Init registers the logout route.
func (s *Service) Init(app *fiber.App, cfg *config.Config, _ *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || authService == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg

	app.Post(Path, auth.RequireAuthenticated(authService), s.Logout)
}

// Logout acknowledges the end of a session.
// Tokens are not revoked: the client discards its token, which stays valid until it expires.
func (s *Service) Logout(c *fiber.Ctx) error {
	p := auth.PrincipalFrom(c)
	log.Info().Str("user_id", p.ID).Msg("user logged out")

	return c.SendStatus(fiber.StatusNoContent)
}
