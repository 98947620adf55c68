// Package login provides the authentication endpoints: login, signup, the
// current principal and password change.
package login

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/config"
	"github.com/benevole/benevole/internal/db/controller/user"
	"github.com/benevole/benevole/internal/db/models"
	"github.com/benevole/benevole/internal/web/handler"
	userhandler "github.com/benevole/benevole/internal/web/handler/admin/user"
)

const (
	// Path is the base path of the authentication endpoints.
	Path = handler.APIPath + "/auth"
)

// Service is the login handler service.
type Service struct {
	handler.Service

	// Storage keeps the login rate limit counters. Optional, default in memory.
	Storage fiber.Storage

	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the login handler.
var Handler = Service{}

// Credentials is the login request.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=255"`
}

// PasswordChange is the password change request.
type PasswordChange struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=255"`
}

// Me describes the authenticated principal.
type Me struct {
	User        *models.User `json:"user"`
	Authorities []string     `json:"authorities"`
}

// Init registers the authentication routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil || authService == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService

	app.Route(Path, func(router fiber.Router) {
		router.Post("/login", s.loginLimiter(), s.Login)
		router.Post("/signup", s.Signup)
		router.Get("/me", auth.RequireAuthenticated(authService), s.Me)
		router.Post("/password", auth.RequireAuthenticated(authService), s.ChangePassword)
	})
}

// loginLimiter limits login attempts per client ip. A limit of 0 disables it.
func (s *Service) loginLimiter() fiber.Handler {
	if s.cfg.Webserver.LoginRateLimit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:        s.cfg.Webserver.LoginRateLimit,
		Expiration: s.cfg.Webserver.LoginRateWindow,
		Storage:    s.Storage,
		LimitReached: func(c *fiber.Ctx) error {
			log.Warn().Str("ip", c.IP()).Msg("login rate limit reached")

			return c.Status(fiber.StatusTooManyRequests).
				JSON(handler.NewErrorResponse(fiber.StatusTooManyRequests, handler.MsgTooManyRequests))
		},
	})
}

// Login checks the credentials and returns a fresh access token with the authority snapshot.
func (s *Service) Login(c *fiber.Ctx) error {
	var in Credentials
	if err := handler.ParseBody(c, &in); err != nil {
		return err
	}

	res, err := s.authService.Authenticate(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(res)
}

// Signup registers a volunteer holding only the baseline user role.
func (s *Service) Signup(c *fiber.Ctx) error {
	var in userhandler.Request
	if err := handler.ParseBody(c, &in); err != nil {
		return err
	}

	if in.Password == "" {
		return &handler.ValidationError{Details: []string{"password : required"}}
	}

	created, err := s.authService.Register(c.UserContext(), in.User(), in.Password)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// Me returns the stored account of the principal and the authorities of its token.
func (s *Service) Me(c *fiber.Ctx) error {
	p := auth.PrincipalFrom(c)

	id, err := uuid.Parse(p.ID)
	if err != nil {
		return ErrPrincipalID
	}

	u, err := user.Get(s.db.WithContext(c.UserContext()), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(Me{User: u, Authorities: p.Authorities.Strings()})
}

// ChangePassword replaces the password of the principal after checking the old one.
// Tokens issued before stay valid until they expire.
func (s *Service) ChangePassword(c *fiber.Ctx) error {
	var in PasswordChange
	if err := handler.ParseBody(c, &in); err != nil {
		return err
	}

	id, err := uuid.Parse(auth.PrincipalFrom(c).ID)
	if err != nil {
		return ErrPrincipalID
	}

	if err = s.authService.Local().ChangePassword(c.UserContext(), id, in.OldPassword, in.NewPassword); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Str("user_id", id.String()).Msg("password changed")

	return c.SendStatus(fiber.StatusNoContent)
}
