// Package web assembles the fiber application: middleware, handlers and lifecycle.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/config"
	accesslog "github.com/benevole/benevole/internal/logger/adapter/fiber"
	"github.com/benevole/benevole/internal/web/handler"
	"github.com/benevole/benevole/internal/web/handler/admin/parent"
	"github.com/benevole/benevole/internal/web/handler/admin/permission"
	"github.com/benevole/benevole/internal/web/handler/admin/role"
	"github.com/benevole/benevole/internal/web/handler/admin/user"
	"github.com/benevole/benevole/internal/web/handler/dashboard"
	"github.com/benevole/benevole/internal/web/handler/login"
	"github.com/benevole/benevole/internal/web/handler/logout"
	authmw "github.com/benevole/benevole/internal/web/middleware/auth"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic and 503 during shutdown.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus collectors.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and stops the http server.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive answers the load balancer health check.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// New creates a new web service with the given configuration.
// limiterStorage keeps the login rate limit counters, nil keeps them in memory.
func New(cfg *config.Config, db *gorm.DB, authService *auth.Service, limiterStorage fiber.Storage) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if authService == nil {
		panic("auth service cannot be nil")
	}

	appName := cfg.Application.Name
	if appName == "" {
		appName = cfg.Title
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        appName,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	skip := []string{MetricsPath}
	if cfg.Log.DisableCheckAlive {
		skip = append(skip, CheckAlivePath)
	}

	app.Use(accesslog.New(accesslog.Config{
		Log:       cfg.Log,
		SkipPaths: skip,
		Subject:   authmw.Subject,
	}))

	// bearer token, sets the principal for the route requirements
	app.Use(authmw.Middleware(authService))

	service := &Service{
		cfg:          cfg,
		App:          app,
		db:           db,
		authService:  authService,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Get(CheckAlivePath, service.CheckAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes with requirements)
	login.Handler.Storage = limiterStorage
	login.Handler.Init(app, cfg, db, authService)
	logout.Handler.Init(app, cfg, db, authService)
	dashboard.Handler.Init(app, cfg, db, authService)
	role.Handler.Init(app, cfg, db, authService)
	permission.Handler.Init(app, cfg, db, authService)
	parent.Handler.Init(app, cfg, db, authService)
	user.Handler.Init(app, cfg, db, authService)

	return service
}
