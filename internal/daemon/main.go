// Package daemon wires configuration, database, token service and web service together.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	mysqlstorage "github.com/gofiber/storage/mysql/v2"
	postgresstorage "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/config"
	"github.com/benevole/benevole/internal/db/dsn"
	"github.com/benevole/benevole/internal/db/models"
	"github.com/benevole/benevole/internal/directory"
	gormlogger "github.com/benevole/benevole/internal/logger/adapter/gorm"
	"github.com/benevole/benevole/internal/token"
	"github.com/benevole/benevole/internal/web"
)

// LimiterTable stores the login rate limit counters on mysql and postgres.
const LimiterTable = "login_limits"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// Start serves http until a termination signal arrives.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// OpenDB opens the database of the configured gorm engine.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		dialector = gormmysql.Open(dsn.Create(cfg))
	case config.EnginePostgres:
		dialector = postgres.Open(dsn.Create(cfg))
	case config.EngineSQLite:
		dialector = sqlite.Open(dsn.Create(cfg))
	default:
		return nil, config.ErrUnknownGormEngine
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.New(cfg.DB.LogQueries)})
	if err != nil {
		return nil, fmt.Errorf("connect %s database: %w", cfg.DB.GormEngine, err)
	}

	return db, nil
}

// Migrate creates or updates the tables of every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	return nil
}

// NewAuthService builds the token service and the auth service on top of db.
func NewAuthService(cfg *config.Config, db *gorm.DB) (*auth.Service, error) {
	tokens, err := token.New(cfg.Security.SecretKey, cfg.Security.AccessTokenTTL, token.WithIssuer(cfg.Security.Issuer))
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	return auth.NewService(directory.New(db), tokens), nil
}

// limiterStorage shares the login rate limit between instances using the same sql database.
// sqlite keeps the counters in memory.
func limiterStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return mysqlstorage.New(mysqlstorage.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         LimiterTable,
		})
	case config.EnginePostgres:
		return postgresstorage.New(postgresstorage.Config{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			Username: cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Name,
			Table:    LimiterTable,
		})
	default:
		return nil
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, config.ErrNilConfig
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	if err = Seed(cfg, db); err != nil {
		return nil, err
	}

	authService, err := NewAuthService(cfg, db)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("engine", cfg.DB.GormEngine).
		Dur("token_ttl", cfg.Security.AccessTokenTTL).
		Msg("daemon initialized")

	return &Daemon{
		cfg:        cfg,
		db:         db,
		webService: web.New(cfg, db, authService, limiterStorage(cfg)),
	}, nil
}
