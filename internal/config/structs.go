package config

import (
	"time"

	"github.com/benevole/benevole/internal/logger"
)

const (
	defaultShutDownTime    = 5
	defaultLoginRateLimit  = 10
	defaultLoginRateWindow = time.Minute
	defaultAccessTokenTTL  = 24 * time.Hour
	defaultIssuer          = "benevole"
	defaultSeedDomain      = "benevole.org"
)

// Config overall data structure.
type Config struct {
	DevMode     bool        `mapstructure:"devMode"     toml:"devMode"` // enable dev mode for development
	Title       string      `mapstructure:"title"       toml:"title"`
	Application Application `mapstructure:"application" toml:"application"`
	DB          DB          `mapstructure:"db"          toml:"db"`
	Log         logger.Log  `mapstructure:"log"         toml:"log"`
	Security    Security    `mapstructure:"security"    toml:"security"`
	Seed        Seed        `mapstructure:"seed"        toml:"seed"`
	Webserver   Webserver   `mapstructure:"webserver"   toml:"webserver"`
}

// Application holds display metadata served by the info endpoint.
type Application struct {
	Name        string `mapstructure:"name"        toml:"name"`
	Description string `mapstructure:"description" toml:"description"`
	Version     string `mapstructure:"version"     toml:"version"`
}

// Security holds the token signing settings.
type Security struct {
	SecretKey      string        `mapstructure:"secretKey"      toml:"-"              json:"-"`
	AccessTokenTTL time.Duration `mapstructure:"accessTokenTTL" toml:"accessTokenTTL"`
	Issuer         string        `mapstructure:"issuer"         toml:"issuer"`
}

// Seed controls the bootstrap of the permission catalog and the default accounts.
type Seed struct {
	Enabled     bool   `mapstructure:"enabled"     toml:"enabled"`
	Accounts    bool   `mapstructure:"accounts"    toml:"accounts"` // also create one account per default role
	Password    string `mapstructure:"password"    toml:"-"           json:"-"`
	EmailDomain string `mapstructure:"emailDomain" toml:"emailDomain"`
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath       bool          `mapstructure:"cleanPath"       toml:"cleanPath"`      // use clean path middleware to allow multi slash requests
	DisableRecover  bool          `mapstructure:"disableRecover"  toml:"disableRecover"` // disable recover middleware
	Port            int           `mapstructure:"port"            toml:"port"`           // listening port for the webserver
	ShutDownTime    int           `mapstructure:"shutDownTime"    toml:"shutDownTime"`   // wait time for shutdown in seconds
	URL             string        `mapstructure:"url"             toml:"url"`            // base url for the webserver
	LoginRateLimit  int           `mapstructure:"loginRateLimit"  toml:"loginRateLimit"` // login attempts per window and client ip
	LoginRateWindow time.Duration `mapstructure:"loginRateWindow" toml:"loginRateWindow"`
}
