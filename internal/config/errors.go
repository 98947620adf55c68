package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptySecretKey error if no token signing key was configured.
	ErrEmptySecretKey = errors.New("toml config security.secretKey can not be empty")

	// ErrNegativeTokenTTL error if security.accessTokenTTL is below zero.
	ErrNegativeTokenTTL = errors.New("toml config security.accessTokenTTL can not be negative")

	// ErrNilConfig error if no config was passed.
	ErrNilConfig = errors.New("config is nil")

	// ErrUnknownGormEngine error if db.gormEngine names no supported driver.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine must be mysql, postgres or sqlite")
)
