package logger

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

var (
	// ErrAppNameIsEmpty is returned if log.appName was not defined.
	ErrAppNameIsEmpty = errors.New("log.appName can not be empty")

	// ErrServiceNameIsEmpty is returned if log.serviceName was not defined.
	ErrServiceNameIsEmpty = errors.New("log.serviceName can not be empty")

	// ErrUnknownLevel is returned for a log.logLevel zerolog does not know.
	ErrUnknownLevel = errors.New("log.logLevel is not supported")
)

// level validates cfg and returns its parsed level.
func (cfg Log) level() (zerolog.Level, error) {
	l, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: %q", ErrUnknownLevel, cfg.LogLevel)
	}

	switch {
	case cfg.ServiceName == "":
		return l, ErrServiceNameIsEmpty
	case cfg.AppName == "":
		return l, ErrAppNameIsEmpty
	}

	return l, nil
}

// WriteFailed is the zerolog error handler, the logger itself is broken so
// the failure goes straight to stderr.
func WriteFailed(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "benevole: log write failed: %v\n", err)
}
