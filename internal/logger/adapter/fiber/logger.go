// Package fiber implements the zerolog based http access log middleware.
package fiber

import (
	"io"
	"os"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/benevole/benevole/internal/logger"
)

// HeaderRequestID carries the id of a request, taken from the client or generated.
const HeaderRequestID = "X-Request-ID"

// Outcome classifies a finished request in the access log.
const (
	OutcomeOK              = "ok"
	OutcomeClientError     = "client_error"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeDenied          = "denied"
	OutcomeServerError     = "server_error"
)

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Log is the logger configuration the writers are built from.
	Log logger.Log

	// SkipPaths are request paths never written to the access log.
	SkipPaths []string

	// CacheControlError is set on responses the error handler could not render.
	CacheControlError string

	// Subject returns the authenticated principal of the request, if any.
	//
	// Optional. Default: nil
	Subject func(c *fiber.Ctx) string
}

// ConfigDefault is the default config for fiber.
var ConfigDefault = Config{
	CacheControlError: "max-age=0",
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]
	if cfg.CacheControlError == "" {
		cfg.CacheControlError = ConfigDefault.CacheControlError
	}

	return cfg
}

// Outcome maps a response status to its access log outcome.
func Outcome(status int) string {
	switch {
	case status == fiber.StatusUnauthorized:
		return OutcomeUnauthenticated
	case status == fiber.StatusForbidden:
		return OutcomeDenied
	case status >= fiber.StatusInternalServerError:
		return OutcomeServerError
	case status >= fiber.StatusBadRequest:
		return OutcomeClientError
	default:
		return OutcomeOK
	}
}

// New creates a new fiber access logging middleware using zerolog.
// Chain errors are rendered through the app error handler here, so the
// logged status is the one the client receives.
func New(config ...Config) fiber.Handler {
	var (
		cfg        = configDefault(config...)
		once       sync.Once
		errHandler fiber.ErrorHandler
	)

	accessLogger := zerolog.New(zerolog.MultiLevelWriter(writers(&cfg.Log)...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)

	return func(ctx *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(ctx) {
			return ctx.Next()
		}

		once.Do(func() {
			errHandler = ctx.App().ErrorHandler
		})

		requestID := ctx.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx.Set(HeaderRequestID, requestID)

		start := time.Now()

		chainErr := ctx.Next()
		if chainErr != nil {
			if errH := errHandler(ctx, chainErr); errH != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError) //nolint:errcheck // ok here
				ctx.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
			}
		}

		elapsed := time.Since(start)
		ctx.Set("Server-Timing", "app;dur="+strconv.FormatFloat(float64(elapsed.Microseconds())/1000, 'f', 3, 64))

		if slices.Contains(cfg.SkipPaths, ctx.Path()) {
			return nil
		}

		// fasthttp normalizes the path, the query string is appended untouched.
		uri := ctx.Path()
		if q := ctx.Request().URI().QueryString(); len(q) > 0 {
			uri += "?" + string(q)
		}

		status := ctx.Response().StatusCode()
		event := accessLogger.Log().
			Str("requestId", requestID).
			Str("ip", ctx.IP()).
			Str("method", ctx.Method()).
			Str("uri", uri).
			Bytes("host", ctx.Request().Host()).
			Int("status", status).
			Str("outcome", Outcome(status)).
			Dur("duration", elapsed).
			Str(fiber.HeaderUserAgent, ctx.Get(fiber.HeaderUserAgent))

		if xff := ctx.Get(fiber.HeaderXForwardedFor); xff != "" {
			event.Str(fiber.HeaderXForwardedFor, xff)
		}

		if cfg.Subject != nil {
			if sub := cfg.Subject(ctx); sub != "" {
				event.Str("sub", sub)
			}
		}

		if chainErr != nil {
			event.Err(chainErr)
		}

		event.Send()

		return nil
	}
}

// writers returns the access log sinks enabled in cfg.
func writers(cfg *logger.Log) []io.Writer {
	var out []io.Writer

	if cfg.File.Enabled {
		if fw := newRollingAccessFile(cfg); fw != nil {
			out = append(out, fw)
		}
	}

	// Console.Enabled still gates the access log.
	if cfg.Console.Enabled && cfg.EnableAccessLogToConsole {
		if cfg.Console.UseConsoleWriter {
			out = append(out, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{zerolog.LevelFieldName},
			})
		} else {
			out = append(out, os.Stdout)
		}
	}

	return out
}

// newRollingAccessFile uses lumberjack to create file based access log.
func newRollingAccessFile(cfg *logger.Log) io.Writer {
	if cfg.File.Path != "" {
		if err := os.MkdirAll(cfg.File.Path, 0o750); err != nil {
			log.Error().Err(err).Str("path", cfg.File.Path).Msg("can't create access log directory")

			return nil
		}
	}

	return logger.NewRollingFile(cfg.File.Path, cfg.File.Access)
}
