package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/db/controller"
	"github.com/benevole/benevole/internal/db/controller/parent"
	"github.com/benevole/benevole/internal/db/controller/user"
	"github.com/benevole/benevole/internal/token"
)

// Messages of the error envelope. Authorization failures never tell what was missing.
const (
	MsgNotFound           = "Data Not Found"
	MsgConflict           = "Data Already Exists"
	MsgValidation         = "Validation Errors"
	MsgMalformedRequest   = "Malformed JSON request"
	MsgBadCredentials     = "Invalid Credentials"
	MsgUnauthorized       = "Full authentication is required to access this resource"
	MsgAccessDenied       = "Access Denied"
	MsgInternalError      = "Internal Server Error"
	MsgTooManyRequests    = "Too Many Requests"
	detailInvalidToken    = "invalid or expired token"
	detailNotEnoughRights = "you are not allowed to access this resource"
)

// ErrorResponse is the one error envelope of the API.
type ErrorResponse struct {
	StatusCode   int       `json:"statusCode"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	Message      string    `json:"message"`
	ErrorDetails []string  `json:"errorDetails"`
}

// NewErrorResponse builds the envelope for code.
func NewErrorResponse(code int, message string, details ...string) ErrorResponse {
	if details == nil {
		details = []string{}
	}

	return ErrorResponse{
		StatusCode:   code,
		Status:       StatusName(code),
		Timestamp:    time.Now(),
		Message:      message,
		ErrorDetails: details,
	}
}

// StatusName returns the upper snake case name of code, e.g. NOT_FOUND.
func StatusName(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "UNKNOWN"
	}

	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}

// ValidationError carries field level messages of a rejected request body.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, ", ")
}

// Describe maps err to status code, message and details of the envelope.
func Describe(err error) (int, string, []string) {
	var (
		validation *ValidationError
		fiberErr   *fiber.Error
	)

	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest, MsgValidation, validation.Details
	case errors.Is(err, auth.ErrNoPrincipal):
		return fiber.StatusUnauthorized, MsgUnauthorized, nil
	case token.IsTokenError(err):
		return fiber.StatusUnauthorized, MsgUnauthorized, []string{detailInvalidToken}
	case errors.Is(err, auth.ErrAuthenticationFailed):
		return fiber.StatusUnauthorized, MsgBadCredentials, nil
	case errors.Is(err, auth.ErrAccessDenied):
		return fiber.StatusForbidden, MsgAccessDenied, []string{detailNotEnoughRights}
	case errors.Is(err, controller.ErrNotFound):
		return fiber.StatusNotFound, MsgNotFound, []string{err.Error()}
	case errors.Is(err, controller.ErrAlreadyExists), errors.Is(err, auth.ErrEmailExists):
		return fiber.StatusConflict, MsgConflict, []string{err.Error()}
	case errors.Is(err, controller.ErrNameEmpty), errors.Is(err, controller.ErrReservedName),
		errors.Is(err, parent.ErrParentNameTooLong),
		errors.Is(err, user.ErrEmailEmpty), errors.Is(err, auth.ErrInvalidOldPassword):
		return fiber.StatusBadRequest, MsgValidation, []string{err.Error()}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message, nil
	default:
		return fiber.StatusInternalServerError, MsgInternalError, nil
	}
}

// ErrorHandler is the fiber error handler writing every error as ErrorResponse.
// Server errors and token failures are logged with their cause, which the client never sees.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, message, details := Describe(err)

	switch {
	case code >= fiber.StatusInternalServerError:
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	case token.IsTokenError(err):
		log.Info().Err(err).Str("kind", token.Kind(err)).Str("path", c.Path()).Msg("token rejected")
	}

	return c.Status(code).JSON(NewErrorResponse(code, message, details...))
}
