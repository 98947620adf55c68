package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	rbac "github.com/benevole/benevole/internal/auth"
	"github.com/benevole/benevole/internal/token"
)

// Scheme is the authorization scheme of access tokens.
const Scheme = "Bearer"

// Middleware verifies the bearer token of a request and stores its principal in fiber.Locals.
// Requests without Authorization header pass without principal, the route requirements deny them.
// A header that is present but invalid fails the request with the token error.
func Middleware(authService *rbac.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		raw, err := BearerToken(header)
		if err != nil {
			return err
		}

		p, err := authService.VerifyToken(raw)
		if err != nil {
			return err //nolint:wrapcheck
		}

		rbac.SetPrincipal(c, p)

		return c.Next()
	}
}

// BearerToken extracts the token of an Authorization header value.
func BearerToken(header string) (string, error) {
	scheme, raw, found := strings.Cut(strings.TrimLeft(header, " \t"), " ")
	if !found || !strings.EqualFold(scheme, Scheme) {
		return "", token.ErrMalformedToken
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", token.ErrInvalidArgument
	}

	return raw, nil
}

// Subject returns the id of the authenticated principal for access logs.
func Subject(c *fiber.Ctx) string {
	if p := rbac.PrincipalFrom(c); p != nil {
		return p.ID
	}

	return ""
}
