package auth

import (
	"github.com/gofiber/fiber/v2"
)

// LocalsPrincipal is the fiber.Locals key holding the authenticated *Principal.
const LocalsPrincipal = "principal"

// SetPrincipal stores p on the request context.
func SetPrincipal(c *fiber.Ctx, p *Principal) {
	c.Locals(LocalsPrincipal, p)
}

// PrincipalFrom returns the principal stored on the request context, or nil.
func PrincipalFrom(c *fiber.Ctx) *Principal {
	p, _ := c.Locals(LocalsPrincipal).(*Principal)
	return p
}

// Require creates Fiber middleware that lets the request through only when the
// principal on the context satisfies every requirement.
// Denials are passed to the application error handler.
func Require(authService *Service, reqs ...Requirement) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authService.Authorize(PrincipalFrom(c), reqs...); err != nil {
			return err
		}

		return c.Next()
	}
}

// RequirePermission protects a route with a single permission.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return Require(authService, HasPermission(permission))
}

// RequireAnyPermission protects a route with at least one of the permissions.
func RequireAnyPermission(authService *Service, permissions ...string) fiber.Handler {
	return Require(authService, HasAnyPermission(permissions...))
}

// RequireAllPermissions protects a route with every one of the permissions.
func RequireAllPermissions(authService *Service, permissions ...string) fiber.Handler {
	return Require(authService, HasPermission(permissions...))
}

// RequireRole protects a route group with at least one of the roles.
func RequireRole(authService *Service, roles ...string) fiber.Handler {
	return Require(authService, HasAnyRole(roles...))
}

// RequireAuthenticated only requires a principal.
func RequireAuthenticated(authService *Service) fiber.Handler {
	return Require(authService)
}

// HasPermissionInContext checks if the principal of the request holds a permission.
// Useful for conditional output in handlers.
func HasPermissionInContext(c *fiber.Ctx, permission string) bool {
	p := PrincipalFrom(c)

	return p != nil && p.Authorities.HasPermission(permission)
}
