// Package auth provides authentication and authorization functionality for the application.
//
// This package implements the Role-Based Access Control (RBAC) core:
//   - The permission catalog and the default roles seeded from it
//   - Resolution of a user's roles and permissions into an authority set
//   - Access decisions over an authenticated principal
//   - Local database authentication with Argon2id password hashing
//
// # Authorities
//
// A user holds roles and direct permissions. Resolve flattens them into an
// AuthoritySet: every role as "ROLE:<name>", every permission of those roles
// and every direct permission by name. Permission names may not start with the
// role prefix. The token carries roles and permissions in separate claims, and
// FromGrants rebuilds the set from them on every request.
//
// # Access Decisions
//
// Requirements are evaluated in order and the first one that fails denies:
//   - HasPermission: every listed permission is needed, an empty list allows
//   - HasAnyPermission: one of the listed permissions is enough, an empty list denies
//   - HasRole, HasAnyRole: one of the listed roles is enough, an empty list denies
//
// A missing principal always denies with ErrNoPrincipal. Every denial matches
// ErrAccessDenied.
//
// # Middleware
//
// Fiber middleware functions are provided for route protection:
//   - Require: Protect routes with arbitrary requirements
//   - RequireRole: Protect a route group with one of several roles
//   - RequirePermission: Protect routes requiring a specific permission
//   - RequireAnyPermission: Protect routes requiring any of several permissions
//   - RequireAllPermissions: Protect routes requiring all of several permissions
//
// Example usage:
//
//	authService := auth.NewService(dir, tokens)
//
//	admin := app.Group("/api/admin", auth.RequireRole(authService, auth.RoleAdmin, auth.RoleSuperAdmin))
//	admin.Get("/roles",
//	    auth.RequirePermission(authService, auth.PermReadRole),
//	    handler,
//	)
package auth
