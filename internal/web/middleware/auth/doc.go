// Package auth provides the bearer token middleware.
//
// The middleware only authenticates: it turns a valid access token into an
// auth.Principal on the request context. Access decisions are taken by the
// route requirements registered with auth.Require and friends.
//
// Logout does not touch the server: there is no revocation list, a client logs
// out by discarding its token, which stays valid until it expires.
package auth
