package login

import "errors"

// ErrPrincipalID is returned when the principal of a valid token names no user id.
var ErrPrincipalID = errors.New("principal id is not a user id")
