package auth

import "errors"

var (
	// ErrAuthenticationFailed is the only error Authenticate returns to callers for bad credentials.
	// The precise reason is logged.
	ErrAuthenticationFailed = errors.New("bad credentials")

	// ErrAccessDenied is wrapped by every authorization failure.
	ErrAccessDenied = errors.New("access denied")

	// ErrNoPrincipal is returned when a decision is requested without authenticated principal.
	ErrNoPrincipal = &DeniedError{}

	// ErrInvalidOldPassword is returned when the provided old password does not match the user's current password.
	ErrInvalidOldPassword = errors.New("invalid old password")

	// ErrEmailExists is returned when attempting to create a user with an email that already exists.
	ErrEmailExists = errors.New("user with email already exists")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the directory.
	ErrUserNotFound = errors.New("user not found")
)

// DeniedError carries the requirement that denied access. It matches ErrAccessDenied.
type DeniedError struct {
	Requirement Requirement
}

func (e *DeniedError) Error() string {
	if e.Requirement == nil {
		return "access denied: not authenticated"
	}

	return "access denied: " + e.Requirement.String()
}

// Is makes errors.Is(err, ErrAccessDenied) hold.
func (e *DeniedError) Is(target error) bool {
	return target == ErrAccessDenied
}
