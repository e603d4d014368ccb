package auth

import "errors"

// Session validation failures. At the HTTP boundary all of them surface as the same
// 401 so callers cannot tell which check failed.
var (
	ErrSessionInvalid     = errors.New("auth: session invalid")
	ErrSessionExpired     = errors.New("auth: session expired")
	ErrSessionRevoked     = errors.New("auth: session issued under a rotated password")
	ErrDepartmentInactive = errors.New("auth: department inactive")
	ErrIdentityLookup     = errors.New("auth: identity store lookup failed")
)
