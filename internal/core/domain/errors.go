package domain

import "errors"

// Error taxonomy for the authentication core. All are terminal for the
// current request; none are retried internally.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrRateLimited        = errors.New("too many failed login attempts")

	// ErrInvalidToken covers malformed, tampered, expired, and mismatched
	// tokens uniformly so callers cannot probe which condition occurred.
	ErrInvalidToken = errors.New("invalid or expired token")

	ErrCsrfMismatch     = errors.New("oauth state mismatch")
	ErrEmailUnavailable = errors.New("provider returned no usable email")
	ErrProviderExchange = errors.New("provider code exchange failed")
	ErrForbidden        = errors.New("access forbidden")
	ErrUserNotFound     = errors.New("user not found")
)
