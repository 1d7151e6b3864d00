package domain

import "errors"

var (
	ErrUnauthenticated    = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidTenant      = errors.New("invalid tenant")
	ErrUnknownTenant      = errors.New("tenant not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("forbidden")
	ErrNoteNotFound       = errors.New("note not found")
	ErrQuotaExceeded      = errors.New("upgrade to Pro to add more notes")
	ErrValidation         = errors.New("validation failed")
	// ErrUnavailable marks a transient failure of a backing dependency.
	ErrUnavailable = errors.New("service temporarily unavailable")
)
