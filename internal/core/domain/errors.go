package domain

import (
	"errors"
	"fmt"
)

// Error kinds. The HTTP layer maps each kind to a status code with errors.Is,
// so concrete errors below wrap one of these.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSigning            = errors.New("token signing failed")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

var (
	ErrComplaintNotFound = fmt.Errorf("complaint %w", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrAuthorityNotFound = fmt.Errorf("authority %w", ErrNotFound)
	ErrCategoryNotFound  = fmt.Errorf("category %w", ErrNotFound)
	ErrMediaNotFound     = fmt.Errorf("media %w", ErrNotFound)

	ErrEmailExists    = fmt.Errorf("user with this email %w", ErrConflict)
	ErrUsernameExists = fmt.Errorf("authority with this username %w", ErrConflict)
	ErrCategoryExists = fmt.Errorf("category %w", ErrConflict)
)

// ErrNotificationsDisabled is returned by the notifier when no endpoint is configured.
var ErrNotificationsDisabled = errors.New("notifications disabled")

// Invalid wraps a human-readable message as a validation error.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
