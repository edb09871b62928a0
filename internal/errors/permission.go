package errors

import (
	"errors"
	"strings"
)

// PermissionDeniedError signals that an authenticated user lacks the
// permissions required for a route. It carries both the required and the
// actual permission sets so callers can surface a meaningful 403 message
// instead of a bare boolean.
type PermissionDeniedError struct {
	// Required is the permission set the route demands (any-of).
	Required []string
	// Actual is the permission set the current user holds.
	Actual []string
}

// Error implements the error interface.
func (e *PermissionDeniedError) Error() string {
	return "access denied, required permissions: " + strings.Join(e.Required, " OR ")
}

// PermissionDenied creates a new PermissionDeniedError.
func PermissionDenied(required, actual []string) *PermissionDeniedError {
	return &PermissionDeniedError{
		Required: required,
		Actual:   actual,
	}
}

// IsPermissionDenied checks if an error is a PermissionDeniedError.
func IsPermissionDenied(err error) bool {
	var permErr *PermissionDeniedError
	return errors.As(err, &permErr)
}
