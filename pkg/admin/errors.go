package admin

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is matched by every authorization failure of the gate.
	ErrUnauthorized = errors.New("admin.unauthorized")

	// ErrMissingIdentity is returned when no admin email was supplied.
	ErrMissingIdentity = fmt.Errorf("%w: missing identity", ErrUnauthorized)

	// ErrForbidden is returned when the caller is not an administrator.
	ErrForbidden = fmt.Errorf("%w: forbidden", ErrUnauthorized)

	// ErrRoleNotFound is returned by role stores when no record exists.
	ErrRoleNotFound = errors.New("admin.role_not_found")

	// ErrInvalidRole is returned when a role record has no email.
	ErrInvalidRole = errors.New("admin.invalid_role")
)
