package entitlement

import "errors"

var (
	ErrRecordNotFound   = errors.New("entitlement record not found")
	ErrEmptyUserID      = errors.New("user id is required")
	ErrEmptyPatch       = errors.New("entitlement patch has no fields")
	ErrConflictingPatch = errors.New("entitlement patch replaces the subscription and updates its fields")
	ErrStoreUnavailable = errors.New("entitlement store unavailable")
)
