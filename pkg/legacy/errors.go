package legacy

import "errors"

var (
	ErrFailedToLoadRegistry = errors.New("failed to load legacy grandfather registry")
	ErrInvalidEntry         = errors.New("invalid legacy grandfather entry")
	ErrDuplicateUserID      = errors.New("duplicate user id in legacy grandfather registry")
)
