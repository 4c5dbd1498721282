package locker

import (
	"context"
	"errors"
)

var (
	ErrEmptyKey      = errors.New("lock key is empty")
	ErrLockFailed    = errors.New("failed to acquire lock")
	ErrNotConfigured = errors.New("lock client not configured")
)

// Unlock releases a held lock. Calling it more than once is a no-op.
type Unlock func(ctx context.Context) error

// Locker provides mutual exclusion scoped by key.
type Locker interface {
	// Lock blocks until the key is held, ctx is done or the backend gives up.
	// Any failure wraps ErrLockFailed.
	Lock(ctx context.Context, key string) (Unlock, error)
}

// Noop is a Locker that never blocks.
type Noop struct{}

func (Noop) Lock(context.Context, string) (Unlock, error) {
	return func(context.Context) error { return nil }, nil
}
