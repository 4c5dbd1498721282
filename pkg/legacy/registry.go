package legacy

import (
	"errors"
	"fmt"
	"time"
)

// Registry is the frozen list of grandfathered users.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	byUserID map[string]Entry
	byEmail  map[string]Entry
	loc      *time.Location
	now      func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithLocation sets the location used for day-granularity comparisons.
func WithLocation(loc *time.Location) Option {
	return func(r *Registry) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// WithClock overrides the wall clock used by IsActive.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// New builds a registry from entries.
// Entries sharing an email are allowed; the one with the latest end date is
// returned by LookupByEmail. User ids must be unique.
func New(entries []Entry, opts ...Option) (*Registry, error) {
	r := &Registry{
		byUserID: make(map[string]Entry, len(entries)),
		byEmail:  make(map[string]Entry, len(entries)),
		loc:      time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	for i, e := range entries {
		if e.UserID == "" {
			return nil, errors.Join(ErrInvalidEntry, fmt.Errorf("entry %d: user id is required", i))
		}
		if e.EndDate.IsZero() {
			return nil, errors.Join(ErrInvalidEntry, fmt.Errorf("entry %d (%s): end date is required", i, e.UserID))
		}
		if _, exists := r.byUserID[e.UserID]; exists {
			return nil, errors.Join(ErrDuplicateUserID, fmt.Errorf("user id %s", e.UserID))
		}
		r.byUserID[e.UserID] = e

		email := normalizeEmail(e.Email)
		if email == "" {
			continue
		}
		if prev, ok := r.byEmail[email]; !ok || e.EndDate.After(prev.EndDate) {
			r.byEmail[email] = e
		}
	}

	return r, nil
}

// Empty returns a registry with no entries.
func Empty() *Registry {
	r, _ := New(nil)
	return r
}

// LookupByUserID returns the entry recorded for the user id.
func (r *Registry) LookupByUserID(userID string) (*Entry, bool) {
	if r == nil {
		return nil, false
	}
	e, ok := r.byUserID[userID]
	if !ok {
		return nil, false
	}
	return &e, true
}

// LookupByEmail returns the latest-ending entry for the email.
func (r *Registry) LookupByEmail(email string) (*Entry, bool) {
	if r == nil {
		return nil, false
	}
	e, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, false
	}
	return &e, true
}

// IsActive reports whether the user holds a grandfathered grant today.
func (r *Registry) IsActive(userID string) bool {
	return r.IsActiveAt(userID, r.now())
}

// IsActiveAt reports whether the user holds a grandfathered grant on the date of now.
func (r *Registry) IsActiveAt(userID string, now time.Time) bool {
	e, ok := r.LookupByUserID(userID)
	if !ok {
		return false
	}
	return e.ActiveOn(now, r.loc)
}

// Location returns the location used for date comparisons.
func (r *Registry) Location() *time.Location {
	if r == nil || r.loc == nil {
		return time.UTC
	}
	return r.loc
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byUserID)
}
