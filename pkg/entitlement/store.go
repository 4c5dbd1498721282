package entitlement

import (
	"context"
	"sync"
	"time"
)

// Store persists entitlement records keyed by user id.
//
// Merge applies a partial update, creating the record when missing, and
// recomputes the isPremium projection in the same write. It returns the
// record as stored after the write.
type Store interface {
	Get(ctx context.Context, userID string) (*Record, error)
	Merge(ctx context.Context, userID string, patch Patch) (*Record, error)
	Exists(ctx context.Context, userID string) (bool, error)
}

// MemoryStore is a goroutine-safe in-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	now     func() time.Time
	hook    MergeHook
}

// MergeHook runs before every Merge. A non-nil error aborts the write
// and is returned to the caller.
type MergeHook func(ctx context.Context, userID string, patch Patch) error

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryClock overrides the clock used for timestamps and the projection.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMergeHook installs a hook that can fail writes, e.g. to simulate
// an unavailable store.
func WithMergeHook(hook MergeHook) MemoryOption {
	return func(s *MemoryStore) {
		s.hook = hook
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]*Record),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) Merge(ctx context.Context, userID string, patch Patch) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if s.hook != nil {
		if err := s.hook(ctx, userID, patch); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec, ok := s.records[userID]
	if !ok {
		rec = &Record{UserID: userID, CreatedAt: now}
		s.records[userID] = rec
	}
	patch.Apply(rec)
	rec.UpdatedAt = now
	rec.IsPremium = ProjectPremium(rec, now)

	return rec.Clone(), nil
}

func (s *MemoryStore) Exists(ctx context.Context, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if userID == "" {
		return false, ErrEmptyUserID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.records[userID]
	return ok, nil
}
