package audit

import (
	"context"
	"slices"
	"sync"
)

// Storage persists audit events.
type Storage interface {
	Store(ctx context.Context, event Event) error
}

// Criteria selects events for Query. Zero fields match everything.
type Criteria struct {
	Action     string
	UserID     string
	ResourceID string
	Limit      int
}

func (c Criteria) match(e Event) bool {
	return (c.Action == "" || c.Action == e.Action) &&
		(c.UserID == "" || c.UserID == e.UserID) &&
		(c.ResourceID == "" || c.ResourceID == e.ResourceID)
}

// Querier reads audit events back, newest first.
type Querier interface {
	Query(ctx context.Context, criteria Criteria) ([]Event, error)
}

// MemoryStorage keeps events in process memory.
type MemoryStorage struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Store(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStorage) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, e := range slices.Backward(s.events) {
		if !criteria.match(e) {
			continue
		}
		out = append(out, e)
		if criteria.Limit > 0 && len(out) == criteria.Limit {
			break
		}
	}
	return out, nil
}
