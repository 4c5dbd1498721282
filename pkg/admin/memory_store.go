package admin

import (
	"context"
	"sync"
)

// MemoryRoleStore is a thread-safe in-memory RoleStore.
type MemoryRoleStore struct {
	mu    sync.RWMutex
	roles map[string]Role
}

// NewMemoryRoleStore creates a store seeded with roles.
func NewMemoryRoleStore(roles ...Role) *MemoryRoleStore {
	s := &MemoryRoleStore{roles: make(map[string]Role, len(roles))}
	for _, r := range roles {
		r.Email = NormalizeEmail(r.Email)
		s.roles[r.Email] = r
	}
	return s
}

func (s *MemoryRoleStore) GetRole(_ context.Context, email string) (*Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.roles[NormalizeEmail(email)]
	if !ok {
		return nil, ErrRoleNotFound
	}
	return &r, nil
}

func (s *MemoryRoleStore) SetRole(_ context.Context, role Role) error {
	role.Email = NormalizeEmail(role.Email)
	if role.Email == "" {
		return ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.roles[role.Email] = role
	return nil
}
