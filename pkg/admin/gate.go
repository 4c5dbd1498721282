package admin

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Role is a stored administrator role keyed by normalized email.
type Role struct {
	Email     string    `bson:"_id" json:"email"`
	IsAdmin   bool      `bson:"isAdmin" json:"isAdmin"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RoleStore provides role records.
type RoleStore interface {
	// GetRole returns the role for email or ErrRoleNotFound.
	GetRole(ctx context.Context, email string) (*Role, error)
	// SetRole creates or replaces the role for role.Email.
	SetRole(ctx context.Context, role Role) error
}

// Gate decides whether an email belongs to an administrator.
// It is safe for concurrent use.
type Gate struct {
	superuser string
	roles     RoleStore
}

// NewGate creates a gate. superuser is the bootstrap administrator and may be
// empty; roles may be nil, in which case only the superuser is an admin.
func NewGate(superuser string, roles RoleStore) *Gate {
	return &Gate{
		superuser: NormalizeEmail(superuser),
		roles:     roles,
	}
}

// IsAdmin reports whether email is the superuser or has an admin role record.
// Store failures other than a missing record are returned.
func (g *Gate) IsAdmin(ctx context.Context, email string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	if g.superuser != "" && email == g.superuser {
		return true, nil
	}
	if g.roles == nil {
		return false, nil
	}

	role, err := g.roles.GetRole(ctx, email)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return false, nil
		}
		return false, err
	}
	return role.IsAdmin, nil
}

// Require returns nil when email is an admin, ErrMissingIdentity when it is
// empty and ErrForbidden otherwise. It performs no writes.
func (g *Gate) Require(ctx context.Context, email string) error {
	if NormalizeEmail(email) == "" {
		return ErrMissingIdentity
	}
	ok, err := g.IsAdmin(ctx, email)
	if err != nil {
		return errors.Join(ErrForbidden, err)
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// Assign stores a role record for email.
func (g *Gate) Assign(ctx context.Context, email string, isAdmin bool, now time.Time) error {
	email = NormalizeEmail(email)
	if email == "" {
		return ErrInvalidRole
	}
	if g.roles == nil {
		return errors.Join(ErrInvalidRole, errors.New("no role store configured"))
	}
	return g.roles.SetRole(ctx, Role{Email: email, IsAdmin: isAdmin, UpdatedAt: now})
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
