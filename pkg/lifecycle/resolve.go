package lifecycle

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrymomot/pawpremium/pkg/entitlement"
	"github.com/dmitrymomot/pawpremium/pkg/legacy"
)

// Resolve returns the effective entitlement of userID. An unknown user is
// not premium with reason none.
func (c *Controller) Resolve(ctx context.Context, userID string) (entitlement.Status, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return entitlement.Status{}, ErrMissingUserID
	}

	rec, err := c.store.Get(ctx, userID)
	switch {
	case errors.Is(err, entitlement.ErrRecordNotFound):
		rec = &entitlement.Record{UserID: userID}
	case err != nil:
		return entitlement.Status{}, storeError(err)
	}
	return c.resolveRecord(rec), nil
}

// resolveRecord applies the resolver with the legacy entry of rec, looked up
// by user id first and by email second.
func (c *Controller) resolveRecord(rec *entitlement.Record) entitlement.Status {
	now := c.now().In(c.registry.Location())
	return entitlement.Resolve(rec, c.legacyEntry(rec), now)
}

func (c *Controller) legacyEntry(rec *entitlement.Record) *legacy.Entry {
	if rec == nil {
		return nil
	}
	if e, ok := c.registry.LookupByUserID(rec.UserID); ok {
		return e
	}
	if rec.Email != "" {
		if e, ok := c.registry.LookupByEmail(rec.Email); ok {
			return e
		}
	}
	return nil
}
