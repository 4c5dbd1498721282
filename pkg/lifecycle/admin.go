package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/pawpremium/pkg/admin"
	"github.com/dmitrymomot/pawpremium/pkg/audit"
	"github.com/dmitrymomot/pawpremium/pkg/billing"
	"github.com/dmitrymomot/pawpremium/pkg/entitlement"
	"github.com/dmitrymomot/pawpremium/pkg/logger"
)

// FixSubscription re-reads the subscription from the provider and overwrites
// the user's mirror with it. It is the repair path for a mirror that drifted
// from the provider. Concurrent repairs of one subscription share a single
// provider read.
func (c *Controller) FixSubscription(ctx context.Context, adminEmail, subscriptionID, userID string) (*entitlement.Record, error) {
	subscriptionID = strings.TrimSpace(subscriptionID)
	userID = strings.TrimSpace(userID)
	if err := c.requireAdmin(ctx, "fix_subscription", adminEmail); err != nil {
		return nil, err
	}
	if subscriptionID == "" {
		return nil, ErrMissingSubscriptionID
	}
	if userID == "" {
		return nil, ErrMissingUserID
	}

	// The read is shared, so one caller going away must not cancel it.
	readCtx := context.WithoutCancel(ctx)
	v, err, shared := c.repairs.Do(subscriptionID, func() (any, error) {
		snapshot, err := c.gateway.GetSubscription(readCtx, subscriptionID)
		if err == nil && snapshot == nil {
			return nil, ErrEmptySnapshot
		}
		return snapshot, err
	})
	if err != nil {
		c.log.ErrorContext(ctx, "failed to read subscription for repair",
			logger.Operation("fix_subscription"),
			logger.UserID(userID),
			logger.SubscriptionID(subscriptionID),
			logger.ProviderCode(billing.ProviderCode(err)),
			logger.Error(err),
		)
		return nil, gatewayError(err)
	}
	snapshot := v.(*billing.Subscription)

	var rec *entitlement.Record
	err = c.withUserLock(ctx, "fix_subscription", userID, func(ctx context.Context) error {
		ok, err := c.store.Exists(ctx, userID)
		if err != nil {
			return storeError(err)
		}
		if !ok {
			return ErrTargetNotFound
		}
		rec, err = c.store.Merge(ctx, userID, entitlement.Patch{ReplaceSubscription: mirrorOf(snapshot, c.now())})
		if err != nil {
			return storeError(err)
		}
		return nil
	})

	c.record(ctx, ActionSubscriptionFix, err,
		audit.WithActor(admin.NormalizeEmail(adminEmail)),
		audit.WithUserID(userID),
		audit.WithResource("subscription", subscriptionID),
		audit.WithMetadata("status", snapshot.Status),
		audit.WithMetadata("cancel_at_period_end", snapshot.CancelAtPeriodEnd),
	)
	if err != nil {
		c.log.ErrorContext(ctx, "failed to repair subscription mirror",
			logger.Operation("fix_subscription"),
			logger.UserID(userID),
			logger.SubscriptionID(subscriptionID),
			logger.Error(err),
		)
		return nil, err
	}

	c.log.InfoContext(ctx, "subscription mirror repaired",
		logger.Operation("fix_subscription"),
		logger.Actor(adminEmail),
		logger.UserID(userID),
		logger.SubscriptionID(subscriptionID),
		slog.Bool("shared_read", shared),
	)
	return rec, nil
}

// GrantPremium sets the admin override for an existing user.
func (c *Controller) GrantPremium(ctx context.Context, adminEmail, targetUserID string) error {
	return c.setOverride(ctx, adminEmail, targetUserID, true)
}

// RevokePremium clears the admin override for an existing user. Other grant
// mechanisms are left untouched.
func (c *Controller) RevokePremium(ctx context.Context, adminEmail, targetUserID string) error {
	return c.setOverride(ctx, adminEmail, targetUserID, false)
}

func (c *Controller) setOverride(ctx context.Context, adminEmail, targetUserID string, grant bool) error {
	op, action := "revoke_premium", ActionPremiumRevoke
	if grant {
		op, action = "grant_premium", ActionPremiumGrant
	}

	targetUserID = strings.TrimSpace(targetUserID)
	if err := c.requireAdmin(ctx, op, adminEmail); err != nil {
		return err
	}
	if targetUserID == "" {
		return ErrMissingUserID
	}
	actor := admin.NormalizeEmail(adminEmail)

	err := c.withUserLock(ctx, op, targetUserID, func(ctx context.Context) error {
		ok, err := c.store.Exists(ctx, targetUserID)
		if err != nil {
			return storeError(err)
		}
		if !ok {
			return ErrTargetNotFound
		}

		now := c.now()
		patch := entitlement.Patch{AdminGrantedPremium: entitlement.Ptr(grant)}
		if grant {
			patch.PremiumGrantedBy = &actor
			patch.PremiumGrantedAt = &now
		} else {
			patch.PremiumRevokedBy = &actor
			patch.PremiumRevokedAt = &now
		}
		if _, err := c.store.Merge(ctx, targetUserID, patch); err != nil {
			return storeError(err)
		}
		return nil
	})

	c.record(ctx, action, err,
		audit.WithActor(actor),
		audit.WithUserID(targetUserID),
		audit.WithResource("user", targetUserID),
	)
	if err != nil {
		return err
	}

	c.log.InfoContext(ctx, "admin premium override changed",
		logger.Operation(op),
		logger.Actor(actor),
		logger.UserID(targetUserID),
	)
	return nil
}

// UserExists reports whether a record exists for userID.
func (c *Controller) UserExists(ctx context.Context, adminEmail, userID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if err := c.requireAdmin(ctx, "user_exists", adminEmail); err != nil {
		return false, err
	}
	if userID == "" {
		return false, ErrMissingUserID
	}

	ok, err := c.store.Exists(ctx, userID)
	if err != nil {
		return false, storeError(err)
	}
	return ok, nil
}

// NewUser describes a user record created by an administrator.
// A positive TrialDays starts a trial ending that many days from now.
type NewUser struct {
	UserID    string
	Email     string
	TrialDays int
}

// CreateUser creates a new entitlement record.
func (c *Controller) CreateUser(ctx context.Context, adminEmail string, in NewUser) (*entitlement.Record, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.Email = strings.TrimSpace(in.Email)
	if err := c.requireAdmin(ctx, "create_user", adminEmail); err != nil {
		return nil, err
	}
	if in.UserID == "" {
		return nil, ErrMissingUserID
	}
	if in.Email == "" {
		return nil, ErrMissingEmail
	}
	if in.TrialDays < 0 || in.TrialDays > MaxTrialDays {
		return nil, ErrInvalidTrialDays
	}

	var rec *entitlement.Record
	err := c.withUserLock(ctx, "create_user", in.UserID, func(ctx context.Context) error {
		ok, err := c.store.Exists(ctx, in.UserID)
		if err != nil {
			return storeError(err)
		}
		if ok {
			return ErrUserExists
		}

		patch := entitlement.Patch{Email: &in.Email}
		if in.TrialDays > 0 {
			now := c.now()
			if _, err := trialTable.Next(ctx, TrialState(nil, now), EventStartTrial, nil); err != nil {
				return errors.Join(ErrInvalidState, err)
			}
			patch.TrialActive = entitlement.Ptr(true)
			patch.TrialEndDate = entitlement.Ptr(now.Add(time.Duration(in.TrialDays) * 24 * time.Hour))
		}
		rec, err = c.store.Merge(ctx, in.UserID, patch)
		if err != nil {
			return storeError(err)
		}
		return nil
	})

	c.record(ctx, ActionUserCreate, err,
		audit.WithActor(admin.NormalizeEmail(adminEmail)),
		audit.WithUserID(in.UserID),
		audit.WithResource("user", in.UserID),
		audit.WithMetadata("trial_days", in.TrialDays),
	)
	if err != nil {
		return nil, err
	}

	c.log.InfoContext(ctx, "user created",
		logger.Operation("create_user"),
		logger.Actor(adminEmail),
		logger.UserID(in.UserID),
	)
	return rec, nil
}

// AssignRole grants or removes administrator rights for email.
func (c *Controller) AssignRole(ctx context.Context, adminEmail, email string, isAdmin bool) error {
	if err := c.requireAdmin(ctx, "assign_role", adminEmail); err != nil {
		return err
	}
	if admin.NormalizeEmail(email) == "" {
		return ErrMissingEmail
	}

	err := c.gate.Assign(ctx, email, isAdmin, c.now())
	if errors.Is(err, admin.ErrInvalidRole) {
		err = errors.Join(ErrInvalidRequest, err)
	} else if err != nil {
		err = errors.Join(ErrStore, err)
	}

	c.record(ctx, ActionRoleAssign, err,
		audit.WithActor(admin.NormalizeEmail(adminEmail)),
		audit.WithResource("role", admin.NormalizeEmail(email)),
		audit.WithMetadata("is_admin", isAdmin),
	)
	if err != nil {
		return err
	}

	c.log.InfoContext(ctx, "admin role assigned",
		logger.Operation("assign_role"),
		logger.Actor(adminEmail),
		slog.Bool("is_admin", isAdmin),
	)
	return nil
}
