package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/pawpremium/pkg/admin"
	"github.com/dmitrymomot/pawpremium/pkg/audit"
	"github.com/dmitrymomot/pawpremium/pkg/billing"
	"github.com/dmitrymomot/pawpremium/pkg/entitlement"
	"github.com/dmitrymomot/pawpremium/pkg/legacy"
	"github.com/dmitrymomot/pawpremium/pkg/locker"
	"github.com/dmitrymomot/pawpremium/pkg/logger"
)

// Audit actions written by the controller.
const (
	ActionCheckoutConfirm    = "checkout.confirm"
	ActionSubscriptionCancel = "subscription.cancel"
	ActionSubscriptionFix    = "subscription.fix"
	ActionTrialCancel        = "trial.cancel"
	ActionPremiumGrant       = "premium.grant"
	ActionPremiumRevoke      = "premium.revoke"
	ActionUserCreate         = "user.create"
	ActionRoleAssign         = "role.assign"
)

// Controller orchestrates checkout, cancellation, trial and repair flows.
// Mutating operations hold a per-user lock; reads take none.
type Controller struct {
	gateway  billing.Gateway
	store    entitlement.Store
	gate     *admin.Gate
	registry *legacy.Registry
	locker   locker.Locker
	audit    *audit.Logger
	metrics  ActionObserver
	log      *slog.Logger
	now      func() time.Time

	successURL string
	cancelURL  string

	repairs singleflight.Group
}

// ActionObserver counts audited mutations. *metrics.Metrics implements it.
type ActionObserver interface {
	ObserveAction(action string, err error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithRegistry sets the legacy grandfather registry.
func WithRegistry(r *legacy.Registry) Option {
	return func(c *Controller) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithLocker sets the per-user lock backend.
func WithLocker(l locker.Locker) Option {
	return func(c *Controller) {
		if l != nil {
			c.locker = l
		}
	}
}

// WithAudit enables the audit trail.
func WithAudit(l *audit.Logger) Option {
	return func(c *Controller) {
		c.audit = l
	}
}

// WithMetrics enables per-action counters.
func WithMetrics(m ActionObserver) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRedirectURLs sets the default checkout redirect URLs.
func WithRedirectURLs(successURL, cancelURL string) Option {
	return func(c *Controller) {
		c.successURL = successURL
		c.cancelURL = cancelURL
	}
}

// New creates a controller. gateway, store and gate are required.
func New(gateway billing.Gateway, store entitlement.Store, gate *admin.Gate, opts ...Option) *Controller {
	if gateway == nil || store == nil || gate == nil {
		panic("lifecycle: gateway, store and gate are required")
	}
	c := &Controller{
		gateway:  gateway,
		store:    store,
		gate:     gate,
		registry: legacy.Empty(),
		locker:   locker.NewMemory(),
		log:      slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(logger.Component("lifecycle"))
	return c
}

// withUserLock runs fn while holding the lock of userID.
// A lock failure is returned before fn runs.
func (c *Controller) withUserLock(ctx context.Context, op, userID string, fn func(context.Context) error) error {
	unlock, err := c.locker.Lock(ctx, "user:"+userID)
	if err != nil {
		c.log.WarnContext(ctx, "failed to acquire user lock",
			logger.Operation(op),
			logger.UserID(userID),
			logger.Error(err),
		)
		return err
	}
	defer func() {
		if err := unlock(ctx); err != nil {
			c.log.WarnContext(ctx, "failed to release user lock",
				logger.Operation(op),
				logger.UserID(userID),
				logger.Error(err),
			)
		}
	}()
	return fn(ctx)
}

// requireAdmin checks the gate before any side effect.
func (c *Controller) requireAdmin(ctx context.Context, op, adminEmail string) error {
	if err := c.gate.Require(ctx, adminEmail); err != nil {
		c.log.WarnContext(ctx, "admin operation denied",
			logger.Operation(op),
			logger.Actor(adminEmail),
			logger.Error(err),
		)
		return errors.Join(ErrUnauthorized, err)
	}
	return nil
}

// record counts the action and writes an audit event. Audit failures never
// fail the operation.
func (c *Controller) record(ctx context.Context, action string, opErr error, opts ...audit.EventOption) {
	if c.metrics != nil {
		c.metrics.ObserveAction(action, opErr)
	}
	if c.audit == nil {
		return
	}
	var err error
	if opErr != nil {
		err = c.audit.LogError(ctx, action, opErr, opts...)
	} else {
		err = c.audit.Log(ctx, action, opts...)
	}
	if err != nil {
		c.log.WarnContext(ctx, "failed to write audit event",
			logger.Operation(action),
			logger.Error(err),
		)
	}
}

// gatewayError classifies a billing gateway failure.
func gatewayError(err error) error {
	switch {
	case errors.Is(err, billing.ErrNotConfigured):
		return errors.Join(ErrConfiguration, err)
	case errors.Is(err, billing.ErrInvalidRequest):
		return errors.Join(ErrInvalidRequest, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return errors.Join(ErrProvider, err)
	}
}

// storeError classifies an entitlement store failure.
func storeError(err error) error {
	switch {
	case errors.Is(err, entitlement.ErrEmptyUserID):
		return errors.Join(ErrInvalidRequest, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return errors.Join(ErrStore, err)
	}
}

// mirrorOf converts a provider snapshot into the stored mirror.
func mirrorOf(sub *billing.Subscription, now time.Time) *entitlement.Subscription {
	return &entitlement.Subscription{
		ID:                sub.ID,
		Status:            entitlement.SubscriptionStatus(sub.Status),
		Plan:              entitlement.Plan(sub.Plan),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
		CustomerID:        sub.CustomerID,
		UpdatedAt:         now,
	}
}
