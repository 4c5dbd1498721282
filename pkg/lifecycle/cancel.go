package lifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrymomot/pawpremium/pkg/audit"
	"github.com/dmitrymomot/pawpremium/pkg/billing"
	"github.com/dmitrymomot/pawpremium/pkg/entitlement"
	"github.com/dmitrymomot/pawpremium/pkg/logger"
)

// CancelResult reports a subscription cancellation. A non-empty Warning
// means the provider applied the cancellation but the mirror was not
// updated; Detail names the failure.
type CancelResult struct {
	Success      bool                  `json:"success"`
	Warning      string                `json:"warning,omitempty"`
	Detail       string                `json:"detail,omitempty"`
	Subscription *billing.Subscription `json:"-"`
}

// CancelSubscription schedules the user's subscription to end at the close of
// the paid period. The subscription id must match the stored mirror.
//
// A provider failure aborts without touching the store. A store failure
// after the provider accepted the cancellation is reported in the result,
// not as an error.
func (c *Controller) CancelSubscription(ctx context.Context, subscriptionID, userID string) (*CancelResult, error) {
	subscriptionID = strings.TrimSpace(subscriptionID)
	userID = strings.TrimSpace(userID)
	if subscriptionID == "" {
		return nil, ErrMissingSubscriptionID
	}
	if userID == "" {
		return nil, ErrMissingUserID
	}

	var result *CancelResult
	err := c.withUserLock(ctx, "cancel_subscription", userID, func(ctx context.Context) error {
		rec, err := c.store.Get(ctx, userID)
		if errors.Is(err, entitlement.ErrRecordNotFound) {
			return ErrUnknownUser
		}
		if err != nil {
			return storeError(err)
		}
		if !rec.HasSubscription(subscriptionID) {
			c.log.WarnContext(ctx, "subscription ownership mismatch",
				logger.Operation("cancel_subscription"),
				logger.UserID(userID),
				logger.SubscriptionID(subscriptionID),
			)
			return ErrSubscriptionMismatch
		}
		if _, err := subscriptionTable.Next(ctx, SubscriptionState(rec), EventCancel, nil); err != nil {
			return errors.Join(ErrSubscriptionNotActive, err)
		}

		sub, err := c.gateway.UpdateSubscription(ctx, subscriptionID, billing.SubscriptionUpdate{CancelAtPeriodEnd: true})
		if err != nil {
			c.log.ErrorContext(ctx, "provider rejected subscription cancellation",
				logger.Operation("cancel_subscription"),
				logger.UserID(userID),
				logger.SubscriptionID(subscriptionID),
				logger.ProviderCode(billing.ProviderCode(err)),
				logger.Error(err),
			)
			return gatewayError(err)
		}

		result = &CancelResult{Success: true, Subscription: sub}
		now := c.now()
		_, err = c.store.Merge(ctx, userID, entitlement.Patch{
			CancelAtPeriodEnd:     entitlement.Ptr(true),
			SubscriptionUpdatedAt: &now,
		})
		if err != nil {
			result.Warning = WarningMirrorOutOfSync
			result.Detail = "subscription was cancelled by the billing provider but the local record was not updated: " + err.Error()
			c.log.ErrorContext(ctx, "subscription mirror out of sync after cancellation, run subscription fix",
				logger.Operation("cancel_subscription"),
				logger.UserID(userID),
				logger.SubscriptionID(subscriptionID),
				logger.Error(err),
			)
		}
		return nil
	})

	opts := []audit.EventOption{
		audit.WithActor(userID),
		audit.WithUserID(userID),
		audit.WithResource("subscription", subscriptionID),
	}
	if result != nil && result.Warning != "" {
		opts = append(opts, audit.WithMetadata("warning", result.Warning))
	}
	c.record(ctx, ActionSubscriptionCancel, err, opts...)
	if err != nil {
		return nil, err
	}

	c.log.InfoContext(ctx, "subscription cancellation scheduled",
		logger.Operation("cancel_subscription"),
		logger.UserID(userID),
		logger.SubscriptionID(subscriptionID),
	)
	return result, nil
}

// TrialResult reports a trial cancellation.
type TrialResult struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CancelTrial ends the user's trial immediately. Trials live only in the
// store, so no provider call is made.
func (c *Controller) CancelTrial(ctx context.Context, userID string) (*TrialResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUserID
	}

	var result *TrialResult
	err := c.withUserLock(ctx, "cancel_trial", userID, func(ctx context.Context) error {
		rec, err := c.store.Get(ctx, userID)
		if errors.Is(err, entitlement.ErrRecordNotFound) {
			return ErrUnknownUser
		}
		if err != nil {
			return storeError(err)
		}

		now := c.now()
		if !trialTable.CanFire(ctx, TrialState(rec, now), EventCancelTrial, nil) {
			return ErrNoActiveTrial
		}

		rec, err = c.store.Merge(ctx, userID, entitlement.Patch{
			TrialActive:       entitlement.Ptr(false),
			ClearTrialEndDate: true,
		})
		if err != nil {
			return storeError(err)
		}
		result = &TrialResult{
			Success:   true,
			Message:   "Trial cancelled successfully",
			UpdatedAt: rec.UpdatedAt,
		}
		return nil
	})

	c.record(ctx, ActionTrialCancel, err,
		audit.WithActor(userID),
		audit.WithUserID(userID),
		audit.WithResource("trial", userID),
	)
	if err != nil {
		return nil, err
	}

	c.log.InfoContext(ctx, "trial cancelled",
		logger.Operation("cancel_trial"),
		logger.UserID(userID),
	)
	return result, nil
}
