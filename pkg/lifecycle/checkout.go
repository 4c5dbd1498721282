package lifecycle

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrymomot/pawpremium/pkg/audit"
	"github.com/dmitrymomot/pawpremium/pkg/billing"
	"github.com/dmitrymomot/pawpremium/pkg/entitlement"
	"github.com/dmitrymomot/pawpremium/pkg/logger"
)

// CheckoutInput starts a hosted checkout. Empty redirect URLs fall back to
// the controller defaults.
type CheckoutInput struct {
	PriceID    string
	UserID     string
	UserEmail  string
	SuccessURL string
	CancelURL  string
}

// StartCheckout creates a provider checkout session. The store is not
// touched until the payment is confirmed.
func (c *Controller) StartCheckout(ctx context.Context, in CheckoutInput) (*billing.CheckoutSession, error) {
	in.PriceID = strings.TrimSpace(in.PriceID)
	in.UserID = strings.TrimSpace(in.UserID)
	if in.PriceID == "" {
		return nil, ErrMissingPriceID
	}
	if in.UserID == "" {
		return nil, ErrMissingUserID
	}

	req := billing.CheckoutRequest{
		PriceID:    in.PriceID,
		UserID:     in.UserID,
		Email:      strings.TrimSpace(in.UserEmail),
		SuccessURL: orDefault(in.SuccessURL, c.successURL),
		CancelURL:  orDefault(in.CancelURL, c.cancelURL),
	}
	session, err := c.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		c.log.ErrorContext(ctx, "failed to create checkout session",
			logger.Operation("start_checkout"),
			logger.UserID(in.UserID),
			logger.ProviderCode(billing.ProviderCode(err)),
			logger.Error(err),
		)
		return nil, gatewayError(err)
	}

	c.log.InfoContext(ctx, "checkout session created",
		logger.Operation("start_checkout"),
		logger.UserID(in.UserID),
		logger.SessionID(session.SessionID),
	)
	return session, nil
}

// VerifyCheckout reads the checkout session snapshot. It never writes and
// is safe to poll.
func (c *Controller) VerifyCheckout(ctx context.Context, sessionID string) (*billing.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	session, err := c.gateway.VerifySession(ctx, sessionID)
	if err != nil {
		c.log.ErrorContext(ctx, "failed to verify checkout session",
			logger.Operation("verify_checkout"),
			logger.SessionID(sessionID),
			logger.ProviderCode(billing.ProviderCode(err)),
			logger.Error(err),
		)
		return nil, gatewayError(err)
	}
	if session == nil {
		return nil, ErrEmptySnapshot
	}
	return session, nil
}

// ConfirmCheckout persists the subscription of a paid checkout session into
// the user's mirror and returns the resulting entitlement. Confirming the
// same session again is a no-op rewrite of the same mirror.
func (c *Controller) ConfirmCheckout(ctx context.Context, sessionID, userID string) (entitlement.Status, error) {
	sessionID = strings.TrimSpace(sessionID)
	userID = strings.TrimSpace(userID)
	if sessionID == "" {
		return entitlement.Status{}, ErrMissingSessionID
	}
	if userID == "" {
		return entitlement.Status{}, ErrMissingUserID
	}

	session, err := c.VerifyCheckout(ctx, sessionID)
	if err != nil {
		return entitlement.Status{}, err
	}
	if session.ClientReference != "" && session.ClientReference != userID {
		c.log.WarnContext(ctx, "checkout session belongs to another user",
			logger.Operation("confirm_checkout"),
			logger.UserID(userID),
			logger.SessionID(sessionID),
		)
		return entitlement.Status{}, ErrSessionMismatch
	}
	if !session.Paid() {
		return entitlement.Status{}, ErrCheckoutNotPaid
	}
	if session.SubscriptionID == "" {
		return entitlement.Status{}, ErrCheckoutNoSub
	}

	sub, err := c.gateway.GetSubscription(ctx, session.SubscriptionID)
	if err != nil {
		c.log.ErrorContext(ctx, "failed to read subscription for checkout",
			logger.Operation("confirm_checkout"),
			logger.UserID(userID),
			logger.SubscriptionID(session.SubscriptionID),
			logger.ProviderCode(billing.ProviderCode(err)),
			logger.Error(err),
		)
		return entitlement.Status{}, gatewayError(err)
	}
	if sub == nil {
		return entitlement.Status{}, ErrEmptySnapshot
	}
	if sub.CustomerID == "" {
		sub.CustomerID = session.CustomerID
	}

	var rec *entitlement.Record
	err = c.withUserLock(ctx, "confirm_checkout", userID, func(ctx context.Context) error {
		current, err := c.store.Get(ctx, userID)
		if err != nil && !errors.Is(err, entitlement.ErrRecordNotFound) {
			return storeError(err)
		}

		var currentID string
		if current != nil && current.Subscription != nil {
			currentID = current.Subscription.ID
		}
		from := SubscriptionState(current)
		if _, err := subscriptionTable.Next(ctx, from, EventSubscribe, subscribeData{current: currentID, incoming: sub.ID}); err != nil {
			return ErrSubscriptionConflict
		}

		rec, err = c.store.Merge(ctx, userID, entitlement.Patch{ReplaceSubscription: mirrorOf(sub, c.now())})
		if err != nil {
			return storeError(err)
		}
		return nil
	})

	c.record(ctx, ActionCheckoutConfirm, err,
		audit.WithActor(userID),
		audit.WithUserID(userID),
		audit.WithResource("subscription", sub.ID),
		audit.WithMetadata("session_id", sessionID),
	)
	if err != nil {
		c.log.ErrorContext(ctx, "failed to confirm checkout",
			logger.Operation("confirm_checkout"),
			logger.UserID(userID),
			logger.SubscriptionID(sub.ID),
			logger.Error(err),
		)
		return entitlement.Status{}, err
	}

	c.log.InfoContext(ctx, "checkout confirmed",
		logger.Operation("confirm_checkout"),
		logger.UserID(userID),
		logger.SubscriptionID(sub.ID),
	)
	return c.resolveRecord(rec), nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
