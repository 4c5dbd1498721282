package billing

import (
	"context"
	"time"
)

// Gateway is the narrow billing provider contract used by the lifecycle
// controller. Each call is independent and never retried internally:
// retrying a mutating provider call is the caller's decision.
//
// UpdateSubscription must be idempotent for cancellation. Cancelling a
// subscription that is already cancel-at-period-end or canceled returns
// the current snapshot instead of an error.
type Gateway interface {
	// CreateCheckoutSession creates a hosted checkout for PriceID on behalf of UserID.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// VerifySession reads a checkout session snapshot. It has no side effects.
	VerifySession(ctx context.Context, sessionID string) (*Session, error)

	// GetSubscription reads the provider's view of a subscription.
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)

	// UpdateSubscription changes a subscription and returns the updated snapshot.
	UpdateSubscription(ctx context.Context, subscriptionID string, update SubscriptionUpdate) (*Subscription, error)
}

// Billing intervals reported in Subscription.Plan.
const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

// Payment statuses reported in Session.PaymentStatus.
const (
	PaymentStatusPaid              = "paid"
	PaymentStatusUnpaid            = "unpaid"
	PaymentStatusNoPaymentRequired = "no_payment_required"
)

// CheckoutRequest contains data needed to create a checkout session.
type CheckoutRequest struct {
	PriceID    string // Provider's price identifier
	UserID     string // Internal user id, echoed back as Session.ClientReference
	Email      string // Optional billing email
	SuccessURL string // Redirect after successful payment
	CancelURL  string // Redirect if the customer abandons checkout
}

// Validate reports ErrInvalidRequest when a required field is missing.
func (r CheckoutRequest) Validate() error {
	if r.PriceID == "" {
		return ErrMissingPriceID
	}
	if r.UserID == "" {
		return ErrMissingUserID
	}
	return nil
}

// CheckoutSession is a freshly created hosted checkout.
type CheckoutSession struct {
	SessionID string    `json:"sessionId"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// Session is the provider's snapshot of a checkout session.
type Session struct {
	SessionID       string `json:"sessionId"`
	Status          string `json:"status"`
	CustomerID      string `json:"customerId"`
	SubscriptionID  string `json:"subscriptionId"`
	PaymentStatus   string `json:"paymentStatus"`
	AmountTotal     int64  `json:"amountTotal"`
	Currency        string `json:"currency"`
	ClientReference string `json:"clientReference,omitempty"`
}

// Paid reports whether the provider considers the checkout settled.
func (s *Session) Paid() bool {
	return s != nil && (s.PaymentStatus == PaymentStatusPaid || s.PaymentStatus == PaymentStatusNoPaymentRequired)
}

// Subscription is the provider's snapshot of a subscription.
type Subscription struct {
	ID                string     `json:"id"`
	Status            string     `json:"status"`
	Plan              string     `json:"plan,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancelAtPeriodEnd"`
	CurrentPeriodEnd  *time.Time `json:"currentPeriodEnd,omitempty"`
	CustomerID        string     `json:"customerId,omitempty"`
}

// Canceled reports whether the subscription already ended.
func (s *Subscription) Canceled() bool {
	return s != nil && s.Status == "canceled"
}

// SubscriptionUpdate is the set of supported subscription changes.
type SubscriptionUpdate struct {
	CancelAtPeriodEnd bool
}

// planFromInterval maps a provider billing interval to Plan.
func planFromInterval(interval string) string {
	switch interval {
	case "year", "yearly", "annual":
		return PlanYearly
	case "month", "monthly":
		return PlanMonthly
	default:
		return ""
	}
}
