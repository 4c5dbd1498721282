package billing

import "context"

// Unconfigured is the Gateway used when no provider credentials are set.
// Every call fails with ErrNotConfigured, so the rest of the process can
// still serve entitlement reads.
type Unconfigured struct{}

var _ Gateway = Unconfigured{}

func (Unconfigured) CreateCheckoutSession(context.Context, CheckoutRequest) (*CheckoutSession, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) VerifySession(context.Context, string) (*Session, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) GetSubscription(context.Context, string) (*Subscription, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) UpdateSubscription(context.Context, string, SubscriptionUpdate) (*Subscription, error) {
	return nil, ErrNotConfigured
}
