package billing

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	stripesession "github.com/stripe/stripe-go/v82/checkout/session"
	stripesub "github.com/stripe/stripe-go/v82/subscription"
)

const providerStripe = "stripe"

// StripeConfig holds configuration for the Stripe gateway.
type StripeConfig struct {
	SecretKey string `env:"STRIPE_SECRET_KEY"`
}

// stripeAPI is the subset of the Stripe SDK used by the gateway.
type stripeAPI struct {
	newSession         func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	getSession         func(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	getSubscription    func(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error)
	updateSubscription func(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error)
}

// StripeGateway implements Gateway on Stripe Checkout and Billing.
type StripeGateway struct {
	api stripeAPI
}

var _ Gateway = (*StripeGateway)(nil)

// NewStripeGateway creates a Stripe gateway and installs the secret key.
func NewStripeGateway(cfg StripeConfig) (*StripeGateway, error) {
	key := strings.TrimSpace(cfg.SecretKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	stripe.Key = key

	return newStripeGateway(stripeAPI{
		newSession:         stripesession.New,
		getSession:         stripesession.Get,
		getSubscription:    stripesub.Get,
		updateSubscription: stripesub.Update,
	}), nil
}

func newStripeGateway(api stripeAPI) *StripeGateway {
	return &StripeGateway{api: api}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		ClientReferenceID: stripe.String(req.UserID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("user_id", req.UserID)
	if req.SuccessURL != "" {
		params.SuccessURL = stripe.String(req.SuccessURL)
	}
	if req.CancelURL != "" {
		params.CancelURL = stripe.String(req.CancelURL)
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}

	sess, err := g.api.newSession(params)
	if err != nil {
		return nil, stripeError("create_checkout_session", err)
	}
	if sess == nil || strings.TrimSpace(sess.URL) == "" {
		return nil, &ProviderError{Provider: providerStripe, Op: "create_checkout_session", Err: ErrNoCheckoutURL}
	}

	out := &CheckoutSession{SessionID: sess.ID, URL: sess.URL}
	if sess.ExpiresAt > 0 {
		out.ExpiresAt = time.Unix(sess.ExpiresAt, 0).UTC()
	}
	return out, nil
}

func (g *StripeGateway) VerifySession(ctx context.Context, sessionID string) (*Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrMissingSessionID
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := g.api.getSession(sessionID, params)
	if err != nil {
		return nil, stripeError("verify_session", err)
	}
	if sess == nil {
		return nil, errors.Join(ErrNotFound, emptyResponse(providerStripe, "verify_session", "session"))
	}

	out := &Session{
		SessionID:       sess.ID,
		Status:          string(sess.Status),
		PaymentStatus:   string(sess.PaymentStatus),
		AmountTotal:     sess.AmountTotal,
		Currency:        string(sess.Currency),
		ClientReference: sess.ClientReferenceID,
	}
	if out.ClientReference == "" {
		out.ClientReference = sess.Metadata["user_id"]
	}
	if sess.Customer != nil {
		out.CustomerID = sess.Customer.ID
	}
	if sess.Subscription != nil {
		out.SubscriptionID = sess.Subscription.ID
	}
	return out, nil
}

func (g *StripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return nil, ErrMissingSubscriptionID
	}

	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := g.api.getSubscription(subscriptionID, params)
	if err != nil {
		return nil, stripeError("get_subscription", err)
	}
	if sub == nil {
		return nil, emptyResponse(providerStripe, "get_subscription", "subscription")
	}
	return stripeSubscription(sub), nil
}

// UpdateSubscription reads the subscription first and skips the write when
// it is already scheduled to cancel or already canceled.
func (g *StripeGateway) UpdateSubscription(ctx context.Context, subscriptionID string, update SubscriptionUpdate) (*Subscription, error) {
	current, err := g.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if current.Canceled() {
		if update.CancelAtPeriodEnd {
			return current, nil
		}
		return nil, &ProviderError{Provider: providerStripe, Op: "update_subscription", Message: "subscription already canceled"}
	}
	if current.CancelAtPeriodEnd == update.CancelAtPeriodEnd {
		return current, nil
	}

	params := &stripe.SubscriptionParams{CancelAtPeriodEnd: stripe.Bool(update.CancelAtPeriodEnd)}
	params.Context = ctx

	sub, err := g.api.updateSubscription(subscriptionID, params)
	if err != nil {
		return nil, stripeError("update_subscription", err)
	}
	if sub == nil {
		return nil, emptyResponse(providerStripe, "update_subscription", "subscription")
	}
	return stripeSubscription(sub), nil
}

func stripeSubscription(s *stripe.Subscription) *Subscription {
	if s == nil {
		return nil
	}
	out := &Subscription{
		ID:                s.ID,
		Status:            string(s.Status),
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	if s.Items != nil && len(s.Items.Data) > 0 && s.Items.Data[0] != nil {
		item := s.Items.Data[0]
		if item.CurrentPeriodEnd > 0 {
			end := time.Unix(item.CurrentPeriodEnd, 0).UTC()
			out.CurrentPeriodEnd = &end
		}
		if item.Price != nil && item.Price.Recurring != nil {
			out.Plan = planFromInterval(string(item.Price.Recurring.Interval))
		}
	}
	return out
}

func stripeError(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		pe := &ProviderError{
			Provider:   providerStripe,
			Op:         op,
			Code:       string(se.Code),
			StatusCode: se.HTTPStatusCode,
			Message:    se.Msg,
			Err:        err,
		}
		if se.Code == stripe.ErrorCodeResourceMissing || se.HTTPStatusCode == http.StatusNotFound {
			return errors.Join(ErrNotFound, pe)
		}
		return pe
	}
	return &ProviderError{Provider: providerStripe, Op: op, Err: err}
}
