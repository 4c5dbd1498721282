package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

type stripeFake struct {
	sessions      map[string]*stripe.CheckoutSession
	subscriptions map[string]*stripe.Subscription
	created       []*stripe.CheckoutSessionParams
	updates       int
	updateErr     error
}

func newStripeFake() *stripeFake {
	return &stripeFake{
		sessions:      map[string]*stripe.CheckoutSession{},
		subscriptions: map[string]*stripe.Subscription{},
	}
}

func (f *stripeFake) api() stripeAPI {
	missing := &stripe.Error{Code: stripe.ErrorCodeResourceMissing, HTTPStatusCode: 404, Msg: "No such resource"}
	return stripeAPI{
		newSession: func(p *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
			f.created = append(f.created, p)
			return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1", ExpiresAt: 1900000000}, nil
		},
		getSession: func(id string, _ *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
			s, ok := f.sessions[id]
			if !ok {
				return nil, missing
			}
			return s, nil
		},
		getSubscription: func(id string, _ *stripe.SubscriptionParams) (*stripe.Subscription, error) {
			s, ok := f.subscriptions[id]
			if !ok {
				return nil, missing
			}
			c := *s
			return &c, nil
		},
		updateSubscription: func(id string, p *stripe.SubscriptionParams) (*stripe.Subscription, error) {
			f.updates++
			if f.updateErr != nil {
				return nil, f.updateErr
			}
			s := f.subscriptions[id]
			s.CancelAtPeriodEnd = *p.CancelAtPeriodEnd
			c := *s
			return &c, nil
		},
	}
}

func TestStripeGateway_CreateCheckoutSession(t *testing.T) {
	t.Parallel()

	fake := newStripeFake()
	gw := newStripeGateway(fake.api())

	t.Run("validates input", func(t *testing.T) {
		_, err := gw.CreateCheckoutSession(context.Background(), CheckoutRequest{UserID: "u1"})
		assert.ErrorIs(t, err, ErrInvalidRequest)
		_, err = gw.CreateCheckoutSession(context.Background(), CheckoutRequest{PriceID: "price_1"})
		assert.ErrorIs(t, err, ErrInvalidRequest)
		assert.Empty(t, fake.created)
	})

	t.Run("creates subscription session tagged with the user", func(t *testing.T) {
		out, err := gw.CreateCheckoutSession(context.Background(), CheckoutRequest{
			PriceID:    "price_1",
			UserID:     "u1",
			Email:      "owner@example.com",
			SuccessURL: "https://app.test/success",
			CancelURL:  "https://app.test/cancel",
		})
		require.NoError(t, err)
		assert.Equal(t, "cs_test_1", out.SessionID)
		assert.Equal(t, time.Unix(1900000000, 0).UTC(), out.ExpiresAt)

		require.Len(t, fake.created, 1)
		p := fake.created[0]
		assert.Equal(t, "u1", *p.ClientReferenceID)
		assert.Equal(t, "owner@example.com", *p.CustomerEmail)
		assert.Equal(t, string(stripe.CheckoutSessionModeSubscription), *p.Mode)
		assert.Equal(t, "price_1", *p.LineItems[0].Price)
	})
}

func TestStripeGateway_VerifySession(t *testing.T) {
	t.Parallel()

	fake := newStripeFake()
	fake.sessions["cs_1"] = &stripe.CheckoutSession{
		ID:                "cs_1",
		Status:            stripe.CheckoutSessionStatusComplete,
		PaymentStatus:     stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal:       999,
		Currency:          stripe.CurrencyUSD,
		ClientReferenceID: "u1",
		Customer:          &stripe.Customer{ID: "cus_1"},
		Subscription:      &stripe.Subscription{ID: "sub_1"},
	}
	gw := newStripeGateway(fake.api())

	sess, err := gw.VerifySession(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Equal(t, &Session{
		SessionID:       "cs_1",
		Status:          "complete",
		CustomerID:      "cus_1",
		SubscriptionID:  "sub_1",
		PaymentStatus:   PaymentStatusPaid,
		AmountTotal:     999,
		Currency:        "usd",
		ClientReference: "u1",
	}, sess)
	assert.True(t, sess.Paid())

	_, err = gw.VerifySession(context.Background(), "cs_unknown")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrProvider)
	assert.Equal(t, string(stripe.ErrorCodeResourceMissing), ProviderCode(err))

	_, err = gw.VerifySession(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestStripeGateway_UpdateSubscription_Idempotent(t *testing.T) {
	t.Parallel()

	fake := newStripeFake()
	fake.subscriptions["sub_1"] = &stripe.Subscription{
		ID:     "sub_1",
		Status: stripe.SubscriptionStatusActive,
		Items: &stripe.SubscriptionItemList{Data: []*stripe.SubscriptionItem{{
			CurrentPeriodEnd: 1900000000,
			Price:            &stripe.Price{Recurring: &stripe.PriceRecurring{Interval: stripe.PriceRecurringIntervalYear}},
		}}},
	}
	gw := newStripeGateway(fake.api())
	ctx := context.Background()

	first, err := gw.UpdateSubscription(ctx, "sub_1", SubscriptionUpdate{CancelAtPeriodEnd: true})
	require.NoError(t, err)
	assert.True(t, first.CancelAtPeriodEnd)
	assert.Equal(t, PlanYearly, first.Plan)
	require.NotNil(t, first.CurrentPeriodEnd)

	second, err := gw.UpdateSubscription(ctx, "sub_1", SubscriptionUpdate{CancelAtPeriodEnd: true})
	require.NoError(t, err)
	assert.True(t, second.CancelAtPeriodEnd)
	assert.Equal(t, 1, fake.updates)
}

func TestStripeGateway_UpdateSubscription_AlreadyCanceled(t *testing.T) {
	t.Parallel()

	fake := newStripeFake()
	fake.subscriptions["sub_1"] = &stripe.Subscription{ID: "sub_1", Status: stripe.SubscriptionStatusCanceled}
	gw := newStripeGateway(fake.api())

	sub, err := gw.UpdateSubscription(context.Background(), "sub_1", SubscriptionUpdate{CancelAtPeriodEnd: true})
	require.NoError(t, err)
	assert.True(t, sub.Canceled())
	assert.Zero(t, fake.updates)
}

func TestStripeGateway_UpdateSubscription_ProviderFailure(t *testing.T) {
	t.Parallel()

	fake := newStripeFake()
	fake.subscriptions["sub_1"] = &stripe.Subscription{ID: "sub_1", Status: stripe.SubscriptionStatusActive}
	fake.updateErr = &stripe.Error{Code: stripe.ErrorCodeRateLimit, HTTPStatusCode: 429, Msg: "Too many requests"}
	gw := newStripeGateway(fake.api())

	_, err := gw.UpdateSubscription(context.Background(), "sub_1", SubscriptionUpdate{CancelAtPeriodEnd: true})
	require.ErrorIs(t, err, ErrProvider)
	assert.NotErrorIs(t, err, ErrNotFound)

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "update_subscription", pe.Op)
	assert.Equal(t, 429, pe.StatusCode)
	assert.Contains(t, pe.Error(), "Too many requests")
}

func TestStripeGateway_EmptySubscription(t *testing.T) {
	t.Parallel()

	fake := newStripeFake()
	fake.subscriptions["sub_1"] = &stripe.Subscription{ID: "sub_1", Status: stripe.SubscriptionStatusActive}
	api := fake.api()
	api.getSubscription = func(string, *stripe.SubscriptionParams) (*stripe.Subscription, error) {
		return nil, nil
	}
	gw := newStripeGateway(api)

	_, err := gw.GetSubscription(context.Background(), "sub_1")
	require.ErrorIs(t, err, ErrProvider)

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "get_subscription", pe.Op)
	assert.Contains(t, pe.Error(), "empty subscription")

	_, err = gw.UpdateSubscription(context.Background(), "sub_1", SubscriptionUpdate{CancelAtPeriodEnd: true})
	assert.ErrorIs(t, err, ErrProvider)
	assert.Zero(t, fake.updates)

	api = fake.api()
	api.updateSubscription = func(string, *stripe.SubscriptionParams) (*stripe.Subscription, error) {
		return nil, nil
	}
	_, err = newStripeGateway(api).UpdateSubscription(context.Background(), "sub_1", SubscriptionUpdate{CancelAtPeriodEnd: true})
	require.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "empty subscription")
}
