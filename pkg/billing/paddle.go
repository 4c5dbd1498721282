package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

const providerPaddle = "paddle"

// PaddleConfig holds configuration for the Paddle gateway.
type PaddleConfig struct {
	APIKey      string `env:"PADDLE_API_KEY"`
	Environment string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
}

type paddleTransactions interface {
	CreateTransaction(ctx context.Context, req *paddle.CreateTransactionRequest) (*paddle.Transaction, error)
	GetTransaction(ctx context.Context, req *paddle.GetTransactionRequest) (*paddle.Transaction, error)
}

type paddleSubscriptions interface {
	GetSubscription(ctx context.Context, req *paddle.GetSubscriptionRequest) (*paddle.Subscription, error)
	CancelSubscription(ctx context.Context, req *paddle.CancelSubscriptionRequest) (*paddle.Subscription, error)
}

// PaddleGateway implements Gateway on Paddle Billing. A checkout session is
// a Paddle transaction; cancellation is scheduled for the next billing period.
type PaddleGateway struct {
	transactions  paddleTransactions
	subscriptions paddleSubscriptions
}

var _ Gateway = (*PaddleGateway)(nil)

// NewPaddleGateway creates a Paddle gateway for the configured environment.
func NewPaddleGateway(cfg PaddleConfig) (*PaddleGateway, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	var client *paddle.SDK
	var err error

	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		client, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidProviderEnvironment, cfg.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle client: %w", err)
	}

	return newPaddleGateway(client.TransactionsClient, client.SubscriptionsClient), nil
}

func newPaddleGateway(tx paddleTransactions, subs paddleSubscriptions) *PaddleGateway {
	return &PaddleGateway{transactions: tx, subscriptions: subs}
}

func (g *PaddleGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  req.PriceID,
		Quantity: 1,
	})

	txReq := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"user_id": req.UserID,
		},
	}
	// Paddle keys customers by its own id, so the email rides in custom data.
	if req.Email != "" {
		txReq.CustomData["email"] = req.Email
	}
	if req.SuccessURL != "" {
		txReq.Checkout = &paddle.TransactionCheckout{
			URL: paddle.PtrTo(req.SuccessURL),
		}
	}

	txn, err := g.transactions.CreateTransaction(ctx, txReq)
	if err != nil {
		return nil, paddleError("create_checkout_session", err)
	}
	if txn == nil || txn.Checkout == nil || txn.Checkout.URL == nil || *txn.Checkout.URL == "" {
		return nil, &ProviderError{Provider: providerPaddle, Op: "create_checkout_session", Err: ErrNoCheckoutURL}
	}

	return &CheckoutSession{
		SessionID: txn.ID,
		URL:       *txn.Checkout.URL,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}, nil
}

func (g *PaddleGateway) VerifySession(ctx context.Context, sessionID string) (*Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrMissingSessionID
	}

	txn, err := g.transactions.GetTransaction(ctx, &paddle.GetTransactionRequest{TransactionID: sessionID})
	if err != nil {
		return nil, paddleError("verify_session", err)
	}
	if txn == nil {
		return nil, errors.Join(ErrNotFound, emptyResponse(providerPaddle, "verify_session", "transaction"))
	}

	status := string(txn.Status)
	out := &Session{
		SessionID:     txn.ID,
		Status:        status,
		PaymentStatus: PaymentStatusUnpaid,
		Currency:      string(txn.CurrencyCode),
	}
	if status == "completed" || status == "paid" {
		out.PaymentStatus = PaymentStatusPaid
	}
	if txn.CustomerID != nil {
		out.CustomerID = *txn.CustomerID
	}
	if txn.SubscriptionID != nil {
		out.SubscriptionID = *txn.SubscriptionID
	}
	if userID, ok := txn.CustomData["user_id"].(string); ok {
		out.ClientReference = userID
	}
	if total, err := strconv.ParseInt(txn.Details.Totals.GrandTotal, 10, 64); err == nil {
		out.AmountTotal = total
	}
	return out, nil
}

func (g *PaddleGateway) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return nil, ErrMissingSubscriptionID
	}

	sub, err := g.subscriptions.GetSubscription(ctx, &paddle.GetSubscriptionRequest{SubscriptionID: subscriptionID})
	if err != nil {
		return nil, paddleError("get_subscription", err)
	}
	if sub == nil {
		return nil, emptyResponse(providerPaddle, "get_subscription", "subscription")
	}
	return paddleSubscription(sub), nil
}

// UpdateSubscription schedules a cancellation at the end of the billing
// period. Paddle has no resume call with the same semantics, so clearing
// the flag is rejected.
func (g *PaddleGateway) UpdateSubscription(ctx context.Context, subscriptionID string, update SubscriptionUpdate) (*Subscription, error) {
	current, err := g.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !update.CancelAtPeriodEnd {
		if !current.CancelAtPeriodEnd {
			return current, nil
		}
		return nil, ErrUnsupportedUpdate
	}
	if current.Canceled() || current.CancelAtPeriodEnd {
		return current, nil
	}

	sub, err := g.subscriptions.CancelSubscription(ctx, &paddle.CancelSubscriptionRequest{
		SubscriptionID: subscriptionID,
		EffectiveFrom:  paddle.PtrTo(paddle.EffectiveFromNextBillingPeriod),
	})
	if err != nil {
		return nil, paddleError("update_subscription", err)
	}
	if sub == nil {
		return nil, emptyResponse(providerPaddle, "update_subscription", "subscription")
	}
	return paddleSubscription(sub), nil
}

func paddleSubscription(s *paddle.Subscription) *Subscription {
	if s == nil {
		return nil
	}
	out := &Subscription{
		ID:         s.ID,
		Status:     string(s.Status),
		CustomerID: s.CustomerID,
		Plan:       planFromInterval(string(s.BillingCycle.Interval)),
	}
	if s.ScheduledChange != nil && string(s.ScheduledChange.Action) == "cancel" {
		out.CancelAtPeriodEnd = true
	}
	if s.CurrentBillingPeriod != nil {
		if end, err := time.Parse(time.RFC3339, s.CurrentBillingPeriod.EndsAt); err == nil {
			end = end.UTC()
			out.CurrentPeriodEnd = &end
		}
	}
	return out
}

func paddleError(op string, err error) error {
	return &ProviderError{Provider: providerPaddle, Op: op, Err: err}
}
