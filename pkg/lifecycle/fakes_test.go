package lifecycle_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrymomot/pawpremium/pkg/billing"
	"github.com/dmitrymomot/pawpremium/pkg/locker"
)

var now = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

// fakeGateway is an in-memory billing provider with call recording.
type fakeGateway struct {
	mu        sync.Mutex
	subs      map[string]*billing.Subscription
	sessions  map[string]*billing.Session
	updateErr error
	getErr    error
	calls     []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		subs:     make(map[string]*billing.Subscription),
		sessions: make(map[string]*billing.Session),
	}
}

func (g *fakeGateway) addSubscription(sub billing.Subscription) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subs[sub.ID] = &sub
}

func (g *fakeGateway) addSession(s billing.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[s.SessionID] = &s
}

func (g *fakeGateway) record(call string) {
	g.calls = append(g.calls, call)
}

func (g *fakeGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req billing.CheckoutRequest) (*billing.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("create:" + req.PriceID + ":" + req.SuccessURL + ":" + req.CancelURL)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &billing.CheckoutSession{SessionID: "cs_" + req.UserID, URL: "https://checkout.test/cs_" + req.UserID}, nil
}

func (g *fakeGateway) VerifySession(_ context.Context, sessionID string) (*billing.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("verify:" + sessionID)
	s, ok := g.sessions[sessionID]
	if !ok {
		return nil, errors.Join(billing.ErrNotFound, &billing.ProviderError{Provider: "fake", Op: "verify_session", Code: "resource_missing", StatusCode: 404})
	}
	cp := *s
	return &cp, nil
}

func (g *fakeGateway) GetSubscription(_ context.Context, id string) (*billing.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("get:" + id)
	if g.getErr != nil {
		return nil, g.getErr
	}
	sub, ok := g.subs[id]
	if !ok {
		return nil, errors.Join(billing.ErrNotFound, &billing.ProviderError{Provider: "fake", Op: "get_subscription", Code: "resource_missing", StatusCode: 404})
	}
	if sub == nil {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (g *fakeGateway) UpdateSubscription(_ context.Context, id string, update billing.SubscriptionUpdate) (*billing.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.updateErr != nil {
		g.record("update:error")
		return nil, g.updateErr
	}
	sub, ok := g.subs[id]
	if !ok {
		return nil, &billing.ProviderError{Provider: "fake", Op: "update_subscription", Code: "resource_missing", StatusCode: 404}
	}
	if sub.Canceled() || sub.CancelAtPeriodEnd == update.CancelAtPeriodEnd {
		g.record("update:noop")
		cp := *sub
		return &cp, nil
	}
	g.record("update:" + id)
	sub.CancelAtPeriodEnd = update.CancelAtPeriodEnd
	cp := *sub
	return &cp, nil
}

// failingLocker never grants a lock.
type failingLocker struct{}

func (failingLocker) Lock(context.Context, string) (locker.Unlock, error) {
	return nil, errors.Join(locker.ErrLockFailed, errors.New("redis: connection refused"))
}

// blockingGateway holds GetSubscription until release is closed and fails
// if the context it was given is done by then.
type blockingGateway struct {
	*fakeGateway
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingGateway() *blockingGateway {
	return &blockingGateway{
		fakeGateway: newFakeGateway(),
		started:     make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (g *blockingGateway) GetSubscription(ctx context.Context, id string) (*billing.Subscription, error) {
	g.once.Do(func() { close(g.started) })
	<-g.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.fakeGateway.GetSubscription(ctx, id)
}
