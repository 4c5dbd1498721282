package premium

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/pawpremium/handler"
	"github.com/dmitrymomot/pawpremium/pkg/billing"
	"github.com/dmitrymomot/pawpremium/pkg/binder"
	"github.com/dmitrymomot/pawpremium/pkg/entitlement"
	"github.com/dmitrymomot/pawpremium/pkg/lifecycle"
	"github.com/dmitrymomot/pawpremium/pkg/logger"
)

// Controller is the set of lifecycle operations exposed over HTTP.
// *lifecycle.Controller implements it.
type Controller interface {
	Resolve(ctx context.Context, userID string) (entitlement.Status, error)
	StartCheckout(ctx context.Context, in lifecycle.CheckoutInput) (*billing.CheckoutSession, error)
	VerifyCheckout(ctx context.Context, sessionID string) (*billing.Session, error)
	ConfirmCheckout(ctx context.Context, sessionID, userID string) (entitlement.Status, error)
	CancelSubscription(ctx context.Context, subscriptionID, userID string) (*lifecycle.CancelResult, error)
	CancelTrial(ctx context.Context, userID string) (*lifecycle.TrialResult, error)
	FixSubscription(ctx context.Context, adminEmail, subscriptionID, userID string) (*entitlement.Record, error)
	GrantPremium(ctx context.Context, adminEmail, targetUserID string) error
	RevokePremium(ctx context.Context, adminEmail, targetUserID string) error
	UserExists(ctx context.Context, adminEmail, userID string) (bool, error)
	CreateUser(ctx context.Context, adminEmail string, in lifecycle.NewUser) (*entitlement.Record, error)
	AssignRole(ctx context.Context, adminEmail, email string, isAdmin bool) error
}

var _ Controller = (*lifecycle.Controller)(nil)

// Service serves the premium entitlement API.
type Service struct {
	ctrl         Controller
	errorHandler handler.ErrorHandler[handler.Context]
}

// NewService creates the API service. Errors are logged with log and
// rendered as JSON with statuses from Classify.
func NewService(ctrl Controller, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{
		ctrl:         ctrl,
		errorHandler: handler.NewErrorHandler[handler.Context](log.With(logger.Component("premium")), Classify),
	}
}

// Handle returns the router with every endpoint mounted.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/api", premium.NewService(ctrl, log).Handle())
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	jsonBody := binder.JSON()

	r.Get("/entitlement/{userId}", wrap(s, s.resolve, binder.Path(chi.URLParam)))

	r.Post("/checkout", wrap(s, s.createCheckout, jsonBody))
	r.Get("/checkout/verify", wrap(s, s.verifyCheckout, binder.Query()))
	r.Post("/checkout/confirm", wrap(s, s.confirmCheckout, jsonBody))

	r.Post("/subscription/cancel", wrap(s, s.cancelSubscription, jsonBody))
	r.Post("/trial/cancel", wrap(s, s.cancelTrial, jsonBody))

	r.Route("/admin", func(r chi.Router) {
		r.Post("/subscription/fix", wrap(s, s.fixSubscription, jsonBody))
		r.Post("/premium/grant", wrap(s, s.grantPremium, jsonBody))
		r.Post("/premium/revoke", wrap(s, s.revokePremium, jsonBody))
		r.Post("/users/lookup", wrap(s, s.lookupUser, jsonBody))
		r.Post("/users", wrap(s, s.createUser, jsonBody))
		r.Post("/roles", wrap(s, s.assignRole, jsonBody))
	})

	return r
}

func wrap[R any](s *Service, h handler.HandlerFunc[handler.Context, R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](s.errorHandler),
		handler.WithDecorators[handler.Context, R](noStore[R]),
	)
}

// noStore marks every response as per-user and uncacheable. Entitlement
// changes must be visible on the next read.
func noStore[R any](next handler.HandlerFunc[handler.Context, R]) handler.HandlerFunc[handler.Context, R] {
	return func(ctx handler.Context, req R) handler.Response {
		ctx.ResponseWriter().Header().Set("Cache-Control", "no-store")
		return next(ctx, req)
	}
}

// fail hands err to the error handler on render, so every failure goes
// through the same classification and logging.
type fail struct {
	s   *Service
	ctx handler.Context
	err error
}

func (f fail) Render(http.ResponseWriter, *http.Request) error {
	f.s.errorHandler(f.ctx, f.err)
	return nil
}

func (s *Service) fail(ctx handler.Context, err error) handler.Response {
	return fail{s: s, ctx: ctx, err: err}
}
