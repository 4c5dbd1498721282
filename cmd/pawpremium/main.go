package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/pawpremium/modules/premium"
	"github.com/dmitrymomot/pawpremium/pkg/admin"
	"github.com/dmitrymomot/pawpremium/pkg/clientip"
	"github.com/dmitrymomot/pawpremium/pkg/config"
	"github.com/dmitrymomot/pawpremium/pkg/environment"
	"github.com/dmitrymomot/pawpremium/pkg/httpserver"
	"github.com/dmitrymomot/pawpremium/pkg/lifecycle"
	"github.com/dmitrymomot/pawpremium/pkg/logger"
	"github.com/dmitrymomot/pawpremium/pkg/metrics"
	"github.com/dmitrymomot/pawpremium/pkg/requestid"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("pawpremium stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load[appConfig]()
	if err != nil {
		return err
	}
	env := environment.Parse(cfg.Env)
	log := newLogger(cfg, logger.WithEnvironment(env, cfg.Name))
	logger.SetAsDefault(log)

	httpCfg, err := config.Load[httpserver.Config]()
	if err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, cfg.StartupTimeout)
	defer cancel()

	gateway, err := newGateway(cfg.BillingProvider)
	if err != nil {
		return err
	}
	registry, err := newRegistry(cfg.LegacyFile, cfg.LegacyTimezone, log)
	if err != nil {
		return err
	}

	st, err := newStores(startCtx, cfg.StoreBackend)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Error("failed to close store", logger.Error(err))
		}
	}()

	lk, lockChecks, closeLock, err := newLocker(startCtx, cfg.LockBackend, cfg.Lock)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeLock(); err != nil {
			log.Error("failed to close lock backend", logger.Error(err))
		}
	}()

	m := metrics.New()
	ctrl := lifecycle.New(gateway, st.entitlements, admin.NewGate(cfg.SuperuserEmail, st.roles),
		lifecycle.WithRegistry(registry),
		lifecycle.WithLocker(lk),
		lifecycle.WithAudit(newAudit(st.audit)),
		lifecycle.WithMetrics(m),
		lifecycle.WithLogger(log),
		lifecycle.WithRedirectURLs(cfg.SuccessURL, cfg.CancelURL),
	)

	log.Info("starting pawpremium",
		slog.String("billing_provider", cfg.BillingProvider),
		slog.String("store_backend", cfg.StoreBackend),
		slog.String("lock_backend", cfg.LockBackend),
		slog.String("addr", httpCfg.Addr),
	)

	r := newRouter(env, log, m, ctrl, append(st.checks, lockChecks...))
	return httpserver.New(httpCfg, httpserver.WithLogger(log)).Run(ctx, r)
}

func newRouter(env environment.Environment, log *slog.Logger, m *metrics.Metrics, ctrl premium.Controller, checks []httpserver.Check) http.Handler {
	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		m.Middleware,
		clientip.Middleware,
		environment.Middleware(env),
		middleware.Recoverer,
		middleware.Timeout(30*time.Second),
	)

	r.Get("/healthz", httpserver.Liveness())
	r.Get("/readyz", httpserver.Readiness(log, checks...))
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Mount("/", premium.NewService(ctrl, log).Handle())
	return r
}
