package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/pawpremium/pkg/admin"
	"github.com/dmitrymomot/pawpremium/pkg/audit"
	"github.com/dmitrymomot/pawpremium/pkg/billing"
	"github.com/dmitrymomot/pawpremium/pkg/clientip"
	"github.com/dmitrymomot/pawpremium/pkg/config"
	"github.com/dmitrymomot/pawpremium/pkg/entitlement"
	"github.com/dmitrymomot/pawpremium/pkg/httpserver"
	"github.com/dmitrymomot/pawpremium/pkg/legacy"
	"github.com/dmitrymomot/pawpremium/pkg/locker"
	"github.com/dmitrymomot/pawpremium/pkg/logger"
	"github.com/dmitrymomot/pawpremium/pkg/mongo"
	"github.com/dmitrymomot/pawpremium/pkg/redis"
	"github.com/dmitrymomot/pawpremium/pkg/requestid"
)

var errUnknownBackend = errors.New("unknown backend")

// stores groups the persistence backends picked by STORE_BACKEND.
type stores struct {
	entitlements entitlement.Store
	roles        admin.RoleStore
	audit        audit.Storage
	checks       []httpserver.Check
	close        func(context.Context) error
}

func newGateway(provider string, opts ...config.Option) (billing.Gateway, error) {
	switch provider {
	case providerNone, "":
		return billing.Unconfigured{}, nil
	case providerStripe:
		cfg, err := config.Load[billing.StripeConfig](opts...)
		if err != nil {
			return nil, err
		}
		gw, err := billing.NewStripeGateway(cfg)
		if err != nil {
			return nil, err
		}
		return gw, nil
	case providerPaddle:
		cfg, err := config.Load[billing.PaddleConfig](opts...)
		if err != nil {
			return nil, err
		}
		gw, err := billing.NewPaddleGateway(cfg)
		if err != nil {
			return nil, err
		}
		return gw, nil
	default:
		return nil, fmt.Errorf("%w: billing provider %q", errUnknownBackend, provider)
	}
}

func newStores(ctx context.Context, backend string, opts ...config.Option) (*stores, error) {
	switch backend {
	case backendMemory, "":
		return &stores{
			entitlements: entitlement.NewMemoryStore(),
			roles:        admin.NewMemoryRoleStore(),
			audit:        audit.NewMemoryStorage(),
			close:        func(context.Context) error { return nil },
		}, nil
	case backendMongo:
		cfg, err := config.Load[mongo.Config](opts...)
		if err != nil {
			return nil, err
		}
		client, err := mongo.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Database)
		store := mongo.NewStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &stores{
			entitlements: store,
			roles:        mongo.NewRoleStore(db),
			audit:        mongo.NewAuditStorage(db),
			checks:       []httpserver.Check{{Name: "mongo", Fn: mongo.Healthcheck(client)}},
			close:        client.Disconnect,
		}, nil
	default:
		return nil, fmt.Errorf("%w: store backend %q", errUnknownBackend, backend)
	}
}

func newLocker(ctx context.Context, backend string, lockCfg locker.RedisConfig, opts ...config.Option) (locker.Locker, []httpserver.Check, func() error, error) {
	switch backend {
	case backendMemory, "":
		return locker.NewMemory(), nil, func() error { return nil }, nil
	case backendRedis:
		cfg, err := config.Load[redis.Config](opts...)
		if err != nil {
			return nil, nil, nil, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		l, err := locker.NewRedis(client, lockCfg)
		if err != nil {
			_ = client.Close()
			return nil, nil, nil, err
		}
		checks := []httpserver.Check{{Name: "redis", Fn: redis.Healthcheck(client)}}
		return l, checks, client.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: lock backend %q", errUnknownBackend, backend)
	}
}

func newRegistry(path, timezone string, log *slog.Logger) (*legacy.Registry, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("legacy timezone %q: %w", timezone, err)
	}
	if path == "" {
		log.Warn("no legacy grandfather file configured, legacy entitlements disabled")
		return legacy.New(nil, legacy.WithLocation(loc))
	}
	reg, err := legacy.LoadFile(path, legacy.WithLocation(loc))
	if err != nil {
		return nil, err
	}
	log.Info("legacy grandfather list loaded", slog.Int("entries", reg.Len()), slog.String("path", path))
	return reg, nil
}

func newAudit(storage audit.Storage) *audit.Logger {
	return audit.NewLogger(storage,
		audit.WithRequestIDExtractor(nonEmpty(requestid.FromContext)),
		audit.WithIPExtractor(nonEmpty(clientip.FromContext)),
	)
}

func nonEmpty(get func(context.Context) string) func(context.Context) (string, bool) {
	return func(ctx context.Context) (string, bool) {
		v := get(ctx)
		return v, v != ""
	}
}

func parseLevel(s string) (slog.Level, bool) {
	if s == "" {
		return 0, false
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, false
	}
	return l, true
}

func newLogger(cfg appConfig, extra ...logger.Option) *slog.Logger {
	opts := append([]logger.Option{
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}, extra...)
	if lvl, ok := parseLevel(cfg.LogLevel); ok {
		opts = append(opts, logger.WithLevel(lvl))
	}
	return logger.New(opts...)
}
