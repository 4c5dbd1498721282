package locker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisConfig configures the distributed locker.
type RedisConfig struct {
	Prefix        string        `env:"LOCK_PREFIX" envDefault:"pawpremium:lock:"`
	TTL           time.Duration `env:"LOCK_TTL" envDefault:"30s"`
	RetryInterval time.Duration `env:"LOCK_RETRY_INTERVAL" envDefault:"50ms"`
	WaitTimeout   time.Duration `env:"LOCK_WAIT_TIMEOUT" envDefault:"10s"`
}

// Redis is a Locker shared across processes. A lock is a key set with
// SET NX PX holding a random token; release deletes it only when the token
// still matches, so an expired holder cannot free a newer one.
type Redis struct {
	client redis.UniversalClient
	script *redis.Script
	cfg    RedisConfig
}

// NewRedis creates a distributed locker. Zero config values fall back to defaults.
func NewRedis(client redis.UniversalClient, cfg RedisConfig) (*Redis, error) {
	if client == nil {
		return nil, ErrNotConfigured
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 50 * time.Millisecond
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = 10 * time.Second
	}
	return &Redis{
		client: client,
		script: redis.NewScript(releaseScript),
		cfg:    cfg,
	}, nil
}

func (l *Redis) Lock(ctx context.Context, key string) (Unlock, error) {
	if key == "" {
		return nil, errors.Join(ErrLockFailed, ErrEmptyKey)
	}

	key = l.cfg.Prefix + key
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.cfg.WaitTimeout)
	defer cancel()

	ticker := time.NewTicker(l.cfg.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.cfg.TTL).Result()
		if err != nil {
			return nil, errors.Join(ErrLockFailed, err)
		}
		if ok {
			return l.unlock(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrLockFailed, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *Redis) unlock(key, token string) Unlock {
	var once sync.Once
	var err error
	return func(ctx context.Context) error {
		once.Do(func() {
			err = l.script.Run(context.WithoutCancel(ctx), l.client, []string{key}, token).Err()
		})
		return err
	}
}
