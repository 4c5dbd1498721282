package main

import (
	"time"

	"github.com/dmitrymomot/pawpremium/pkg/locker"
)

type appConfig struct {
	Env             string        `env:"APP_ENV" envDefault:"development"`
	Name            string        `env:"APP_NAME" envDefault:"pawpremium"`
	LogLevel        string        `env:"LOG_LEVEL"`
	SuperuserEmail  string        `env:"ADMIN_SUPERUSER_EMAIL,required"`
	LegacyFile      string        `env:"LEGACY_GRANDFATHER_FILE"`
	LegacyTimezone  string        `env:"LEGACY_TIMEZONE" envDefault:"UTC"`
	BillingProvider string        `env:"BILLING_PROVIDER" envDefault:"none"`
	SuccessURL      string        `env:"CHECKOUT_SUCCESS_URL"`
	CancelURL       string        `env:"CHECKOUT_CANCEL_URL"`
	StoreBackend    string        `env:"STORE_BACKEND" envDefault:"memory"`
	LockBackend     string        `env:"LOCK_BACKEND" envDefault:"memory"`
	StartupTimeout  time.Duration `env:"STARTUP_TIMEOUT" envDefault:"30s"`

	Lock locker.RedisConfig
}

const (
	backendMemory = "memory"
	backendMongo  = "mongo"
	backendRedis  = "redis"

	providerNone   = "none"
	providerStripe = "stripe"
	providerPaddle = "paddle"
)
