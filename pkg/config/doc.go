// Package config loads typed application configuration from .env files and
// environment variables.
//
// It wraps github.com/joho/godotenv for reading .env files and
// github.com/caarlos0/env/v11 for parsing values into structs annotated with
// `env` tags:
//
//	type Config struct {
//		BillingProvider string        `env:"BILLING_PROVIDER" envDefault:"none"`
//		LockTTL         time.Duration `env:"LOCK_TTL" envDefault:"30s"`
//	}
//
//	cfg := config.MustLoad[Config]()
//
// The process environment takes precedence over file values, so deployments
// can override a checked-in .env without editing it. Tests pass an explicit
// map with WithEnvironment instead of mutating the process environment.
//
// Errors wrap ErrParsingConfig or ErrLoadingEnvFile and can be checked with
// errors.Is.
package config
