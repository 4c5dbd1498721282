package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when no file is given with WithFiles. A missing
// default file is not an error.
const DefaultEnvFile = ".env"

type options struct {
	files    []string
	explicit bool
	environ  map[string]string
	prefix   string
}

// Option configures Load.
type Option func(*options)

// WithFiles reads the given .env files instead of DefaultEnvFile. Every file
// must exist. Values from earlier files win, and the environment always wins
// over any file.
func WithFiles(files ...string) Option {
	return func(o *options) {
		o.files = files
		o.explicit = true
	}
}

// WithEnvironment replaces the process environment as the value source.
func WithEnvironment(environ map[string]string) Option {
	return func(o *options) {
		o.environ = environ
	}
}

// WithPrefix prepends prefix to every env tag.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// Load parses configuration into a new T from .env files and the
// environment using `env` struct tags.
//
// Example:
//
//	type Config struct {
//		SuperuserEmail string        `env:"ADMIN_SUPERUSER_EMAIL,required"`
//		LockTTL        time.Duration `env:"LOCK_TTL" envDefault:"30s"`
//	}
//
//	cfg, err := config.Load[Config]()
func Load[T any](opts ...Option) (T, error) {
	o := options{files: []string{DefaultEnvFile}}
	for _, opt := range opts {
		opt(&o)
	}

	environ := o.environ
	if environ == nil {
		environ = env.ToMap(os.Environ())
	}

	merged, err := readFiles(o.files, o.explicit)
	if err != nil {
		var zero T
		return zero, err
	}
	maps.Copy(merged, environ)

	cfg, err := env.ParseAsWithOptions[T](env.Options{
		Environment: merged,
		Prefix:      o.prefix,
	})
	if err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](opts ...Option) T {
	cfg, err := Load[T](opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
	return cfg
}

func readFiles(files []string, explicit bool) (map[string]string, error) {
	merged := make(map[string]string)
	for i := len(files) - 1; i >= 0; i-- {
		values, err := godotenv.Read(files[i])
		if err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Join(ErrLoadingEnvFile, fmt.Errorf("%s: %w", files[i], err))
		}
		maps.Copy(merged, values)
	}
	return merged, nil
}
