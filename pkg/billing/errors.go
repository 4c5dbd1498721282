package billing

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest = errors.New("invalid billing request")
	ErrNotFound       = errors.New("billing resource not found")
	ErrNotConfigured  = errors.New("billing provider is not configured")
	ErrProvider       = errors.New("billing provider error")

	ErrMissingPriceID        = fmt.Errorf("%w: price id is required", ErrInvalidRequest)
	ErrMissingUserID         = fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	ErrMissingSessionID      = fmt.Errorf("%w: session id is required", ErrInvalidRequest)
	ErrMissingSubscriptionID = fmt.Errorf("%w: subscription id is required", ErrInvalidRequest)
	ErrUnsupportedUpdate     = fmt.Errorf("%w: subscription update not supported", ErrInvalidRequest)

	ErrMissingAPIKey              = fmt.Errorf("%w: api key is required", ErrNotConfigured)
	ErrInvalidProviderEnvironment = fmt.Errorf("%w: invalid provider environment", ErrNotConfigured)
	ErrNoCheckoutURL              = errors.New("no checkout URL returned from provider")
)

// ProviderError carries the provider's failure detail for one gateway call.
// It matches ErrProvider with errors.Is.
type ProviderError struct {
	Provider   string
	Op         string
	Code       string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %s (code=%s, status=%d)", e.Provider, e.Op, msg, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Op, msg)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

// emptyResponse reports a provider call that succeeded without a body.
func emptyResponse(provider, op, what string) error {
	return &ProviderError{Provider: provider, Op: op, Message: "empty " + what}
}

// ProviderCode returns the provider error code carried by err, if any.
func ProviderCode(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
