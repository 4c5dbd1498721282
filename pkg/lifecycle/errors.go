package lifecycle

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the Controller matches exactly one
// of them (or an admin gate error) with errors.Is.
var (
	ErrInvalidRequest = errors.New("lifecycle.invalid_request")
	ErrUnauthorized   = errors.New("lifecycle.unauthorized")
	ErrNotFound       = errors.New("lifecycle.not_found")
	ErrInvalidState   = errors.New("lifecycle.invalid_state")
	ErrProvider       = errors.New("lifecycle.provider_error")
	ErrConfiguration  = errors.New("lifecycle.configuration_error")
	ErrStore          = errors.New("lifecycle.store_error")
)

var (
	ErrMissingUserID         = fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	ErrMissingPriceID        = fmt.Errorf("%w: price id is required", ErrInvalidRequest)
	ErrMissingSessionID      = fmt.Errorf("%w: session id is required", ErrInvalidRequest)
	ErrMissingSubscriptionID = fmt.Errorf("%w: subscription id is required", ErrInvalidRequest)
	ErrMissingEmail          = fmt.Errorf("%w: email is required", ErrInvalidRequest)
	ErrInvalidTrialDays      = fmt.Errorf("%w: trial days must be between 0 and %d", ErrInvalidRequest, MaxTrialDays)

	ErrUnknownUser          = fmt.Errorf("%w: user not found", ErrUnauthorized)
	ErrSubscriptionMismatch = fmt.Errorf("%w: subscription does not belong to user", ErrUnauthorized)
	ErrSessionMismatch      = fmt.Errorf("%w: checkout session belongs to another user", ErrUnauthorized)

	ErrTargetNotFound = fmt.Errorf("%w: target user not found", ErrNotFound)

	ErrNoActiveTrial         = fmt.Errorf("%w: no active trial", ErrInvalidState)
	ErrCheckoutNotPaid       = fmt.Errorf("%w: checkout session is not paid", ErrInvalidState)
	ErrCheckoutNoSub         = fmt.Errorf("%w: checkout session has no subscription", ErrInvalidState)
	ErrSubscriptionConflict  = fmt.Errorf("%w: user already has another subscription", ErrInvalidState)
	ErrSubscriptionNotActive = fmt.Errorf("%w: subscription cannot be cancelled in its current state", ErrInvalidState)
	ErrUserExists            = fmt.Errorf("%w: user already exists", ErrInvalidState)

	ErrEmptySnapshot = fmt.Errorf("%w: provider returned an empty snapshot", ErrProvider)
)

// MaxTrialDays bounds the trial length accepted by CreateUser.
const MaxTrialDays = 3650

// WarningMirrorOutOfSync marks a cancellation the provider applied but the
// local mirror did not record. FixSubscription repairs it.
const WarningMirrorOutOfSync = "mirror_out_of_sync"
