package premium

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/pawpremium/handler"
	"github.com/dmitrymomot/pawpremium/pkg/admin"
	"github.com/dmitrymomot/pawpremium/pkg/lifecycle"
	"github.com/dmitrymomot/pawpremium/pkg/locker"
)

type rule struct {
	target  error
	code    int
	key     string
	message string
}

// rules are checked in order, so specific errors come before their class.
// An empty message uses the error text without its class prefix.
var rules = []rule{
	{locker.ErrLockFailed, http.StatusServiceUnavailable, "busy", "another change for this user is in progress, retry shortly"},
	{admin.ErrMissingIdentity, http.StatusUnauthorized, "missing_identity", "admin identity is required"},
	{admin.ErrForbidden, http.StatusForbidden, "forbidden", "admin privileges required"},
	{lifecycle.ErrSubscriptionMismatch, http.StatusForbidden, "subscription_mismatch", ""},
	{lifecycle.ErrSessionMismatch, http.StatusForbidden, "session_mismatch", ""},
	{lifecycle.ErrUnknownUser, http.StatusForbidden, "unknown_user", ""},
	{lifecycle.ErrUnauthorized, http.StatusForbidden, "unauthorized", ""},
	{lifecycle.ErrNotFound, http.StatusNotFound, "not_found", ""},
	{lifecycle.ErrCheckoutNotPaid, http.StatusConflict, "checkout_not_paid", ""},
	{lifecycle.ErrUserExists, http.StatusConflict, "user_exists", ""},
	{lifecycle.ErrSubscriptionConflict, http.StatusConflict, "subscription_conflict", ""},
	{lifecycle.ErrNoActiveTrial, http.StatusBadRequest, "no_active_trial", ""},
	{lifecycle.ErrInvalidState, http.StatusBadRequest, "invalid_state", ""},
	{lifecycle.ErrInvalidRequest, http.StatusBadRequest, "invalid_request", ""},
	{lifecycle.ErrConfiguration, http.StatusInternalServerError, "configuration_error", ""},
	{lifecycle.ErrProvider, http.StatusInternalServerError, "provider_error", ""},
	{lifecycle.ErrStore, http.StatusInternalServerError, "store_error", ""},
}

// Classify maps lifecycle and admin errors to HTTP errors. It is a
// handler.Classifier.
func Classify(err error) (handler.HTTPError, bool) {
	for _, r := range rules {
		if !errors.Is(err, r.target) {
			continue
		}
		msg := r.message
		if msg == "" {
			msg = detail(err)
		}
		return handler.HTTPError{Code: r.code, Key: r.key, Message: msg, Err: err}, true
	}
	return handler.HTTPError{}, false
}

// detail returns the last line of err without its "class: " prefix.
func detail(err error) string {
	msg := err.Error()
	if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
		msg = msg[i+1:]
	}
	if _, rest, ok := strings.Cut(msg, ": "); ok {
		return rest
	}
	return msg
}
