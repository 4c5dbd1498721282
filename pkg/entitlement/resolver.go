package entitlement

import (
	"time"

	"github.com/dmitrymomot/pawpremium/pkg/legacy"
)

// Reason explains which grant mechanism produced a Status.
type Reason string

const (
	ReasonAdminGranted Reason = "admin-granted"
	ReasonTrial        Reason = "trial"
	ReasonSubscription Reason = "subscription"
	ReasonLegacy       Reason = "legacy"
	ReasonNone         Reason = "none"
)

// Status is the effective entitlement of a user.
type Status struct {
	IsPremium bool   `json:"isPremium"`
	Reason    Reason `json:"reason"`
	Plan      Plan   `json:"plan,omitempty"`
}

// Resolve combines the stored record and the legacy entry into one Status.
// The first matching rule wins: admin grant, running trial, active
// subscription mirror, active legacy entry. A subscription flagged
// cancel-at-period-end keeps access until the provider reports a
// non-active status.
//
// Legacy validity is compared on calendar dates in now's location.
// Resolve has no side effects and depends only on its arguments.
func Resolve(rec *Record, entry *legacy.Entry, now time.Time) Status {
	if rec != nil {
		if rec.AdminGrantedPremium {
			return Status{IsPremium: true, Reason: ReasonAdminGranted}
		}
		if rec.TrialRunning(now) {
			return Status{IsPremium: true, Reason: ReasonTrial}
		}
		if rec.Subscription != nil && rec.Subscription.Status == StatusActive {
			return Status{IsPremium: true, Reason: ReasonSubscription, Plan: rec.Subscription.Plan}
		}
	}
	if entry != nil && entry.ActiveOn(now, now.Location()) {
		return Status{IsPremium: true, Reason: ReasonLegacy}
	}
	return Status{IsPremium: false, Reason: ReasonNone}
}

// ProjectPremium computes the cached isPremium value from the record alone.
// Legacy grants are not part of the projection; they live outside the store.
func ProjectPremium(rec *Record, now time.Time) bool {
	return Resolve(rec, nil, now).IsPremium
}
