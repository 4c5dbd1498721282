package lifecycle

import (
	"context"
	"time"

	"github.com/dmitrymomot/pawpremium/pkg/entitlement"
	"github.com/dmitrymomot/pawpremium/pkg/statemachine"
)

// Subscription states derived from the stored mirror.
const (
	StateNone          = statemachine.StringState("none")
	StateTrialing      = statemachine.StringState("trialing")
	StateActive        = statemachine.StringState("active")
	StateCancelPending = statemachine.StringState("cancel_pending")
	StateCanceled      = statemachine.StringState("canceled")
)

// Trial states derived from the trial fields of a record.
const (
	TrialInactive = statemachine.StringState("trial_inactive")
	TrialActive   = statemachine.StringState("trial_active")
	TrialCanceled = statemachine.StringState("trial_canceled")
	TrialExpired  = statemachine.StringState("trial_expired")
)

const (
	EventSubscribe   = statemachine.StringEvent("subscribe")
	EventCancel      = statemachine.StringEvent("cancel")
	EventStartTrial  = statemachine.StringEvent("start_trial")
	EventCancelTrial = statemachine.StringEvent("cancel_trial")
)

// subscribeData is passed to subscription guards on checkout confirmation.
type subscribeData struct {
	current  string // stored mirror id, may be empty
	incoming string // subscription id from the checkout session
}

// sameSubscription allows re-confirming the checkout that created the mirror.
func sameSubscription(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
	d, ok := data.(subscribeData)
	return ok && d.current != "" && d.current == d.incoming
}

var subscriptionTable = statemachine.MustNew(
	statemachine.Transition{From: StateNone, Event: EventSubscribe, To: StateActive},
	statemachine.Transition{From: StateCanceled, Event: EventSubscribe, To: StateActive},
	statemachine.Transition{From: StateTrialing, Event: EventSubscribe, To: StateActive, Guards: []statemachine.Guard{sameSubscription}},
	statemachine.Transition{From: StateActive, Event: EventSubscribe, To: StateActive, Guards: []statemachine.Guard{sameSubscription}},
	statemachine.Transition{From: StateCancelPending, Event: EventSubscribe, To: StateCancelPending, Guards: []statemachine.Guard{sameSubscription}},

	// Cancelling twice is a no-op, never an error.
	statemachine.Transition{From: StateTrialing, Event: EventCancel, To: StateCancelPending},
	statemachine.Transition{From: StateActive, Event: EventCancel, To: StateCancelPending},
	statemachine.Transition{From: StateCancelPending, Event: EventCancel, To: StateCancelPending},
	statemachine.Transition{From: StateCanceled, Event: EventCancel, To: StateCanceled},
)

var trialTable = statemachine.NewBuilder().
	From(TrialInactive).When(EventStartTrial).To(TrialActive).
	From(TrialActive).When(EventCancelTrial).To(TrialCanceled).
	From(TrialExpired).When(EventCancelTrial).To(TrialCanceled).
	MustBuild()

// SubscriptionState derives the lifecycle state from the record's mirror.
func SubscriptionState(rec *entitlement.Record) statemachine.StringState {
	if rec == nil || rec.Subscription == nil || rec.Subscription.ID == "" {
		return StateNone
	}
	sub := rec.Subscription
	switch {
	case sub.Status == entitlement.StatusCanceled:
		return StateCanceled
	case sub.CancelAtPeriodEnd:
		return StateCancelPending
	case sub.Status == entitlement.StatusTrialing:
		return StateTrialing
	default:
		return StateActive
	}
}

// TrialState derives the trial sub-state. A trial whose flag is still set
// after its end date is expired.
func TrialState(rec *entitlement.Record, now time.Time) statemachine.StringState {
	switch {
	case rec == nil || !rec.TrialActive:
		return TrialInactive
	case rec.TrialRunning(now):
		return TrialActive
	default:
		return TrialExpired
	}
}
