// Package statemachine provides an immutable finite-state transition table.
//
// The table does not track a current state. Callers derive the state from
// their own records, ask Next where an event leads and persist the result
// themselves, so one table can be shared by every request:
//
//	const (
//		Active        = statemachine.StringState("active")
//		CancelPending = statemachine.StringState("cancel_pending")
//		Cancel        = statemachine.StringEvent("cancel")
//	)
//
//	table := statemachine.MustNew(
//		statemachine.Transition{From: Active, Event: Cancel, To: CancelPending},
//	)
//
//	next, err := table.Next(ctx, Active, Cancel, nil)
//
// Guards veto a transition based on the data passed to Next. Failures are
// *TransitionError values; match ErrNoTransition or ErrRejected to tell an
// undefined transition from a guarded one.
package statemachine
