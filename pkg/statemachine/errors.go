package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("statemachine: transition needs from, event and to")
	ErrInvalidEvent      = errors.New("statemachine: state and event are required")
	ErrNoTransition      = errors.New("statemachine: no transition defined")
	ErrRejected          = errors.New("statemachine: rejected by guards")
)

// TransitionError reports a failed Next call. Err is ErrNoTransition or
// ErrRejected.
type TransitionError struct {
	From  string
	Event string
	Err   error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: %s on %s", e.Err, e.Event, e.From)
}

func (e *TransitionError) Unwrap() error { return e.Err }
