package statemachine

import "context"

// Table is an immutable transition table. It holds no current state: the
// caller derives the state from its own data and asks where an event leads.
// A Table is safe for concurrent use.
type Table struct {
	transitions map[string]map[string][]Transition
}

// New builds a table from transitions.
func New(transitions ...Transition) (*Table, error) {
	t := &Table{transitions: make(map[string]map[string][]Transition)}
	for _, tr := range transitions {
		if tr.From == nil || tr.To == nil || tr.Event == nil {
			return nil, ErrInvalidTransition
		}
		byEvent, ok := t.transitions[tr.From.Name()]
		if !ok {
			byEvent = make(map[string][]Transition)
			t.transitions[tr.From.Name()] = byEvent
		}
		// Several transitions per from/event allow guard-based branching.
		byEvent[tr.Event.Name()] = append(byEvent[tr.Event.Name()], tr)
	}
	return t, nil
}

// MustNew is New that panics on an invalid definition.
func MustNew(transitions ...Transition) *Table {
	t, err := New(transitions...)
	if err != nil {
		panic("statemachine: " + err.Error())
	}
	return t
}

// Next returns the state event leads to from the given state. The first
// transition whose guards all pass wins.
func (t *Table) Next(ctx context.Context, from State, event Event, data any) (State, error) {
	if from == nil || event == nil {
		return nil, ErrInvalidEvent
	}

	candidates := t.transitions[from.Name()][event.Name()]
	if len(candidates) == 0 {
		return nil, &TransitionError{From: from.Name(), Event: event.Name(), Err: ErrNoTransition}
	}

	for _, tr := range candidates {
		if guardsPass(ctx, tr.Guards, from, event, data) {
			return tr.To, nil
		}
	}
	return nil, &TransitionError{From: from.Name(), Event: event.Name(), Err: ErrRejected}
}

// CanFire reports whether Next would succeed.
func (t *Table) CanFire(ctx context.Context, from State, event Event, data any) bool {
	_, err := t.Next(ctx, from, event, data)
	return err == nil
}

// Events lists the event names defined from a state.
func (t *Table) Events(from State) []string {
	if from == nil {
		return nil
	}
	byEvent := t.transitions[from.Name()]
	out := make([]string, 0, len(byEvent))
	for name := range byEvent {
		out = append(out, name)
	}
	return out
}

func guardsPass(ctx context.Context, guards []Guard, from State, event Event, data any) bool {
	for _, g := range guards {
		if g != nil && !g(ctx, from, event, data) {
			return false
		}
	}
	return true
}
