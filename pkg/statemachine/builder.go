package statemachine

// Builder provides a fluent API for building transition tables.
type Builder struct {
	transitions []Transition
	current     Transition
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// From sets the starting state for a transition.
func (b *Builder) From(state State) *Builder {
	b.current = Transition{From: state}
	return b
}

// When sets the event that triggers a transition.
func (b *Builder) When(event Event) *Builder {
	b.current.Event = event
	return b
}

// To sets the target state and records the transition.
func (b *Builder) To(state State) *Builder {
	b.current.To = state
	b.transitions = append(b.transitions, b.current)
	from, event := b.current.From, b.current.Event
	b.current = Transition{From: from, Event: event}
	return b
}

// WithGuard adds a guard to the most recently recorded transition.
func (b *Builder) WithGuard(guard Guard) *Builder {
	if n := len(b.transitions); n > 0 && guard != nil {
		b.transitions[n-1].Guards = append(b.transitions[n-1].Guards, guard)
	}
	return b
}

// Build returns the table.
func (b *Builder) Build() (*Table, error) {
	return New(b.transitions...)
}

// MustBuild is like Build but panics on an invalid table.
func (b *Builder) MustBuild() *Table {
	return MustNew(b.transitions...)
}
