package audit

import (
	"fmt"
	"time"
)

// Result represents the outcome of an audited action
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
	ResultError   Result = "error"
)

// Event is a single audit entry for an entitlement mutation.
// Actor is the admin email for privileged operations and the user id otherwise.
type Event struct {
	ID         string         `bson:"_id" json:"id"`
	Action     string         `bson:"action" json:"action"`
	Actor      string         `bson:"actor,omitempty" json:"actor,omitempty"`
	UserID     string         `bson:"userId,omitempty" json:"userId,omitempty"`
	Resource   string         `bson:"resource,omitempty" json:"resource,omitempty"`
	ResourceID string         `bson:"resourceId,omitempty" json:"resourceId,omitempty"`
	Result     Result         `bson:"result" json:"result"`
	Error      string         `bson:"error,omitempty" json:"error,omitempty"`
	RequestID  string         `bson:"requestId,omitempty" json:"requestId,omitempty"`
	IP         string         `bson:"ip,omitempty" json:"ip,omitempty"`
	Metadata   map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt  time.Time      `bson:"createdAt" json:"createdAt"`
}

// Validate checks if the event has all required fields
func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	return nil
}

// EventOption applies configuration to an Event during creation.
type EventOption func(*Event)

// WithResource sets the resource type and ID
func WithResource(resource, id string) EventOption {
	return func(e *Event) {
		e.Resource = resource
		e.ResourceID = id
	}
}

// WithActor sets who performed the action.
func WithActor(actor string) EventOption {
	return func(e *Event) {
		e.Actor = actor
	}
}

// WithUserID sets the user the action applies to.
func WithUserID(userID string) EventOption {
	return func(e *Event) {
		e.UserID = userID
	}
}

// WithMetadata adds metadata to the event
func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}

// WithResult overrides the event result
func WithResult(result Result) EventOption {
	return func(e *Event) {
		e.Result = result
	}
}
