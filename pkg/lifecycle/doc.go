// Package lifecycle orchestrates premium entitlement changes across the
// billing provider, the entitlement store, administrator overrides and the
// legacy grandfather registry.
//
// The Controller validates input and authorization before any external
// call, then calls the provider before the store. A provider failure aborts
// the operation with no store write. When the provider accepted a
// cancellation but the store write failed, CancelSubscription still succeeds
// and flags the result with WarningMirrorOutOfSync; FixSubscription rewrites
// the mirror from the provider afterwards.
//
// Subscription and trial states are derived from the stored record and
// checked against transition tables from package statemachine before every
// user-driven mutation. Mutations of one user are serialized with a
// locker.Locker.
//
// Errors match one of ErrInvalidRequest, ErrUnauthorized, ErrNotFound,
// ErrInvalidState, ErrProvider, ErrConfiguration or ErrStore. Admin gate
// denials additionally match admin.ErrMissingIdentity or admin.ErrForbidden.
package lifecycle
