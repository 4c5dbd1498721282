// Package binder binds HTTP request data to Go structs.
//
// Each binder has the signature func(r *http.Request, v any) error and is
// passed to handler.Wrap with WithBinder or WithBinders:
//
//   - JSON(): strict JSON request bodies (unknown fields rejected, 1MB limit)
//   - Query(): URL query parameters via `query` tags
//   - Path(extractor): router path parameters via `path` tags
//
// Basic types, slices of basic types and pointers for optional fields are
// supported by Query and Path. Failures wrap ErrFailedToParseJSON,
// ErrFailedToParseQuery or ErrFailedToParsePath, so error handlers can map
// them to 400 responses with errors.Is.
package binder
