// Package premium exposes the entitlement and subscription lifecycle
// operations as a JSON HTTP API.
//
// Success bodies are the operation results; failures use the handler error
// envelope {"error": {"code", "message"}} with the status chosen by Classify.
// Admin endpoints take the caller identity as adminEmail in the body, which
// the surrounding system is trusted to have authenticated.
package premium
