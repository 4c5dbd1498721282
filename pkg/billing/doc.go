// Package billing is the gateway to the external subscription billing
// provider. It exposes checkout creation, checkout verification and
// subscription reads and updates behind the Gateway interface, with
// Stripe and Paddle implementations.
//
// Provider failures are returned as *ProviderError, which matches
// ErrProvider. Unknown resources additionally match ErrNotFound. Missing
// credentials surface as ErrNotConfigured.
package billing
