// Package clientip resolves the client address of HTTP requests behind
// reverse proxies. The address is recorded on audit events of privileged
// operations.
//
// Proxy headers are trusted as sent, so the service must sit behind a proxy
// that overwrites them.
package clientip
