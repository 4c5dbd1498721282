// Package metrics exposes Prometheus collectors for the premium service.
//
// A Metrics value owns its own registry, so tests and multiple instances
// never collide on the global default registerer.
//
//	m := metrics.New()
//	r.Use(m.Middleware)
//	r.Handle("/metrics", m.Handler())
//
// Lifecycle mutations are counted through ObserveAction, which the
// lifecycle controller calls once per audited action.
package metrics
