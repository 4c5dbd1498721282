// Package httpserver runs an http.Handler with configured timeouts and
// graceful shutdown, and provides liveness and readiness handlers.
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	r.Get("/healthz", httpserver.Liveness())
//	r.Get("/readyz", httpserver.Readiness(log, httpserver.Check{Name: "mongo", Fn: ping}))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// Run returns when ctx is cancelled or the process receives SIGINT or
// SIGTERM. Errors wrap ErrStart or ErrShutdown.
package httpserver
