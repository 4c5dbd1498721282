// Package redis connects to Redis with retries and exposes a health check
// for readiness probes. The distributed locker in pkg/locker runs on the
// returned client.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Errors wrap the go-redis cause with errors.Join, so both the sentinel
// and the driver error can be matched.
package redis
