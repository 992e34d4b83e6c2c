// Package health serves liveness and readiness probes.
//
// Readiness runs named checks in parallel under one timeout. The service
// registers the job manager, and Redis and Postgres when they are
// configured:
//
//	checks := health.Checks{
//		"scheduler": job.Healthcheck(manager),
//		"redis":     redis.Healthcheck(client),
//	}
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(checks,
//		health.WithLogger(log),
//		health.WithStats(func() map[string]int {
//			return map[string]int{"live_units": scheduler.Registry().Len()}
//		}),
//	))
//
// Both handlers answer plain text by default and JSON when the request has
// ?format=json or an Accept header containing application/json.
package health
