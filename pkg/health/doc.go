// Package health serves liveness and readiness probes.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"router":   app.RouterLoaded,
//		"snapshot": snapshot.Healthcheck(store),
//	}))
//
// Probes answer "OK" as plain text, or the full [Response] as JSON when the
// request carries ?format=json or Accept: application/json.
package health
