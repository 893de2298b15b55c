// Package telemetry provides routing.Observer implementations that export
// routing activity as Prometheus metrics and OpenTelemetry spans.
//
//	metrics := telemetry.NewPrometheus(telemetry.WithRegistry(reg))
//	tracing := telemetry.NewTracing()
//	r := routing.New(routing.WithObserver(telemetry.Multi(metrics, tracing)))
//
// Metrics (default namespace "pathway", subsystem "routing"):
//   - pathway_routing_matches_total{route,outcome}: executions by deepest matched route
//   - pathway_routing_match_duration_seconds: execution latency
//   - pathway_routing_generate_total{route,outcome}: URL generations
//   - pathway_routing_generate_duration_seconds: generation latency
package telemetry
