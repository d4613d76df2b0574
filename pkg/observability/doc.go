// Package observability provides structured logging, Prometheus metrics,
// health checks, OpenTelemetry wiring and graceful shutdown for the Falah
// services.
//
// The Logger wraps log/slog with a JSON handler and supports contextual
// fields, so request handlers can do:
//
//	log := observability.FromContext(r.Context())
//	log.WithField("applicant_id", id).Info("applicant updated")
//
// Metrics carries counters and gauges for HTTP traffic, authorization
// decisions, commitment scoring and tenant scoped queries, all prefixed
// with falah_.
package observability
