// Package serve runs an [httpctx.Handler] as a process: configuration from the environment, a zap logger,
// OpenTelemetry tracing, Prometheus metrics and an http.Server bound to the fx lifecycle.
//
// Next to the handler the server exposes a health endpoint (HTTPCTX_HEALTH_PATH) and the metrics
// (HTTPCTX_METRICS_PATH), both excluded from tracing. Handlers reach the trace-correlated logger with [Log].
package serve
