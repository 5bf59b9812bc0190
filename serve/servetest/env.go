package servetest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [serve.Environment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets the [serve.Environment] env vars to test defaults.
//
// Defaults:
//   - HTTPCTX_PORT: "0" (assigned by the operating system)
//   - HTTPCTX_SERVICE_NAME: "test"
//   - HTTPCTX_LOG_LEVEL: "error"
//   - HTTPCTX_OTEL_EXPORTER: "none"
//
// Use the returned [Env] to override individual values:
//
//	servetest.SetBaseEnv(t).MaxBodySize(16).HealthPath("/ready")
func SetBaseEnv(t testing.TB) *Env {
	t.Helper()
	t.Setenv("HTTPCTX_PORT", "0")
	t.Setenv("HTTPCTX_SERVICE_NAME", "test")
	t.Setenv("HTTPCTX_LOG_LEVEL", "error")
	t.Setenv("HTTPCTX_OTEL_EXPORTER", "none")
	return &Env{t: t}
}

// ServiceName overrides HTTPCTX_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("HTTPCTX_SERVICE_NAME", name)
	return e
}

// HealthPath overrides HTTPCTX_HEALTH_PATH.
func (e *Env) HealthPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("HTTPCTX_HEALTH_PATH", path)
	return e
}

// MaxBodySize overrides HTTPCTX_MAX_BODY_SIZE.
func (e *Env) MaxBodySize(n int64) *Env {
	e.t.Helper()
	e.t.Setenv("HTTPCTX_MAX_BODY_SIZE", strconv.FormatInt(n, 10))
	return e
}
