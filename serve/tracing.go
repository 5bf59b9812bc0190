package serve

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// NewTracerProvider creates and configures the OpenTelemetry TracerProvider.
// Supported exporters via HTTPCTX_OTEL_EXPORTER: "none" (default) and "stdout".
// Shutdown is handled automatically via fx.Lifecycle.
func NewTracerProvider(lc fx.Lifecycle, env Environment) (trace.TracerProvider, error) {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(newResource(env.ServiceName)),
	}

	exporter, err := newExporter(env.OtelExporter)
	if err != nil {
		return nil, err
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)))
	}

	tp := sdktrace.NewTracerProvider(opts...)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})

	return tp, nil
}

// NewPropagator creates the W3C TraceContext + Baggage composite propagator.
func NewPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// newExporter creates a span exporter based on the exporter type, nil means spans are not exported.
func newExporter(exporterType string) (sdktrace.SpanExporter, error) {
	switch exporterType {
	case "none", "":
		return nil, nil //nolint:nilnil // no exporter is a valid configuration
	case "stdout":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, errors.Newf("unsupported HTTPCTX_OTEL_EXPORTER: %q (supported: none, stdout)", exporterType)
	}
}

func newResource(serviceName string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)
}

// withTracing wraps the handler with otelhttp for automatic span creation.
// Requests to excludePaths are not traced.
// The TracerProvider and Propagator are explicitly injected to avoid global state.
func withTracing(tp trace.TracerProvider, prop propagation.TextMapPropagator, serviceName string, excludePaths ...string) func(http.Handler) http.Handler {
	excludeSet := make(map[string]struct{}, len(excludePaths))
	for _, p := range excludePaths {
		excludeSet[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName,
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithPropagators(prop),
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
			otelhttp.WithFilter(func(r *http.Request) bool {
				_, excluded := excludeSet[r.URL.Path]
				return !excluded
			}),
		)
	}
}
