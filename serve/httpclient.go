package serve

import (
	"net/http"

	"github.com/carlmjohnson/requests"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// NewHTTPTransport creates an HTTP RoundTripper instrumented with OpenTelemetry tracing. Outbound requests made
// with it become child spans of the request being served.
func NewHTTPTransport(tp trace.TracerProvider, prop propagation.TextMapPropagator) http.RoundTripper {
	return otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithPropagators(prop),
	)
}

// NewRequest starts a request builder for baseURL that sends over the instrumented transport.
func NewRequest(t http.RoundTripper, baseURL string) *requests.Builder {
	return requests.URL(baseURL).Transport(t)
}
