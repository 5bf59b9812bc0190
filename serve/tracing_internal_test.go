package serve

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewExporter(t *testing.T) {
	for _, typ := range []string{"", "none"} {
		exp, err := newExporter(typ)
		require.NoError(t, err)
		require.Nil(t, exp, typ)
	}

	exp, err := newExporter("stdout")
	require.NoError(t, err)
	require.NotNil(t, exp)

	_, err = newExporter("xrayudp")
	require.EqualError(t, err, `unsupported HTTPCTX_OTEL_EXPORTER: "xrayudp" (supported: none, stdout)`)
}

func TestNewResource(t *testing.T) {
	res := newResource("my-service")

	found := false
	for _, attr := range res.Attributes() {
		if string(attr.Key) == "service.name" && attr.Value.AsString() == "my-service" {
			found = true
		}
	}
	assert.True(t, found, "expected service.name attribute in resource")
}

func TestWithTracingExcludesPaths(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	hdlr := withTracing(tp, NewPropagator(), "test", "/healthz")(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	for _, p := range []string{"/healthz", "/index.html"} {
		hdlr.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /index.html", spans[0].Name())
}
