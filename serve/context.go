package serve

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ctxKey is the key type for context values.
type ctxKey int

const (
	ctxKeyLogger ctxKey = iota
)

// Log returns a trace-correlated zap logger from the context. It is a no-op logger outside of a served request.
func Log(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(ctxKeyLogger).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	return l.With(traceFields(ctx)...)
}

// traceFields extracts trace_id and span_id from the context for log correlation.
func traceFields(ctx context.Context) []zap.Field {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	sc := span.SpanContext()
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

// withObservation stores the logger in the request context, writes an access log line and records metrics
// for every request.
func withObservation(logs *zap.Logger, m *Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		ctx := context.WithValue(r.Context(), ctxKeyLogger, logs)
		next.ServeHTTP(rec, r.WithContext(ctx))

		m.observe(r.Method, rec.status, start)
		Log(ctx).Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int64("bytes", rec.written),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int64
	wrote   bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wrote {
		r.status, r.wrote = code, true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wrote = true
	n, err := r.ResponseWriter.Write(b)
	r.written += int64(n)
	return n, err
}

// Unwrap allows http.ResponseController to reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
