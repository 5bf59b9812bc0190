package serve

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records response metrics on a private registry.
type Metrics struct {
	registry  *prometheus.Registry
	responses *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		responses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "httpctx_responses_total",
				Help: "Total number of responses by status code",
			},
			[]string{"method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "httpctx_request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	m.registry.MustRegister(m.responses, m.duration)

	return m
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) observe(method string, status int, start time.Time) {
	m.responses.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
