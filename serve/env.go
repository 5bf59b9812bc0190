package serve

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment holds the process configuration, parsed from environment variables.
type Environment struct {
	Port        int           `env:"HTTPCTX_PORT" envDefault:"8080"`
	ServiceName string        `env:"HTTPCTX_SERVICE_NAME" envDefault:"httpctx"`
	LogLevel    zapcore.Level `env:"HTTPCTX_LOG_LEVEL" envDefault:"info"`
	// OtelExporter selects the span exporter: "none" or "stdout".
	OtelExporter string `env:"HTTPCTX_OTEL_EXPORTER" envDefault:"none"`
	HealthPath   string `env:"HTTPCTX_HEALTH_PATH" envDefault:"/healthz"`
	MetricsPath  string `env:"HTTPCTX_METRICS_PATH" envDefault:"/metrics"`
	// MaxBodySize is the request body ceiling of every request context.
	MaxBodySize int64 `env:"HTTPCTX_MAX_BODY_SIZE" envDefault:"10485760"`

	ReadHeaderTimeout time.Duration `env:"HTTPCTX_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `env:"HTTPCTX_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout      time.Duration `env:"HTTPCTX_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout       time.Duration `env:"HTTPCTX_IDLE_TIMEOUT" envDefault:"120s"`
}

// ParseEnv parses environment variables into an [Environment].
func ParseEnv() (e Environment, err error) {
	if err := env.Parse(&e); err != nil {
		return e, errors.Wrap(err, "failed to parse environment")
	}
	return e, nil
}
