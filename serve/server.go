package serve

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/advdv/httpctx"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServerParams holds the dependencies for creating an HTTP server.
type ServerParams struct {
	fx.In

	Env        Environment
	Handler    httpctx.Handler
	Logger     *zap.Logger
	Metrics    *Metrics
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
	Options    []httpctx.Option `optional:"true"`
}

// NewServer creates an HTTP server serving the handler, with health and metrics endpoints next to it.
func NewServer(params ServerParams) *http.Server {
	opts := append([]httpctx.Option{httpctx.WithMaxBodySize(params.Env.MaxBodySize)}, params.Options...)
	app := httpctx.ToStd(params.Handler, httpctx.NewZapLogger(params.Logger), opts...)

	mux := http.NewServeMux()
	mux.HandleFunc(params.Env.HealthPath, defaultHealthHandler)
	mux.Handle(params.Env.MetricsPath, params.Metrics.Handler())
	mux.Handle("/", app)

	// Tracing is disabled for the health and metrics paths to avoid noisy traces from probes and scrapers.
	handler := withTracing(params.TracerProv, params.Propagator, params.Env.ServiceName,
		params.Env.HealthPath, params.Env.MetricsPath)(withObservation(params.Logger, params.Metrics, mux))

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", params.Env.Port),
		Handler:           handler,
		ReadHeaderTimeout: params.Env.ReadHeaderTimeout,
		ReadTimeout:       params.Env.ReadTimeout,
		WriteTimeout:      params.Env.WriteTimeout,
		IdleTimeout:       params.Env.IdleTimeout,
	}
}

// NewListener binds the server address. Port 0 binds an address assigned by the operating system.
func NewListener(server *http.Server) (net.Listener, error) {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %s", server.Addr)
	}
	return ln, nil
}

// startServerHook registers lifecycle hooks for the HTTP server.
func startServerHook(lc fx.Lifecycle, server *http.Server, ln net.Listener, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting server", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return server.Shutdown(ctx)
		},
	})
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
