package serve

import (
	"context"

	"github.com/advdv/httpctx"
	"go.uber.org/fx"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// AppConfig holds configuration for the app.
type AppConfig struct {
	FxOptions []fx.Option
}

// Option configures the App.
type Option func(*AppConfig)

// WithFx adds fx options for dependency injection.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// WithContextOptions sets options for every request context, on top of the ones derived from the environment.
func WithContextOptions(opts ...httpctx.Option) Option {
	return WithFx(fx.Supply(opts))
}

// WithEnvironment replaces parsing of the environment by a fixed one.
func WithEnvironment(env Environment) Option {
	return WithFx(fx.Decorate(func(Environment) Environment { return env }))
}

// FxOptions returns the fx options that make up the app. The handler argument is an fx constructor that
// returns the [httpctx.Handler] to serve, it may request any type that is provided to the app.
func FxOptions(handler any, opts ...Option) []fx.Option {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	baseOpts := make([]fx.Option, 0, 10+len(cfg.FxOptions))
	baseOpts = append(baseOpts, []fx.Option{
		fx.NopLogger,
		fx.Provide(ParseEnv),
		fx.Provide(NewLogger),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		fx.Provide(NewMetrics),
		fx.Provide(NewHTTPTransport),
		fx.Provide(handler),
		fx.Provide(NewServer),
		fx.Provide(NewListener),
		fx.Invoke(startServerHook),
	}...)

	return append(baseOpts, cfg.FxOptions...)
}

// NewApp creates an app that serves the handler built by the constructor.
//
// Example:
//
//	serve.NewApp(func(env serve.Environment) httpctx.Handler {
//	    return static.New("./public")
//	}).Run()
func NewApp(handler any, opts ...Option) *App {
	return &App{
		app: fx.New(FxOptions(handler, opts...)...),
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Err returns any error encountered while building the app.
func (a *App) Err() error {
	return a.app.Err()
}

// Start starts the application with the given context.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}
