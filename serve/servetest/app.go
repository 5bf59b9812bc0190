// Package servetest provides test helpers for serve applications.
//
// It constructs the identical DI graph as [serve.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors. The server
// binds an address assigned by the operating system.
//
// Example:
//
//	servetest.SetBaseEnv(t)
//	app := servetest.New(t, handler)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
//	err := app.Request("/index.html").ToString(&body).Fetch(ctx)
package servetest

import (
	"net"
	"net/http"
	"testing"

	"github.com/advdv/httpctx/serve"
	"github.com/carlmjohnson/requests"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing serve applications.
type App struct {
	*fxtest.App
	ln net.Listener
	rt http.RoundTripper
}

// New creates a test app with the same DI graph as [serve.NewApp].
func New(t testing.TB, handler any, opts ...serve.Option) *App {
	app := &App{}
	fxOpts := append(serve.FxOptions(handler, opts...), fx.Populate(&app.ln, &app.rt))
	app.App = fxtest.New(t, fxOpts...)

	return app
}

// URL returns the base url of the running server.
func (a *App) URL() string {
	return "http://" + a.ln.Addr().String()
}

// Request starts a request to path on the running server, sent over the app's instrumented transport.
func (a *App) Request(path string) *requests.Builder {
	return serve.NewRequest(a.rt, a.URL()).Path(path)
}
