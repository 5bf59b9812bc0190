package httpctx

import (
	"net/http"
)

// Handler serves one request through its context. Returned errors are written as HTTP errors.
type Handler interface {
	ServeContext(c *Context) error
}

// HandlerFunc allow casting a function to imple [Handler].
type HandlerFunc func(c *Context) error

// ServeContext implements the [Handler] interface.
func (f HandlerFunc) ServeContext(c *Context) error {
	return f(c)
}

// ToStd converts a handler into a standard library http.Handler. Every request gets its own context configured
// with opts. An error returned by the handler is written with [Context.WriteError] if nothing was written yet.
func ToStd(h Handler, logs Logger, opts ...Option) http.Handler {
	cfg := NewConfig(opts...)

	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		c := NewWithConfig(resp, req, cfg)

		err := h.ServeContext(c)
		if err == nil {
			return
		}

		if !IsHTTPError(err) || CodeOf(err) >= CodeInternalServerError {
			logs.LogUnhandledServeError(err)
		}

		if c.Committed() {
			return // nothing we can do, the client already got (part of) a response
		}

		if werr := c.WriteError(req.Context(), err); werr != nil {
			logs.LogWriteError(werr)

			// if all fails we don't want the client to end up with a white screen so
			// we render a 500 error with the standard text.
			if !c.Committed() {
				http.Error(resp,
					http.StatusText(http.StatusInternalServerError),
					http.StatusInternalServerError)
			}
		}
	})
}
