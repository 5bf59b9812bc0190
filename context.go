package httpctx

import (
	"net/http"
	"net/url"
)

// writeState tracks the response lifecycle.
type writeState int

const (
	stateOpen writeState = iota
	stateWriting
	stateClosed
)

// Context bundles the request-derived views and the response writing operations of exactly one request. It is
// not safe for concurrent use, a context is owned by the goroutine that serves its request.
type Context struct {
	// Request is the inbound request.
	Request *http.Request
	// Response is the writer this context is the only writer of.
	Response http.ResponseWriter

	// StatusCode is written when the response is committed.
	StatusCode int
	// ContentType takes precedence over the inferred content type when set.
	ContentType string

	cfg   Config
	state writeState
	body  []byte

	url struct {
		ok  bool
		val *url.URL
		err error
	}
	segments struct {
		ok  bool
		val Segments
	}
	pathParams struct {
		ok  bool
		val map[string]string
	}
	searchParams struct {
		ok  bool
		val map[string]string
	}
	cookieParams struct {
		ok  bool
		val map[string]string
	}
	bodyText struct {
		ok  bool
		val string
		err error
	}
	bodyParams struct {
		ok  bool
		val any
	}
}

// New creates a context for serving request r through w.
func New(w http.ResponseWriter, r *http.Request, opts ...Option) *Context {
	return NewWithConfig(w, r, NewConfig(opts...))
}

// NewWithConfig creates a context from an existing configuration. Missing fields are defaulted.
func NewWithConfig(w http.ResponseWriter, r *http.Request, cfg Config) *Context {
	cfg = cfg.withDefaults()

	return &Context{
		Request:     r,
		Response:    w,
		StatusCode:  cfg.StatusCode,
		ContentType: cfg.ContentType,
		cfg:         cfg,
	}
}

// Config returns the configuration the context was created with.
func (c *Context) Config() Config { return c.cfg }

// Committed reports whether a terminal write has started.
func (c *Context) Committed() bool { return c.state != stateOpen }
