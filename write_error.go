package httpctx

import (
	"context"

	"github.com/cockroachdb/errors"
)

// WriteError writes err as an HTTP error response. Errors that are not an [*Error] are converted by the
// configured error factory first. The message is only sent when the error is exposed, otherwise the client gets
// the standard status text.
func (c *Context) WriteError(ctx context.Context, err error) error {
	if err == nil {
		return errors.Wrap(ErrInvalidErrorArgument, "not an error: <nil>")
	}

	if c.Committed() {
		return errors.Wrapf(ErrResponseCommitted, "cannot write error %v", err)
	}

	httpErr, ok := asHTTPError(err)
	if !ok {
		converted := c.cfg.CreateError(err)
		if httpErr, ok = asHTTPError(converted); !ok {
			return errors.Wrapf(ErrInvalidErrorArgument, "not an HTTP error: %v", converted)
		}
	}

	c.StatusCode = int(httpErr.Code())

	h := c.Response.Header()
	for k, vs := range httpErr.Header() {
		h.Del(k)
		for _, v := range vs {
			h.Add(k, v)
		}
	}

	msg := statusText(httpErr.Code())
	if httpErr.Exposed() {
		msg = httpErr.Message()
	}

	return c.WriteBody(ctx, Text{Text: msg, ContentType: httpErr.ContentType()})
}

func asHTTPError(err error) (*Error, bool) {
	if err == nil || !IsHTTPError(err) {
		return nil, false
	}

	return asError(err)
}
