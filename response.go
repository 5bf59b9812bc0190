package httpctx

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	defaultBinaryContentType = "application/octet-stream"
	defaultTextContentType   = "text/plain"
	defaultValueContentType  = "application/json"
)

// Write writes data as the response. See [BodyOf] for how values map onto body variants.
func (c *Context) Write(ctx context.Context, data any) error {
	body, err := BodyOf(data)
	if err != nil {
		return err
	}

	return c.WriteBody(ctx, body)
}

// WriteBody writes the response. Only the first call writes, later calls return [ErrResponseCommitted]
// without touching the response.
func (c *Context) WriteBody(ctx context.Context, body Body) error {
	if c.Committed() {
		return errors.WithStack(ErrResponseCommitted)
	}

	switch b := body.(type) {
	case nil, Empty:
		return c.writeEmpty()
	case Stream:
		return c.writeStream(ctx, b)
	case Bytes:
		return c.writeBytes(ctx, b)
	case Text:
		return c.writeText(ctx, b)
	case Value:
		return c.writeValue(ctx, b)
	default:
		return errors.Wrapf(ErrUnsupportedBodyType, "unknown body variant: %T", body)
	}
}

func (c *Context) writeEmpty() error {
	h := c.Response.Header()
	h.Del("Content-Type")
	h.Del("Content-Length")

	c.state = stateClosed
	c.Response.WriteHeader(http.StatusNoContent)

	return nil
}

func (c *Context) writeStream(ctx context.Context, b Stream) error {
	if b.Reader == nil {
		return errors.Wrap(ErrUnsupportedBodyType, "stream without reader")
	}

	return c.commit(ctx, b.Reader, c.resolveContentType(b.ContentType, defaultBinaryContentType), -1)
}

func (c *Context) writeBytes(ctx context.Context, b Bytes) error {
	ct := c.resolveContentType(b.ContentType, defaultBinaryContentType)

	return c.commit(ctx, bytes.NewReader(b.Data), ct, int64(len(b.Data)))
}

func (c *Context) writeText(ctx context.Context, b Text) error {
	ct := withCharset(c.resolveContentType(b.ContentType, defaultTextContentType), c.cfg.Charset)

	data, err := encodeText(b.Text, c.cfg.Charset)
	if err != nil {
		return err
	}

	return c.commit(ctx, bytes.NewReader(data), ct, int64(len(data)))
}

func (c *Context) writeValue(ctx context.Context, b Value) error {
	ct := c.resolveContentType("", defaultValueContentType)

	text, err := c.cfg.StringifyBody(b.Value)
	if err != nil {
		return err
	}

	return c.writeText(ctx, Text{Text: text, ContentType: ct})
}

// resolveContentType picks, in order: a header already set on the response, the context's ContentType, the
// per-call tag and finally the default.
func (c *Context) resolveContentType(tag, dflt string) string {
	if ct := c.Response.Header().Get("Content-Type"); ct != "" {
		return ct
	}
	if c.ContentType != "" {
		return c.ContentType
	}
	if tag != "" {
		return tag
	}

	return dflt
}

func withCharset(ct, cs string) string {
	if _, params, err := mime.ParseMediaType(ct); err == nil {
		if _, ok := params["charset"]; ok {
			return ct
		}
	} else if strings.Contains(strings.ToLower(ct), "charset=") {
		return ct
	}

	return ct + "; charset=" + cs
}

// commit writes the status line and headers, then streams r to the response.
func (c *Context) commit(ctx context.Context, r io.Reader, ct string, length int64) (err error) {
	if closer, ok := r.(io.Closer); ok {
		defer func() {
			if cerr := closer.Close(); cerr != nil && err == nil {
				err = errors.Wrap(cerr, "failed to close response source")
			}
		}()
	}

	h := c.Response.Header()
	h.Set("Content-Type", ct)
	if length >= 0 {
		h.Set("Content-Length", strconv.FormatInt(length, 10))
	}

	c.state = stateWriting
	c.Response.WriteHeader(c.StatusCode)

	_, err = io.Copy(c.Response, ctxReader{ctx, r})
	c.state = stateClosed
	if err != nil {
		return errors.Wrap(err, "failed to write response body")
	}

	return nil
}

// CookieOptions are the attributes of a Set-Cookie header.
type CookieOptions struct {
	// MaxAge in seconds, zero means unset and negative means delete now.
	MaxAge      int
	Expires     time.Time
	Path        string
	Domain      string
	Secure      bool
	HttpOnly    bool
	SameSite    http.SameSite
	Partitioned bool
}

// SetCookie adds a Set-Cookie header to the pending response. Every call adds a separate header. The value is
// percent-encoded, [Context.CookieParams] decodes it again.
func (c *Context) SetCookie(name, value string, opts CookieOptions) error {
	if c.Committed() {
		return errors.Wrap(ErrResponseCommitted, "cannot set cookie")
	}

	ck := &http.Cookie{
		Name:        name,
		Value:       url.PathEscape(value),
		MaxAge:      opts.MaxAge,
		Expires:     opts.Expires,
		Path:        opts.Path,
		Domain:      opts.Domain,
		Secure:      opts.Secure,
		HttpOnly:    opts.HttpOnly,
		SameSite:    opts.SameSite,
		Partitioned: opts.Partitioned,
	}

	if err := ck.Valid(); err != nil {
		return errors.Wrapf(err, "invalid cookie %q", name)
	}

	c.Response.Header().Add("Set-Cookie", ck.String())

	return nil
}
