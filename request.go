package httpctx

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Segments are the non-empty segments of a request path.
type Segments []string

// At returns the segment at index i, or the empty string when i is out of range.
func (s Segments) At(i int) string {
	if i < 0 || i >= len(s) {
		return ""
	}

	return s[i]
}

// URL returns the absolute URL of the request, built from the request target and the Host header.
func (c *Context) URL() (*url.URL, error) {
	if c.url.ok {
		return c.url.val, c.url.err
	}

	c.url.val, c.url.err = requestURL(c.Request)
	c.url.ok = true

	return c.url.val, c.url.err
}

func requestURL(r *http.Request) (*url.URL, error) {
	target := r.RequestURI
	if target == "" && r.URL != nil {
		target = r.URL.RequestURI()
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	u, err := url.ParseRequestURI(target)
	if err != nil {
		return nil, errors.WithSecondaryError(errors.Wrapf(ErrMalformedURL, "failed to parse request target %q", target), err)
	}

	// absolute-form targets already carry scheme and host
	if u.Scheme == "" {
		u.Scheme = scheme
	}
	if u.Host == "" {
		u.Host = r.Host
	}

	return u, nil
}

// PathSegments splits the URL path on "/", discards empty segments and drops the first PathBase of them.
// Segments stay percent-encoded as sent, so an encoded slash ("%2F") never splits a segment.
func (c *Context) PathSegments() (Segments, error) {
	if c.segments.ok {
		return c.segments.val, nil
	}

	u, err := c.URL()
	if err != nil {
		return nil, err
	}

	c.segments.val = lo.Drop(lo.Compact(strings.Split(u.EscapedPath(), "/")), c.cfg.PathBase)
	c.segments.ok = true

	return c.segments.val, nil
}

// PathParams applies the configured path mapping to the path segments. Without a mapping it is empty.
func (c *Context) PathParams() (map[string]string, error) {
	if c.pathParams.ok {
		return c.pathParams.val, nil
	}

	segs, err := c.PathSegments()
	if err != nil {
		return nil, err
	}

	c.pathParams.val = map[string]string{}
	if c.cfg.PathMapping != nil {
		if m := c.cfg.PathMapping(segs); m != nil {
			c.pathParams.val = m
		}
	}
	c.pathParams.ok = true

	return c.pathParams.val, nil
}

// SearchParams decodes the query string. When a name repeats the last occurrence wins. Pairs are only
// separated by "&", a ";" is part of the name or value. Malformed escapes fail with a 400 error.
func (c *Context) SearchParams() (map[string]string, error) {
	if c.searchParams.ok {
		return c.searchParams.val, nil
	}

	u, err := c.URL()
	if err != nil {
		return nil, err
	}

	params, err := parseQuery(u.RawQuery)
	if err != nil {
		return nil, err
	}

	c.searchParams.val = params
	c.searchParams.ok = true

	return c.searchParams.val, nil
}

func parseQuery(raw string) (map[string]string, error) {
	params := map[string]string{}
	for _, pair := range lo.Compact(strings.Split(raw, "&")) {
		k, v, _ := strings.Cut(pair, "=")

		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, NewError(CodeBadRequest, errors.Wrapf(err, "invalid query parameter name %q", k))
		}

		val, err := url.QueryUnescape(v)
		if err != nil {
			return nil, NewError(CodeBadRequest, errors.Wrapf(err, "invalid value for query parameter %q", key))
		}

		params[key] = val
	}

	return params, nil
}

// CookieParams parses the Cookie request header(s) into a mapping. The first cookie with a name wins. Values
// are percent-decoded, values that do not decode are kept as sent.
func (c *Context) CookieParams() map[string]string {
	if c.cookieParams.ok {
		return c.cookieParams.val
	}

	c.cookieParams.val = map[string]string{}
	for _, ck := range c.Request.Cookies() {
		if _, exists := c.cookieParams.val[ck.Name]; exists {
			continue
		}

		val, err := url.PathUnescape(ck.Value)
		if err != nil {
			val = ck.Value
		}
		c.cookieParams.val[ck.Name] = val
	}
	c.cookieParams.ok = true

	return c.cookieParams.val
}

// HasBody reports whether the request body is to be read: the method starts with a "P" (POST, PUT, PATCH)
// and the KeepBody predicate does not claim the body.
func (c *Context) HasBody() bool {
	return strings.HasPrefix(c.Request.Method, "P") && !c.cfg.KeepBody(c)
}

// ReadBody reads the request body into memory. It is a no-op when [Context.HasBody] is false. Bodies that
// declare or turn out to reach MaxBodySize fail with a 413 error wrapping [ErrPayloadTooLarge].
func (c *Context) ReadBody(ctx context.Context) error {
	if !c.HasBody() {
		return nil
	}

	limit := c.cfg.MaxBodySize
	if declaredTooLarge(c.Request, limit) {
		return payloadTooLarge(limit)
	}

	if c.Request.Body == nil {
		c.body = []byte{}
		return nil
	}

	// at most limit bytes are taken from the source, reaching it means the body is too large and the
	// rest of the input is left unread.
	buf, err := io.ReadAll(io.LimitReader(ctxReader{ctx, c.Request.Body}, limit))
	if err != nil {
		return errors.Wrap(err, "failed to read request body")
	}

	if int64(len(buf)) >= limit {
		return payloadTooLarge(limit)
	}

	c.body = buf

	return nil
}

func declaredTooLarge(r *http.Request, limit int64) bool {
	if r.ContentLength > limit {
		return true
	}

	declared := strings.TrimSpace(r.Header.Get("Content-Length"))
	if declared == "" {
		return false
	}

	n, err := strconv.ParseUint(declared, 10, 63)
	if err != nil {
		return errors.Is(err, strconv.ErrRange)
	}

	return int64(n) > limit //nolint:gosec // bitSize 63 keeps it in range
}

func payloadTooLarge(limit int64) error {
	return NewError(CodeRequestEntityTooLarge, errors.Wrapf(ErrPayloadTooLarge, "limit is %d bytes", limit))
}

// Body returns the bytes read by [Context.ReadBody], nil if the body was not read.
func (c *Context) Body() []byte { return c.body }

// BodyText decodes the body using the charset declared in the request's Content-Type, UTF-8 otherwise.
func (c *Context) BodyText() (string, error) {
	if c.body == nil {
		return "", nil
	}

	if c.bodyText.ok {
		return c.bodyText.val, c.bodyText.err
	}

	var cs string
	if _, params, err := mime.ParseMediaType(c.Request.Header.Get("Content-Type")); err == nil {
		cs = params["charset"]
	}

	c.bodyText.val, c.bodyText.err = decodeText(c.body, cs)
	c.bodyText.ok = true

	return c.bodyText.val, c.bodyText.err
}

// BodyParams parses the body text with the configured parser. An empty body yields an empty mapping. Parser
// errors are returned as-is.
func (c *Context) BodyParams() (any, error) {
	if c.bodyParams.ok {
		return c.bodyParams.val, nil
	}

	text, err := c.BodyText()
	if err != nil {
		return nil, err
	}

	if text == "" {
		c.bodyParams.val = map[string]any{}
	} else {
		v, err := c.cfg.ParseBody(text)
		if err != nil {
			return nil, err
		}
		c.bodyParams.val = v
	}
	c.bodyParams.ok = true

	return c.bodyParams.val, nil
}

// ctxReader fails reads once the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}

	return r.r.Read(p)
}
