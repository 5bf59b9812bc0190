// Package httpctx provides a per-request context on top of net/http for reading requests and writing
// responses with content negotiation and structured HTTP errors.
//
// # Overview
//
// A [Context] is created for exactly one request. It lazily derives read-only views of the request and
// writes exactly one response:
//
//	h := httpctx.ToStd(httpctx.HandlerFunc(func(c *httpctx.Context) error {
//	    if err := c.ReadBody(c.Request.Context()); err != nil {
//	        return err // written as 413 when the body is too large
//	    }
//	    params, err := c.BodyParams()
//	    if err != nil {
//	        return httpctx.NewError(httpctx.CodeBadRequest, err)
//	    }
//	    return c.Write(c.Request.Context(), map[string]any{"echo": params})
//	}), httpctx.NewStdLogger(nil))
//
// # Reading Requests
//
// The request view accessors are memoized, they are computed on first use:
//
//   - [Context.URL] is the absolute request URL
//   - [Context.PathSegments] are the non-empty path segments, minus the configured path base
//   - [Context.PathParams] applies the configured path mapping to the segments
//   - [Context.SearchParams] decodes the query string, the last value of a repeated name wins
//   - [Context.CookieParams] parses the Cookie header
//
// The body is only read by an explicit call to [Context.ReadBody]. Requests whose method starts with a "P"
// have a body unless the KeepBody predicate claims it. Bodies that reach MaxBodySize (10 MiB by default) are
// rejected with a 413, whether or not the Content-Length header told the truth. [Context.BodyText] decodes the
// bytes with the charset of the request Content-Type and [Context.BodyParams] parses the text, as JSON by
// default.
//
// # Writing Responses
//
// [Context.Write] takes a dynamic value and maps it onto a [Body] variant:
//
//   - nil: 204 No Content without a body
//   - io.Reader: piped as-is, application/octet-stream by default
//   - []byte: written with a Content-Length, application/octet-stream by default
//   - string: encoded with the configured charset, text/plain by default
//   - maps, structs, slices: serialized by the stringifier, application/json by default
//
// Anything else fails with [ErrUnsupportedBodyType]. The content type is taken, in order, from a
// Content-Type header that is already set on the response, the context's ContentType, the content type
// tag of the body variant and finally the default above. Textual responses get a "; charset=" parameter
// when they lack one.
//
// # Error Handling
//
// [Context.WriteError] turns any error into a response. An [*Error] (created with [NewError]) carries the
// status code, extra headers and whether its message may be exposed:
//
//	return httpctx.NewError(httpctx.CodeNotFound, errors.New("no such user"), httpctx.Expose())
//
// Other errors are converted by the error factory, which by default creates a 500. Messages of errors that
// are not exposed are replaced by the standard status text so internals never leak to the client.
package httpctx
