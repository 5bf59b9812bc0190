package httpctx

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Code is an error code that mirrors the http status codes. It can be used to create errors to pass around and
// have them written to the client as a well-formed HTTP error response.
type Code int

const (
	CodeUnknown                      Code = 0
	CodeBadRequest                   Code = http.StatusBadRequest                   // RFC 9110, 15.5.1
	CodeUnauthorized                 Code = http.StatusUnauthorized                 // RFC 9110, 15.5.2
	CodePaymentRequired              Code = http.StatusPaymentRequired              // RFC 9110, 15.5.3
	CodeForbidden                    Code = http.StatusForbidden                    // RFC 9110, 15.5.4
	CodeNotFound                     Code = http.StatusNotFound                     // RFC 9110, 15.5.5
	CodeMethodNotAllowed             Code = http.StatusMethodNotAllowed             // RFC 9110, 15.5.6
	CodeNotAcceptable                Code = http.StatusNotAcceptable                // RFC 9110, 15.5.7
	CodeProxyAuthRequired            Code = http.StatusProxyAuthRequired            // RFC 9110, 15.5.8
	CodeRequestTimeout               Code = http.StatusRequestTimeout               // RFC 9110, 15.5.9
	CodeConflict                     Code = http.StatusConflict                     // RFC 9110, 15.5.10
	CodeGone                         Code = http.StatusGone                         // RFC 9110, 15.5.11
	CodeLengthRequired               Code = http.StatusLengthRequired               // RFC 9110, 15.5.12
	CodePreconditionFailed           Code = http.StatusPreconditionFailed           // RFC 9110, 15.5.13
	CodeRequestEntityTooLarge        Code = http.StatusRequestEntityTooLarge        // RFC 9110, 15.5.14
	CodeRequestURITooLong            Code = http.StatusRequestURITooLong            // RFC 9110, 15.5.15
	CodeUnsupportedMediaType         Code = http.StatusUnsupportedMediaType         // RFC 9110, 15.5.16
	CodeRequestedRangeNotSatisfiable Code = http.StatusRequestedRangeNotSatisfiable // RFC 9110, 15.5.17
	CodeExpectationFailed            Code = http.StatusExpectationFailed            // RFC 9110, 15.5.18
	CodeTeapot                       Code = http.StatusTeapot                       // RFC 9110, 15.5.19 (Unused)
	CodeMisdirectedRequest           Code = http.StatusMisdirectedRequest           // RFC 9110, 15.5.20
	CodeUnprocessableEntity          Code = http.StatusUnprocessableEntity          // RFC 9110, 15.5.21
	CodeLocked                       Code = http.StatusLocked                       // RFC 4918, 11.3
	CodeFailedDependency             Code = http.StatusFailedDependency             // RFC 4918, 11.4
	CodeTooEarly                     Code = http.StatusTooEarly                     // RFC 8470, 5.2.
	CodeUpgradeRequired              Code = http.StatusUpgradeRequired              // RFC 9110, 15.5.22
	CodePreconditionRequired         Code = http.StatusPreconditionRequired         // RFC 6585, 3
	CodeTooManyRequests              Code = http.StatusTooManyRequests              // RFC 6585, 4
	CodeRequestHeaderFieldsTooLarge  Code = http.StatusRequestHeaderFieldsTooLarge  // RFC 6585, 5
	CodeUnavailableForLegalReasons   Code = http.StatusUnavailableForLegalReasons   // RFC 7725, 3

	CodeInternalServerError           Code = http.StatusInternalServerError           // RFC 9110, 15.6.1
	CodeNotImplemented                Code = http.StatusNotImplemented                // RFC 9110, 15.6.2
	CodeBadGateway                    Code = http.StatusBadGateway                    // RFC 9110, 15.6.3
	CodeServiceUnavailable            Code = http.StatusServiceUnavailable            // RFC 9110, 15.6.4
	CodeGatewayTimeout                Code = http.StatusGatewayTimeout                // RFC 9110, 15.6.5
	CodeHTTPVersionNotSupported       Code = http.StatusHTTPVersionNotSupported       // RFC 9110, 15.6.6
	CodeVariantAlsoNegotiates         Code = http.StatusVariantAlsoNegotiates         // RFC 2295, 8.1
	CodeInsufficientStorage           Code = http.StatusInsufficientStorage           // RFC 4918, 11.5
	CodeLoopDetected                  Code = http.StatusLoopDetected                  // RFC 5842, 7.2
	CodeNotExtended                   Code = http.StatusNotExtended                   // RFC 2774, 7
	CodeNetworkAuthenticationRequired Code = http.StatusNetworkAuthenticationRequired // RFC 6585, 6
)

var (
	// ErrMalformedURL marks failures to build the absolute request URL. It indicates a transport problem
	// rather than bad client input.
	ErrMalformedURL = errors.New("httpctx: malformed request url")

	// ErrPayloadTooLarge is wrapped by the 413 error returned when the request body exceeds the limit.
	ErrPayloadTooLarge = errors.New("httpctx: payload too large")

	// ErrUnsupportedBodyType marks a value passed to Write that has no response representation.
	ErrUnsupportedBodyType = errors.New("httpctx: unsupported body type")

	// ErrInvalidErrorArgument marks WriteError calls that cannot be turned into an HTTP error response.
	ErrInvalidErrorArgument = errors.New("httpctx: invalid error argument")

	// ErrResponseCommitted is returned when the response was already (being) written.
	ErrResponseCommitted = errors.New("httpctx: response already committed")
)

// Error describes an http error.
type Error struct {
	code        Code
	err         error
	expose      bool
	header      http.Header
	contentType string
}

// ErrorOption configures an [Error].
type ErrorOption func(*Error)

// Expose marks the error's message as safe to send to the client.
func Expose() ErrorOption {
	return func(e *Error) { e.expose = true }
}

// WithHeader adds a header that is copied onto the response when the error is written.
func WithHeader(key, value string) ErrorOption {
	return func(e *Error) {
		if e.header == nil {
			e.header = http.Header{}
		}
		e.header.Add(key, value)
	}
}

// WithErrorContentType sets the content type used when the error is written as text.
func WithErrorContentType(ct string) ErrorOption {
	return func(e *Error) { e.contentType = ct }
}

// NewError inits a new error given the error code. The underlying error may be nil, in which case the message
// is the status text of the code.
func NewError(c Code, underlying error, opts ...ErrorOption) *Error {
	e := &Error{code: c, err: underlying}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Error) Code() Code { return e.code }
func (e *Error) Error() string {
	status := statusText(e.code)
	if e.err == nil {
		return status
	}

	return fmt.Sprintf("%s: %s", status, e.err.Error())
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.err }

// Exposed reports whether the message may be sent to the client.
func (e *Error) Exposed() bool { return e.expose }

// Header returns the extra headers carried by the error, it may be nil.
func (e *Error) Header() http.Header { return e.header }

// ContentType returns the content type tag of the error, if any.
func (e *Error) ContentType() string { return e.contentType }

// Message is the text sent to the client when the error is exposed.
func (e *Error) Message() string {
	if e.err == nil {
		return statusText(e.code)
	}

	return e.err.Error()
}

// CodeOf returns the error's status code if it is or wraps an [*Error] and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	if httpErr, ok := asError(err); ok {
		return httpErr.Code()
	}
	return CodeUnknown
}

// IsHTTPError reports whether err is or wraps an [*Error] with a client or server error code (4xx or 5xx).
func IsHTTPError(err error) bool {
	httpErr, ok := asError(err)
	return ok && httpErr.Code() >= 400 && httpErr.Code() <= 599
}

// asError uses errors.As to unwrap any error and look for an *Error.
func asError(err error) (*Error, bool) {
	var httpErr *Error
	ok := errors.As(err, &httpErr)
	return httpErr, ok
}

func statusText(c Code) string {
	status := http.StatusText(int(c))
	if status == "" {
		status = "Unknown"
	}

	return status
}
