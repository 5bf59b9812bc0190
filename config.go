package httpctx

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
)

// DefaultMaxBodySize is the request body ceiling used when none is configured.
const DefaultMaxBodySize = 10 * 1024 * 1024

// DefaultCharset is the charset appended to textual content types.
const DefaultCharset = "utf-8"

// Config is the immutable per-context configuration. The zero value of every field means "use the default".
type Config struct {
	// KeepBody opts a request out of body consumption even when its method implies one. Evaluated lazily
	// with the context as argument, so it may inspect e.g. the search params.
	KeepBody func(c *Context) bool

	// MaxBodySize is the number of bytes a request body must stay below. Defaults to [DefaultMaxBodySize].
	MaxBodySize int64

	// PathBase is the number of leading path segments that are stripped from [Context.PathSegments].
	PathBase int

	// PathMapping turns path segments into named path params.
	PathMapping func(s Segments) map[string]string

	// ParseBody parses the body text into a structured value. Defaults to JSON.
	ParseBody func(text string) (any, error)

	// StringifyBody serializes structured values for writing. Defaults to JSON.
	StringifyBody func(v any) (string, error)

	// CreateError maps failures that are not an [*Error] into one. Defaults to a non-exposed 500.
	CreateError func(err error) error

	// ContentType overrides content type inference when set.
	ContentType string

	// Charset is used to encode text responses. Defaults to [DefaultCharset].
	Charset string

	// StatusCode is the initial status code of the response. Defaults to 200.
	StatusCode int
}

// Option configures a context.
type Option func(*Config)

// WithKeepBody sets the predicate that keeps the body unread.
func WithKeepBody(f func(c *Context) bool) Option {
	return func(c *Config) { c.KeepBody = f }
}

// WithMaxBodySize sets the request body ceiling.
func WithMaxBodySize(n int64) Option {
	return func(c *Config) { c.MaxBodySize = n }
}

// WithPathBase sets the number of leading path segments to strip.
func WithPathBase(n int) Option {
	return func(c *Config) { c.PathBase = n }
}

// WithPathMapping sets the function that derives path params.
func WithPathMapping(f func(s Segments) map[string]string) Option {
	return func(c *Config) { c.PathMapping = f }
}

// WithBodyParser sets the body parser.
func WithBodyParser(f func(text string) (any, error)) Option {
	return func(c *Config) { c.ParseBody = f }
}

// WithBodyStringifier sets the serializer for structured values.
func WithBodyStringifier(f func(v any) (string, error)) Option {
	return func(c *Config) { c.StringifyBody = f }
}

// WithErrorFactory sets the function that maps arbitrary errors to HTTP errors.
func WithErrorFactory(f func(err error) error) Option {
	return func(c *Config) { c.CreateError = f }
}

// WithContentType sets an explicit response content type.
func WithContentType(ct string) Option {
	return func(c *Config) { c.ContentType = ct }
}

// WithCharset sets the charset for text responses.
func WithCharset(cs string) Option {
	return func(c *Config) { c.Charset = cs }
}

// WithStatusCode sets the initial response status code.
func WithStatusCode(code int) Option {
	return func(c *Config) { c.StatusCode = code }
}

// NewConfig applies the options on top of the defaults.
func NewConfig(opts ...Option) Config {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg.withDefaults()
}

func (cfg Config) withDefaults() Config {
	if cfg.KeepBody == nil {
		cfg.KeepBody = func(*Context) bool { return false }
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.PathBase < 0 {
		cfg.PathBase = 0
	}
	if cfg.ParseBody == nil {
		cfg.ParseBody = parseJSON
	}
	if cfg.StringifyBody == nil {
		cfg.StringifyBody = stringifyJSON
	}
	if cfg.CreateError == nil {
		cfg.CreateError = DefaultCreateError
	}
	if cfg.Charset == "" {
		cfg.Charset = DefaultCharset
	}
	if cfg.StatusCode == 0 {
		cfg.StatusCode = http.StatusOK
	}

	return cfg
}

// DefaultCreateError maps any failure to a 500 that does not expose its message.
func DefaultCreateError(err error) error {
	return NewError(CodeInternalServerError, err)
}

func parseJSON(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}

	return v, nil
}

func stringifyJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode json")
	}

	return string(b), nil
}
