package httpctx

import (
	"io"
	"reflect"

	"github.com/cockroachdb/errors"
)

// Body is a response body to write. It is implemented by [Empty], [Stream], [Bytes], [Text] and [Value].
type Body interface {
	isBody()
}

// Empty is the absence of a body, it is written as a 204.
type Empty struct{}

// Stream pipes a reader to the response. The reader is closed after writing when it implements io.Closer.
type Stream struct {
	Reader      io.Reader
	ContentType string
}

// Bytes writes a buffer with a Content-Length.
type Bytes struct {
	Data        []byte
	ContentType string
}

// Text writes a string, encoded with the configured charset.
type Text struct {
	Text        string
	ContentType string
}

// Value is serialized with the configured stringifier, as JSON by default.
type Value struct {
	Value any
}

func (Empty) isBody()  {}
func (Stream) isBody() {}
func (Bytes) isBody()  {}
func (Text) isBody()   {}
func (Value) isBody()  {}

// BodyOf determines the body variant for a dynamic value.
func BodyOf(data any) (Body, error) {
	switch v := data.(type) {
	case nil:
		return Empty{}, nil
	case Body:
		return v, nil
	case []byte:
		return Bytes{Data: v}, nil
	case string:
		return Text{Text: v}, nil
	case io.Reader:
		return Stream{Reader: v}, nil
	}

	if isStructured(reflect.TypeOf(data)) {
		return Value{Value: data}, nil
	}

	return nil, errors.Wrapf(ErrUnsupportedBodyType, "unknown data type to write: %v (%T)", data, data)
}

func isStructured(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		return true
	case reflect.Pointer:
		return isStructured(t.Elem())
	default:
		return false
	}
}
