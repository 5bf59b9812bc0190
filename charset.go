package httpctx

import (
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// lookupEncoding resolves a charset label. It returns nil for UTF-8 and for labels without a usable encoding,
// both of which are handled as plain UTF-8.
func lookupEncoding(label string) encoding.Encoding {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		return nil
	}

	enc, name := charset.Lookup(label)
	if enc == nil || name == "replacement" || name == "utf-8" {
		return nil
	}

	return enc
}

func decodeText(b []byte, label string) (string, error) {
	enc := lookupEncoding(label)
	if enc == nil {
		return string(b), nil
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrapf(err, "failed to decode body as %s", label)
	}

	return string(out), nil
}

func encodeText(s, label string) ([]byte, error) {
	enc := lookupEncoding(label)
	if enc == nil {
		return []byte(s), nil
	}

	out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode text as %s", label)
	}

	return out, nil
}
