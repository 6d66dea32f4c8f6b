package encoding

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// utf8BOM is the byte order mark optionally prepended to UTF-8 output.
// Generated sources are commonly consumed by toolchains that expect it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	// ErrUnsupportedEncoding indicates the configured output encoding name did
	// not resolve to a known character set.
	ErrUnsupportedEncoding = errors.New("unsupported output encoding")

	// ErrEncodeFailed indicates content could not be transformed into the
	// configured output encoding.
	ErrEncodeFailed = errors.New("failed to encode output content")
)

// Encoder transforms generated UTF-8 text into the byte sequence written to
// disk. The change check compares these encoded bytes against the existing
// file, so the encoder must be deterministic for a given input.
type Encoder interface {
	// Encode converts content into the target encoding, including any
	// configured byte order mark.
	Encode(content string) ([]byte, error)

	// Name returns the canonical name of the target encoding.
	Name() string
}

// charsetEncoder implements Encoder using golang.org/x/text transforms, with
// encoding names resolved by their IANA labels via x/net/html/charset.
type charsetEncoder struct {
	name        string
	withBOM     bool
	transformer transform.Transformer // nil for UTF-8 passthrough
}

// NewCharsetEncoder creates an encoder for the named character set. An empty
// name defaults to UTF-8. UTF-16 variants are handled explicitly so the byte
// order mark policy stays under the caller's control.
func NewCharsetEncoder(name string, withBOM bool) (Encoder, error) {
	canonical := strings.ToLower(strings.TrimSpace(name))
	switch canonical {
	case "", "utf-8", "utf8":
		return &charsetEncoder{name: "utf-8", withBOM: withBOM}, nil
	case "utf-16le", "utf16le":
		return &charsetEncoder{
			name:        "utf-16le",
			transformer: unicode.UTF16(unicode.LittleEndian, bomPolicy(withBOM)).NewEncoder(),
		}, nil
	case "utf-16be", "utf16be":
		return &charsetEncoder{
			name:        "utf-16be",
			transformer: unicode.UTF16(unicode.BigEndian, bomPolicy(withBOM)).NewEncoder(),
		}, nil
	}
	enc, resolved := charset.Lookup(canonical)
	if enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}
	return &charsetEncoder{name: resolved, transformer: enc.NewEncoder()}, nil
}

func bomPolicy(withBOM bool) unicode.BOMPolicy {
	if withBOM {
		return unicode.UseBOM
	}
	return unicode.IgnoreBOM
}

// Encode implements the Encoder interface.
func (e *charsetEncoder) Encode(content string) ([]byte, error) {
	if e.transformer == nil {
		raw := []byte(content)
		if !e.withBOM {
			return raw, nil
		}
		out := make([]byte, 0, len(utf8BOM)+len(raw))
		out = append(out, utf8BOM...)
		return append(out, raw...), nil
	}
	encoded, _, err := transform.Bytes(e.transformer, []byte(content))
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %q: %w", ErrEncodeFailed, e.name, err)
	}
	return encoded, nil
}

// Name implements the Encoder interface.
func (e *charsetEncoder) Name() string {
	return e.name
}
