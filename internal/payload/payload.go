// Package payload turns decoded persistence bytes into a JSON document.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"unicode/utf8"
)

const DefaultIndent = 2

// Document is a parsed JSON payload. Raw keeps the original bytes so that
// compact output can preserve key order.
type Document struct {
	Raw   []byte
	Value any
}

// Materialize validates data as UTF-8 and parses exactly one JSON value.
// Numbers are kept as json.Number so they print back unchanged.
func Materialize(data []byte) (Document, error) {
	if !utf8.Valid(data) {
		return Document{}, &MaterializationError{Op: "utf-8 decode", Offset: invalidUTF8Offset(data), Err: ErrInvalidUTF8}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Document{}, &MaterializationError{Op: "json parse", Offset: syntaxOffset(err, dec), Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Document{}, &MaterializationError{Op: "json parse", Offset: dec.InputOffset(), Err: ErrTrailingData}
	}
	return Document{Raw: data, Value: value}, nil
}

// Compact writes the document on a single line, keys in original order.
func (d Document) Compact(w io.Writer) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, d.Raw); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// Pretty writes the document indented by indent spaces with object keys
// sorted lexicographically.
func (d Document) Pretty(w io.Writer, indent int) error {
	if indent < 1 {
		return ErrInvalidIndent
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	return enc.Encode(d.Value)
}

// Equal reports whether two documents are structurally equal JSON values.
func Equal(a, b Document) bool {
	return reflect.DeepEqual(normalize(a.Value), normalize(b.Value))
}

// normalize converts numbers to float64 so that 1 and 1.0 compare equal.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

func invalidUTF8Offset(data []byte) int64 {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return int64(i)
		}
		i += size
	}
	return int64(len(data))
}

func syntaxOffset(err error, dec *json.Decoder) int64 {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Offset
	}
	return dec.InputOffset()
}
