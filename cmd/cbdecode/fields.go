package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"text/tabwriter"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/danmuck/cbdecode/internal/envelope"
)

const previewLen = 32

// writeFields prints one row per envelope field, for support sessions where
// the payload itself does not decode.
func writeFields(w io.Writer, raw []byte) error {
	format, err := envelope.DetectFormat(raw)
	if err != nil {
		return err
	}
	if format == envelope.FormatLegacyJSON {
		_, err := fmt.Fprintf(w, "format=%s bytes=%d\n", format, len(raw))
		return err
	}
	fields, err := envelope.Fields(raw)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "format=%s bytes=%d\n", format, len(raw))
	fmt.Fprintln(tw, "FIELD\tTYPE\tOFFSET\tSIZE\tVALUE")
	for _, f := range fields {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", f.Number, typeName(f.Type), f.Offset, f.End-f.Offset, fieldValue(f))
	}
	return tw.Flush()
}

func typeName(t protowire.Type) string {
	switch t {
	case protowire.VarintType:
		return "varint"
	case protowire.Fixed64Type:
		return "fixed64"
	case protowire.BytesType:
		return "bytes"
	case protowire.Fixed32Type:
		return "fixed32"
	default:
		return fmt.Sprintf("type(%d)", t)
	}
}

func fieldValue(f envelope.Field) string {
	switch f.Type {
	case protowire.VarintType:
		return fmt.Sprintf("%d", f.Varint)
	case protowire.Fixed64Type:
		return fmt.Sprintf("0x%016x", binary.LittleEndian.Uint64(f.Value))
	case protowire.Fixed32Type:
		return fmt.Sprintf("0x%08x", binary.LittleEndian.Uint32(f.Value))
	case protowire.BytesType:
		return preview(f.Value)
	default:
		return ""
	}
}

func preview(b []byte) string {
	suffix := ""
	if len(b) > previewLen {
		b = b[:previewLen]
		suffix = "..."
	}
	if utf8.Valid(b) {
		return fmt.Sprintf("%q%s", b, suffix)
	}
	return fmt.Sprintf("%x%s", b, suffix)
}
