package envelope

import "google.golang.org/protobuf/encoding/protowire"

// Field numbers written by the persistence layer.
const (
	FieldVersion uint64 = 1
	FieldPayload uint64 = 2
)

// legacyMarker is the first byte of a raw JSON object.
const legacyMarker = '{'

// Format is the physical encoding of a persistence record.
type Format int

const (
	FormatBinary Format = iota
	FormatLegacyJSON
)

func (f Format) String() string {
	switch f {
	case FormatLegacyJSON:
		return "legacy-json"
	case FormatBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Field is one scanned envelope field. Value aliases the scanned buffer and
// holds the raw bytes of length-delimited and fixed-width fields; Varint holds
// the decoded value of varint fields and the declared length of
// length-delimited fields.
type Field struct {
	Number uint64
	Type   protowire.Type
	Offset int
	End    int
	Varint uint64
	Value  []byte
}

// Result is a decoded persistence record.
type Result struct {
	Format     Format
	Version    uint64
	HasVersion bool
	Payload    []byte
}
