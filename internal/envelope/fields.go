package envelope

import "google.golang.org/protobuf/encoding/protowire"

const (
	fixed64Size = 8
	fixed32Size = 4
)

// SkipField advances past the value of a field with wire type typ whose
// value starts at offset, returning the offset after the value.
func SkipField(data []byte, offset int, typ protowire.Type) (int, error) {
	f, err := readValue(data, offset, Field{Type: typ, Offset: offset})
	if err != nil {
		return offset, err
	}
	return f.End, nil
}

// Walk calls fn for every field of a binary envelope in buffer order.
// Walking stops at the first malformed field or the first error returned
// by fn. A nil fn only validates the field structure.
func Walk(data []byte, fn func(Field) error) error {
	for offset := 0; offset < len(data); {
		key, next, ok := readVarint(data, offset)
		if !ok {
			return &DecodeError{Offset: offset, Err: ErrInvalidVarint}
		}
		num, typ := SplitTag(key)
		f, err := readValue(data, next, Field{Number: num, Type: typ, Offset: offset})
		if err != nil {
			return err
		}
		if f.End <= offset {
			return fieldError(f, ErrNoProgress)
		}
		if fn != nil {
			if err := fn(f); err != nil {
				return err
			}
		}
		offset = f.End
	}
	return nil
}

// Fields returns every field of a binary envelope.
func Fields(data []byte) ([]Field, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	fields := make([]Field, 0, 2)
	err := Walk(data, func(f Field) error {
		fields = append(fields, f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// readValue reads the value of f starting at offset. All extents are
// checked against the remaining buffer before slicing.
func readValue(data []byte, offset int, f Field) (Field, error) {
	if offset < 0 || offset > len(data) {
		return f, fieldError(f, ErrFieldOverflow)
	}
	remaining := len(data) - offset
	switch f.Type {
	case protowire.VarintType:
		v, next, ok := readVarint(data, offset)
		if !ok {
			return f, fieldError(f, ErrInvalidVarint)
		}
		f.Varint = v
		f.End = next
	case protowire.Fixed64Type:
		if remaining < fixed64Size {
			return f, fieldError(f, ErrFieldOverflow)
		}
		f.Value = data[offset : offset+fixed64Size]
		f.End = offset + fixed64Size
	case protowire.BytesType:
		length, next, ok := readVarint(data, offset)
		if !ok {
			return f, fieldError(f, ErrInvalidVarint)
		}
		if length > uint64(len(data)-next) {
			return f, fieldError(f, ErrFieldOverflow)
		}
		end := next + int(length)
		f.Varint = length
		f.Value = data[next:end]
		f.End = end
	case protowire.Fixed32Type:
		if remaining < fixed32Size {
			return f, fieldError(f, ErrFieldOverflow)
		}
		f.Value = data[offset : offset+fixed32Size]
		f.End = offset + fixed32Size
	default:
		return f, fieldError(f, ErrUnsupportedWireType)
	}
	return f, nil
}
