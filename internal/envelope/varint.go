package envelope

import "google.golang.org/protobuf/encoding/protowire"

// A varint may not carry more than 64 bits, so the last group starts at
// shift 63, holds a single bit and the encoding is at most 10 bytes long.
const maxVarintShift = 63

// ReadVarint decodes one base-128 varint starting at offset and returns the
// value with the offset of the first byte after it.
func ReadVarint(data []byte, offset int) (uint64, int, error) {
	value, next, ok := readVarint(data, offset)
	if !ok {
		return 0, offset, &DecodeError{Offset: offset, Err: ErrInvalidVarint}
	}
	return value, next, nil
}

func readVarint(data []byte, offset int) (uint64, int, bool) {
	if offset < 0 {
		return 0, offset, false
	}
	var value uint64
	shift := uint(0)
	for i := offset; i < len(data) && shift <= maxVarintShift; i++ {
		b := data[i]
		if shift == maxVarintShift && b > 1 {
			return 0, offset, false
		}
		value |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return value, i + 1, true
		}
		shift += 7
	}
	return 0, offset, false
}

// SplitTag splits a field key into its field number and wire type.
// The number is left as uint64: truncating it could alias a huge field
// number onto one of the known fields.
func SplitTag(key uint64) (uint64, protowire.Type) {
	return key >> 3, protowire.Type(key & 0x7)
}
