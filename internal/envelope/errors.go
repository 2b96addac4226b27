package envelope

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

var (
	ErrEmptyInput          = errors.New("envelope: empty file")
	ErrInvalidVarint       = errors.New("envelope: invalid varint")
	ErrFieldOverflow       = errors.New("envelope: field exceeds payload length")
	ErrUnsupportedWireType = errors.New("envelope: unsupported wire type")
	ErrMissingPayload      = errors.New("envelope: no payload field found")
	ErrNoProgress          = errors.New("envelope: field did not advance")
)

// DecodeError records where in the buffer a decode failure happened.
type DecodeError struct {
	Offset int
	Field  uint64
	Type   protowire.Type
	Err    error
}

func (e *DecodeError) Error() string {
	switch {
	case errors.Is(e.Err, ErrUnsupportedWireType):
		return fmt.Sprintf("%v %d (field=%d offset=%d)", e.Err, e.Type, e.Field, e.Offset)
	case e.Field != 0:
		return fmt.Sprintf("%v (field=%d type=%d offset=%d)", e.Err, e.Field, e.Type, e.Offset)
	default:
		return fmt.Sprintf("%v (offset=%d)", e.Err, e.Offset)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func fieldError(f Field, err error) error {
	return &DecodeError{Offset: f.Offset, Field: f.Number, Type: f.Type, Err: err}
}
