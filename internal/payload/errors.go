package payload

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidUTF8   = errors.New("payload: invalid utf-8")
	ErrTrailingData  = errors.New("payload: trailing data after json value")
	ErrInvalidIndent = errors.New("payload: invalid indent")
)

// MaterializationError reports a payload that is not valid UTF-8 JSON.
type MaterializationError struct {
	Op     string
	Offset int64
	Err    error
}

func (e *MaterializationError) Error() string {
	return fmt.Sprintf("payload: %s failed at byte %d: %v", e.Op, e.Offset, e.Err)
}

func (e *MaterializationError) Unwrap() error {
	return e.Err
}
