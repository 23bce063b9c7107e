package record

import "errors"

var (
	// ErrUnknownOperation is returned when a record carries an unsupported operation byte
	ErrUnknownOperation = errors.New("unknown record operation")

	// ErrFieldTooLarge is returned when a key or value exceeds MaxFieldSize
	ErrFieldTooLarge = errors.New("record field exceeds maximum size")
)
