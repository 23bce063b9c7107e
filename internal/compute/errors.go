package compute

import "errors"

var (
	// ErrInvalidFormat is an error that occurs when the command format is invalid
	ErrInvalidFormat = errors.New("invalid command format")

	// ErrUnknownCommand is an error that occurs when the command is unknown
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidSetFormat is an error that occurs when the SET command format is invalid
	ErrInvalidSetFormat = errors.New("invalid SET command format")
)
