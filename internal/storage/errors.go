package storage

import "errors"

var (
	// ErrKeyNotFound is returned when the key is absent or deleted
	ErrKeyNotFound = errors.New("key not found")

	// ErrCorruptedSegment is returned when a sealed segment cannot be decoded
	ErrCorruptedSegment = errors.New("corrupted WAL segment")
)
