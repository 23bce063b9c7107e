package memtable

import "errors"

var (
	// ErrNotFound is returned when a key is absent or shadowed by a tombstone
	ErrNotFound = errors.New("key not found")

	// ErrUnknownType is returned by New for an unsupported memtable type
	ErrUnknownType = errors.New("unknown memtable type")
)
