package wal

import (
	"errors"

	"github.com/8thgencore/ledgerkv/internal/wal/segment"
)

var (
	// ErrWALClosed returned when trying to operate on closed WAL
	ErrWALClosed = errors.New("WAL already closed")

	// ErrWALFailed returned after a failed append could not be rolled back
	ErrWALFailed = errors.New("WAL is in a failed state")

	// ErrInvalidSegmentID returned when a segment identifier cannot name a segment file
	ErrInvalidSegmentID = segment.ErrInvalidID
)
