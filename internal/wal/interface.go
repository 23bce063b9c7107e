package wal

// WAL represents the interface for Write-Ahead Log operations
type WAL interface {
	// NewLogFile starts a new active segment and returns its identifier
	NewLogFile() (string, error)
	// AppendLog durably appends entry to the active segment. It returns the
	// identifier of a segment created for this write, or "" if none was.
	AppendLog(entry []byte) (string, error)
	// ReadLog opens the segment id for sequential reading
	ReadLog(id string) (*SegmentReader, error)
	// RepairLog cuts a sealed segment back to size bytes, creating it empty if missing
	RepairLog(id string, size int64) error
	// Segments lists segment identifiers in creation order
	Segments() ([]string, error)
	// ActiveSize returns the bytes appended to the active segment
	ActiveSize() uint64
	Close() error
}
