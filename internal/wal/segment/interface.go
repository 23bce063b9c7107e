package segment

// Segment is a single append-only WAL file open for writing
type Segment interface {
	ID() string
	Write(p []byte) (int, error)
	Sync() error
	Truncate(size uint64) error
	Close() error
	Size() uint64
}
