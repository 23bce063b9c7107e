package wal

import (
	"bufio"
	"io"
)

// SegmentReader is a buffered reader over a single segment, positioned at its start
type SegmentReader struct {
	*bufio.Reader
	closer io.Closer
}

// NewSegmentReader wraps rc in a buffered SegmentReader
func NewSegmentReader(rc io.ReadCloser) *SegmentReader {
	return &SegmentReader{
		Reader: bufio.NewReader(rc),
		closer: rc,
	}
}

// Close releases the underlying segment file
func (r *SegmentReader) Close() error {
	return r.closer.Close()
}
