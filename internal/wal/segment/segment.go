package segment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File is a WAL segment opened for appending
type File struct {
	file *os.File
	id   string
	size uint64
}

// Create creates the segment file id inside directory. The file must not exist yet.
func Create(directory, id string) (*File, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	path := filepath.Join(directory, id)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create segment file: %w", err)
	}

	return &File{
		file: file,
		id:   id,
	}, nil
}

// Open opens an existing segment read-only. An identifier that cannot name a
// segment is reported as not existing.
func Open(directory, id string) (*os.File, error) {
	if err := ValidateID(id); err != nil {
		return nil, fmt.Errorf("%w: %w", fs.ErrNotExist, err)
	}

	path := filepath.Clean(filepath.Join(directory, id))
	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open segment %s: %w", id, err)
	}

	return file, nil
}

// Repair cuts the sealed segment id down to size bytes and syncs it. A missing
// segment is created empty.
func Repair(directory, id string, size int64) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	path := filepath.Join(directory, id)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open segment %s for repair: %w", id, err)
	}
	defer file.Close()

	if err := file.Truncate(size); err != nil {
		return fmt.Errorf("failed to truncate segment %s: %w", id, err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync segment %s: %w", id, err)
	}

	return nil
}

// ID returns the segment identifier
func (s *File) ID() string {
	return s.id
}

// Write appends p to the segment and updates its size
func (s *File) Write(p []byte) (int, error) {
	if s.file == nil {
		return 0, os.ErrClosed
	}

	n, err := s.file.Write(p)
	s.size += uint64(n)
	if err != nil {
		return n, fmt.Errorf("failed to write segment: %w", err)
	}

	return n, nil
}

// Sync forces written data to stable storage
func (s *File) Sync() error {
	if s.file == nil {
		return nil
	}

	if err := syncData(s.file); err != nil {
		return fmt.Errorf("failed to sync segment: %w", err)
	}

	return nil
}

// Truncate discards everything after the first size bytes
func (s *File) Truncate(size uint64) error {
	if s.file == nil {
		return os.ErrClosed
	}

	if err := s.file.Truncate(int64(size)); err != nil {
		return fmt.Errorf("failed to truncate segment: %w", err)
	}
	s.size = size

	if err := syncData(s.file); err != nil {
		return fmt.Errorf("failed to sync segment: %w", err)
	}

	return nil
}

// Close closes the segment file. Closing twice is a no-op.
func (s *File) Close() error {
	if s.file == nil {
		return nil
	}

	err := s.file.Close()
	s.file = nil
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("failed to close segment: %w", err)
	}

	return nil
}

// Size returns the number of bytes written through this handle
func (s *File) Size() uint64 {
	return s.size
}
