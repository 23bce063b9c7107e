package wal

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/8thgencore/ledgerkv/internal/wal/segment"
)

// metadata is the append-only list of segment identifiers in creation order
type metadata struct {
	file *os.File
	path string
	sync bool
}

// openMetadata opens or creates the metadata file in append mode. A final
// line without its newline is cut off first and reported through repaired.
func openMetadata(directory string, sync bool) (meta *metadata, repaired bool, err error) {
	path := filepath.Join(directory, segment.MetadataName)

	repaired, err = truncatePartialLine(path)
	if err != nil {
		return nil, false, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open metadata file: %w", err)
	}

	return &metadata{
		file: file,
		path: path,
		sync: sync,
	}, repaired, nil
}

// truncatePartialLine drops an identifier whose write was interrupted
func truncatePartialLine(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read metadata file: %w", err)
	}

	if len(data) == 0 || data[len(data)-1] == '\n' {
		return false, nil
	}

	size := int64(bytes.LastIndexByte(data, '\n') + 1)
	if err := os.Truncate(path, size); err != nil {
		return false, fmt.Errorf("failed to truncate metadata file: %w", err)
	}

	return true, nil
}

// append records a new segment identifier
func (m *metadata) append(id string) error {
	if _, err := m.file.WriteString(id + "\n"); err != nil {
		return fmt.Errorf("failed to append to metadata file: %w", err)
	}

	if m.sync {
		if err := m.file.Sync(); err != nil {
			return fmt.Errorf("failed to sync metadata file: %w", err)
		}
	}

	return nil
}

// list reads every recorded identifier in the order they were appended
func (m *metadata) list() ([]string, error) {
	file, err := os.Open(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	var ids []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	return ids, nil
}

func (m *metadata) close() error {
	return m.file.Close()
}
