package segment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Extension is the suffix of every WAL file
const Extension = ".wal"

// MetadataName is the name of the file listing segments in creation order
const MetadataName = "metadata" + Extension

// ErrInvalidID is returned for identifiers that cannot name a segment file
var ErrInvalidID = errors.New("invalid segment id")

// NewID generates a fresh segment identifier. Identifiers carry no ordering.
func NewID() string {
	return uuid.NewString() + Extension
}

// ValidateID checks that id names a segment file inside the WAL directory
func ValidateID(id string) error {
	switch {
	case id == "", id == MetadataName:
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	case !strings.HasSuffix(id, Extension):
		return fmt.Errorf("%w: %q has no %s suffix", ErrInvalidID, id, Extension)
	case strings.ContainsAny(id, `/\`), strings.Contains(id, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	return nil
}
