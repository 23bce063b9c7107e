package memtable

import "fmt"

// Supported memtable types
const (
	TypeVector  = "vector"
	TypeSkipMap = "skipmap"
)

// New creates a memtable of the given type. An empty type selects Vector.
func New[K Entry](kind string) (Memtable[K], error) {
	switch kind {
	case "", TypeVector:
		return NewVector[K](), nil
	case TypeSkipMap:
		return NewSkip[K](), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
}
