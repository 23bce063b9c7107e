package memtable

import "bytes"

// Vector is an append-only, array-backed memtable. Lookups scan from the
// newest entry backwards, so the last write for a key always wins.
type Vector[K Entry] struct {
	store []K
}

// NewVector creates an empty Vector memtable
func NewVector[K Entry]() *Vector[K] {
	return &Vector[K]{}
}

// Insert appends e unconditionally
func (v *Vector[K]) Insert(e K) {
	v.store = append(v.store, e)
}

// Delete marks e as deleted and appends it. Older versions stay in the store
// but become unreachable.
func (v *Vector[K]) Delete(e K) {
	e.MarkDeleted()
	v.store = append(v.store, e)
}

// Find returns the most recent entry for key. The scan stops at the first
// match, so a tombstone hides every older version of the key.
func (v *Vector[K]) Find(key []byte) (K, error) {
	var zero K

	for i := len(v.store) - 1; i >= 0; i-- {
		e := v.store[i]
		if !bytes.Equal(e.Key(), key) {
			continue
		}
		if e.IsDeleted() {
			return zero, ErrNotFound
		}

		return e, nil
	}

	return zero, ErrNotFound
}

// Len returns the number of stored entries, tombstones and shadowed versions included
func (v *Vector[K]) Len() int {
	return len(v.store)
}
