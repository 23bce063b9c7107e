package memtable

// Entry is anything the memtable can store. The memtable never looks at the
// payload, only at the key and the tombstone flag.
type Entry interface {
	// Key returns the raw key bytes of the entry
	Key() []byte
	// MarkDeleted turns the entry into a tombstone in place
	MarkDeleted()
	// IsDeleted reports whether the entry is a tombstone
	IsDeleted() bool
}

// Memtable is an in-memory buffer of recent mutations
type Memtable[K Entry] interface {
	// Insert appends e, shadowing older versions of the same key
	Insert(e K)
	// Delete marks e as a tombstone and appends it
	Delete(e K)
	// Find returns the newest live entry for key or ErrNotFound
	Find(key []byte) (K, error)
	// Len returns the number of stored entries
	Len() int
}
