package storage

// Storage is an interface that defines the storage operations
type Storage interface {
	// Set sets a key-value pair in the storage
	Set(key, value []byte) error
	// Get gets a value from the storage
	Get(key []byte) ([]byte, error)
	// Delete deletes a key from the storage
	Delete(key []byte) error
	// Rotate starts a new WAL segment
	Rotate() (string, error)
	// Segments lists WAL segments in creation order
	Segments() ([]string, error)
}
