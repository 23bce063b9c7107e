package memtable

import (
	"bytes"

	"github.com/zhangyunhao116/skipmap"
)

// Skip is a memtable backed by a sorted skip map keyed by raw bytes.
// It keeps only the newest version of every key, which gives the same
// lookup results as Vector without the linear scan.
type Skip[K Entry] struct {
	m *skipmap.FuncMap[[]byte, K]
}

// NewSkip creates an empty Skip memtable
func NewSkip[K Entry]() *Skip[K] {
	return &Skip[K]{
		m: skipmap.NewFunc[[]byte, K](func(a, b []byte) bool {
			return bytes.Compare(a, b) < 0
		}),
	}
}

// Insert stores e as the newest version of its key
func (s *Skip[K]) Insert(e K) {
	s.m.Store(e.Key(), e)
}

// Delete marks e as deleted and stores it as the newest version of its key
func (s *Skip[K]) Delete(e K) {
	e.MarkDeleted()
	s.m.Store(e.Key(), e)
}

// Find returns the live entry for key or ErrNotFound
func (s *Skip[K]) Find(key []byte) (K, error) {
	var zero K

	e, ok := s.m.Load(key)
	if !ok || e.IsDeleted() {
		return zero, ErrNotFound
	}

	return e, nil
}

// Len returns the number of distinct keys, tombstones included
func (s *Skip[K]) Len() int {
	return s.m.Len()
}
