package mocks

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"sync"

	"github.com/8thgencore/ledgerkv/internal/wal"
)

// MockWAL is an in-memory wal.WAL for tests
type MockWAL struct {
	Segments_  []string
	Data       map[string][]byte
	AppendErr  error
	RotateErr  error
	ReadErr    error
	RepairErr  error
	CloseError error

	Appends int
	Repairs map[string]int64
	mu      sync.Mutex
	active  string
	counter int
}

var _ wal.WAL = (*MockWAL)(nil)

func NewMockWAL() *MockWAL {
	return &MockWAL{
		Data: make(map[string][]byte),
	}
}

func (m *MockWAL) NewLogFile() (string, error) {
	if m.RotateErr != nil {
		return "", m.RotateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	id := fmt.Sprintf("segment-%d.wal", m.counter)
	m.Segments_ = append(m.Segments_, id)
	m.Data[id] = nil
	m.active = id
	return id, nil
}

func (m *MockWAL) AppendLog(entry []byte) (string, error) {
	if m.AppendErr != nil {
		return "", m.AppendErr
	}
	var created string
	if m.active == "" {
		id, err := m.NewLogFile()
		if err != nil {
			return "", err
		}
		created = id
	}
	m.mu.Lock()
	m.Data[m.active] = append(m.Data[m.active], entry...)
	m.Appends++
	m.mu.Unlock()
	return created, nil
}

func (m *MockWAL) ReadLog(id string) (*wal.SegmentReader, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	m.mu.Lock()
	data, ok := m.Data[id]
	m.mu.Unlock()
	if !ok {
		return nil, fs.ErrNotExist
	}
	return wal.NewSegmentReader(io.NopCloser(bytes.NewReader(data))), nil
}

func (m *MockWAL) RepairLog(id string, size int64) error {
	if m.RepairErr != nil {
		return m.RepairErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Repairs == nil {
		m.Repairs = make(map[string]int64)
	}
	m.Repairs[id] = size
	data := m.Data[id]
	if int64(len(data)) > size {
		data = data[:size]
	}
	m.Data[id] = data
	return nil
}

func (m *MockWAL) Segments() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Segments_...), nil
}

func (m *MockWAL) ActiveSize() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint64(len(m.Data[m.active]))
}

func (m *MockWAL) Close() error {
	return m.CloseError
}
