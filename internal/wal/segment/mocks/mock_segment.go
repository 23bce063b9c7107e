package mocks

// MockSegment is a test helper that implements segment.Segment interface
type MockSegment struct {
	IDValue     string
	WriteErr    error
	SyncErr     error
	TruncateErr error
	CloseErr    error

	// ShortWrite is how many bytes reach Data before WriteErr is returned
	ShortWrite int

	Data   []byte
	Synced int
	Closed bool
}

func (m *MockSegment) ID() string {
	return m.IDValue
}

func (m *MockSegment) Write(p []byte) (int, error) {
	if m.WriteErr != nil {
		n := min(m.ShortWrite, len(p))
		m.Data = append(m.Data, p[:n]...)
		return n, m.WriteErr
	}
	m.Data = append(m.Data, p...)
	return len(p), nil
}

func (m *MockSegment) Sync() error {
	if m.SyncErr != nil {
		return m.SyncErr
	}
	m.Synced++
	return nil
}

func (m *MockSegment) Truncate(size uint64) error {
	if m.TruncateErr != nil {
		return m.TruncateErr
	}
	m.Data = m.Data[:size]
	return nil
}

func (m *MockSegment) Close() error {
	m.Closed = true
	return m.CloseErr
}

func (m *MockSegment) Size() uint64 {
	return uint64(len(m.Data))
}
