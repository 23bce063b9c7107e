// Package record holds the key-value record stored in the memtable and its
// binary form inside WAL segments.
package record

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Operation defines the type of mutation a record carries
type Operation byte

const (
	// OperationSet stores a value for a key
	OperationSet Operation = 1
	// OperationDelete marks a key as deleted
	OperationDelete Operation = 2
)

// MaxFieldSize bounds key and value length so a corrupted length prefix
// cannot trigger a huge allocation.
const MaxFieldSize = 64 << 20

// Record is a single key-value mutation
type Record struct {
	key     []byte
	value   []byte
	deleted bool
}

// New creates a live record
func New(key, value []byte) *Record {
	return &Record{key: key, value: value}
}

// NewTombstone creates a deleted record for key
func NewTombstone(key []byte) *Record {
	return &Record{key: key, deleted: true}
}

// Key returns the record key
func (r *Record) Key() []byte {
	return r.key
}

// Value returns the record value, nil for tombstones
func (r *Record) Value() []byte {
	return r.value
}

// MarkDeleted turns the record into a tombstone
func (r *Record) MarkDeleted() {
	r.deleted = true
	r.value = nil
}

// IsDeleted reports whether the record is a tombstone
func (r *Record) IsDeleted() bool {
	return r.deleted
}

// Operation returns the operation the record encodes
func (r *Record) Operation() Operation {
	if r.deleted {
		return OperationDelete
	}

	return OperationSet
}

// WriteTo writes the record to w:
// op(1) | keyLen(4) | key | valueLen(4) | value, the value part only for sets.
func (r *Record) WriteTo(w io.Writer) (int64, error) {
	if len(r.key) > MaxFieldSize || len(r.value) > MaxFieldSize {
		return 0, ErrFieldTooLarge
	}

	size := 1 + 4 + len(r.key)
	if !r.deleted {
		size += 4 + len(r.value)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, byte(r.Operation()))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(r.key)))
	buf = append(buf, r.key...)
	if !r.deleted {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(r.value)))
		buf = append(buf, r.value...)
	}

	n, err := w.Write(buf)

	return int64(n), err
}

// MarshalBinary returns the encoded record
func (r *Record) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ReadFrom reads a record from r. It returns io.EOF only when r is exhausted
// before the first byte; a record cut short returns io.ErrUnexpectedEOF.
func (r *Record) ReadFrom(rd io.Reader) (int64, error) {
	var total int64

	// Read operation type
	opByte := make([]byte, 1)
	n, err := io.ReadFull(rd, opByte)
	total += int64(n)
	if err != nil {
		return total, err
	}

	op := Operation(opByte[0])
	if op != OperationSet && op != OperationDelete {
		return total, fmt.Errorf("%w: %d", ErrUnknownOperation, op)
	}

	key, n64, err := readField(rd)
	total += n64
	if err != nil {
		return total, err
	}

	r.key = key
	r.value = nil
	r.deleted = op == OperationDelete

	if op == OperationSet {
		value, n64, err := readField(rd)
		total += n64
		if err != nil {
			return total, err
		}
		r.value = value
	}

	return total, nil
}

// readField reads a length-prefixed byte field
func readField(rd io.Reader) ([]byte, int64, error) {
	var total int64

	buf := make([]byte, 4)
	n, err := io.ReadFull(rd, buf)
	total += int64(n)
	if err != nil {
		return nil, total, unexpected(err)
	}

	size := binary.LittleEndian.Uint32(buf)
	if size > MaxFieldSize {
		return nil, total, fmt.Errorf("%w: %d bytes", ErrFieldTooLarge, size)
	}

	data := make([]byte, size)
	n, err = io.ReadFull(rd, data)
	total += int64(n)
	if err != nil {
		return nil, total, unexpected(err)
	}

	return data, total, nil
}

// unexpected converts io.EOF inside a record into io.ErrUnexpectedEOF
func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}

	return err
}

// ReadRecord reads a single record from r
func ReadRecord(r io.Reader) (*Record, error) {
	rec := &Record{}
	if _, err := rec.ReadFrom(r); err != nil {
		return nil, err
	}

	return rec, nil
}
