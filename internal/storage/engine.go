package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/8thgencore/ledgerkv/internal/config"
	"github.com/8thgencore/ledgerkv/internal/memtable"
	"github.com/8thgencore/ledgerkv/internal/record"
	"github.com/8thgencore/ledgerkv/internal/wal"
	"github.com/8thgencore/ledgerkv/pkg/logger/sl"
)

// Engine is a struct that represents the storage engine
type Engine struct {
	log            *slog.Logger
	wal            wal.WAL
	table          memtable.Memtable[*record.Record]
	maxSegmentSize uint64
	mu             sync.RWMutex
}

// NewEngine creates a new Engine and rebuilds its memtable from the WAL
func NewEngine(log *slog.Logger, cfg *config.Config, w wal.WAL) (*Engine, error) {
	table, err := memtable.New[*record.Record](cfg.Memtable.Type)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		log:            log.With("component", "storage"),
		wal:            w,
		table:          table,
		maxSegmentSize: cfg.WAL.MaxSegmentSizeBytes,
	}

	if err := e.recover(); err != nil {
		return nil, fmt.Errorf("failed to recover from WAL: %w", err)
	}

	return e, nil
}

// recover replays every segment in creation order into the memtable
func (e *Engine) recover() error {
	ids, err := e.wal.Segments()
	if err != nil {
		return err
	}

	var applied int
	for i, id := range ids {
		n, good, err := e.replaySegment(id)
		applied += n
		if err == nil {
			continue
		}

		// a torn record or a lost segment file at the very end was never
		// acknowledged; cut it off so the segment stays valid once it is sealed
		if i == len(ids)-1 && isTornTail(err) {
			e.log.Warn("Repairing truncated WAL tail", "segment", id, "offset", good, sl.Err(err))
			if err := e.wal.RepairLog(id, good); err != nil {
				return fmt.Errorf("failed to repair segment %s: %w", id, err)
			}
			break
		}

		return err
	}

	e.log.Info("Recovered from WAL", "segments", len(ids), "records", applied, "entries", e.table.Len())

	return nil
}

func isTornTail(err error) bool {
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, fs.ErrNotExist)
}

// replaySegment applies every record of one segment. It returns how many
// records were applied and the offset just past the last complete one.
func (e *Engine) replaySegment(id string) (applied int, offset int64, err error) {
	r, err := e.wal.ReadLog(id)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err := r.Close(); err != nil {
			e.log.Error("Failed to close segment reader", "segment", id, sl.Err(err))
		}
	}()

	for {
		rec := &record.Record{}
		n, err := rec.ReadFrom(r)
		if errors.Is(err, io.EOF) {
			return applied, offset, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return applied, offset, fmt.Errorf("segment %s: %w", id, err)
		}
		if err != nil {
			return applied, offset, fmt.Errorf("%w %s: %w", ErrCorruptedSegment, id, err)
		}

		e.apply(rec)
		applied++
		offset += n
	}
}

func (e *Engine) apply(rec *record.Record) {
	if rec.IsDeleted() {
		e.table.Delete(rec)
		return
	}
	e.table.Insert(rec)
}

// write makes rec durable in the WAL and only then applies it to the memtable
func (e *Engine) write(rec *record.Record) error {
	data, err := rec.MarshalBinary()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id, err := e.wal.AppendLog(data)
	if err != nil {
		return fmt.Errorf("failed to write to WAL: %w", err)
	}
	if id != "" {
		e.log.Debug("Started new WAL segment", "segment", id)
	}

	e.apply(rec)

	if e.maxSegmentSize > 0 && e.wal.ActiveSize() >= e.maxSegmentSize {
		// the write is already durable, a failed rotation only delays the next segment
		if _, err := e.wal.NewLogFile(); err != nil {
			e.log.Error("Failed to rotate WAL segment", sl.Err(err))
		}
	}

	return nil
}

// Set sets a key-value pair in the engine
func (e *Engine) Set(key, value []byte) error {
	return e.write(record.New(bytes.Clone(key), bytes.Clone(value)))
}

// Delete deletes a key from the engine
func (e *Engine) Delete(key []byte) error {
	return e.write(record.NewTombstone(bytes.Clone(key)))
}

// Get gets a value from the engine
func (e *Engine) Get(key []byte) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rec, err := e.table.Find(key)
	if errors.Is(err, memtable.ErrNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}

	return rec.Value(), nil
}

// Rotate seals the active WAL segment and starts a new one
func (e *Engine) Rotate() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.wal.NewLogFile()
}

// Segments lists WAL segments in creation order
func (e *Engine) Segments() ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.wal.Segments()
}

// Close closes the underlying WAL
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.wal.Close()
}
