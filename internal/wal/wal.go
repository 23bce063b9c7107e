package wal

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/8thgencore/ledgerkv/internal/config"
	"github.com/8thgencore/ledgerkv/internal/wal/segment"
	"github.com/8thgencore/ledgerkv/pkg/logger/sl"
)

// Service represents the Write-Ahead Log. It is meant for a single writer
// and does no locking of its own.
type Service struct {
	log       *slog.Logger
	directory string
	metadata  *metadata
	active    segment.Segment
	closed    bool
	// failure is set when the active segment holds bytes of a rejected append
	failure error
}

// New opens the WAL in cfg.DataDirectory, creating the directory and the
// metadata file if needed. No segment is active until the first write.
func New(log *slog.Logger, cfg config.WALConfig) (*Service, error) {
	if err := os.MkdirAll(cfg.DataDirectory, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create WAL directory: %w", err)
	}

	meta, repaired, err := openMetadata(cfg.DataDirectory, cfg.SyncMetadata)
	if err != nil {
		return nil, err
	}

	log = log.With("component", "wal")
	if repaired {
		log.Warn("Dropped partial segment identifier from metadata file")
	}

	return &Service{
		log:       log,
		directory: cfg.DataDirectory,
		metadata:  meta,
	}, nil
}

// NewLogFile creates a new segment, records it in the metadata file and makes
// it the active segment. The previous active segment is sealed.
func (w *Service) NewLogFile() (string, error) {
	if err := w.check(); err != nil {
		return "", err
	}

	id := segment.NewID()
	seg, err := segment.Create(w.directory, id)
	if err != nil {
		return "", err
	}

	if err := w.metadata.append(id); err != nil {
		if closeErr := seg.Close(); closeErr != nil {
			w.log.Error("Failed to close unrecorded segment", "segment", id, sl.Err(closeErr))
		}
		return "", err
	}

	// every append was synced, so nothing is lost if the old handle fails to close
	if w.active != nil {
		if err := w.active.Close(); err != nil {
			w.log.Error("Failed to close sealed segment", "segment", w.active.ID(), sl.Err(err))
		}
	}
	w.active = seg

	w.log.Debug("Created new segment", "segment", id)

	return id, nil
}

func (w *Service) check() error {
	if w.closed {
		return ErrWALClosed
	}
	if w.failure != nil {
		return fmt.Errorf("%w: %w", ErrWALFailed, w.failure)
	}

	return nil
}

// AppendLog writes entry to the active segment and syncs it to stable storage
// before returning. If there was no active segment one is created and its
// identifier returned; otherwise the returned identifier is empty.
// A failed append is cut back out of the segment.
func (w *Service) AppendLog(entry []byte) (string, error) {
	if err := w.check(); err != nil {
		return "", err
	}

	var created string
	if w.active == nil {
		id, err := w.NewLogFile()
		if err != nil {
			return "", err
		}
		created = id
	}

	size := w.active.Size()

	if _, err := w.active.Write(entry); err != nil {
		err = fmt.Errorf("failed to append to segment %s: %w", w.active.ID(), err)
		return "", w.rollback(size, err)
	}

	if err := w.active.Sync(); err != nil {
		err = fmt.Errorf("failed to sync segment %s: %w", w.active.ID(), err)
		return "", w.rollback(size, err)
	}

	return created, nil
}

// rollback truncates the active segment to size after a failed append. If
// that fails too the WAL refuses further writes, so the damaged segment stays
// the last one and is repaired on the next recovery.
func (w *Service) rollback(size uint64, cause error) error {
	if err := w.active.Truncate(size); err != nil {
		w.log.Error("Failed to roll back segment", "segment", w.active.ID(), sl.Err(err))
		w.failure = err
		return multierror.Append(cause, err)
	}

	return cause
}

// ReadLog opens the segment id read-only. It does not touch the active segment.
func (w *Service) ReadLog(id string) (*SegmentReader, error) {
	file, err := segment.Open(w.directory, id)
	if err != nil {
		return nil, err
	}

	return NewSegmentReader(file), nil
}

// RepairLog truncates the sealed segment id to size bytes, recreating it
// empty if it is missing. It is meant for recovery before the first append.
func (w *Service) RepairLog(id string, size int64) error {
	if w.closed {
		return ErrWALClosed
	}
	if id == w.ActiveSegment() {
		return fmt.Errorf("cannot repair active segment %s", id)
	}

	if err := segment.Repair(w.directory, id, size); err != nil {
		return err
	}

	w.log.Warn("Repaired segment", "segment", id, "size", size)

	return nil
}

// Segments returns every segment identifier in creation order
func (w *Service) Segments() ([]string, error) {
	return w.metadata.list()
}

// ActiveSegment returns the identifier of the active segment, or "" if there is none
func (w *Service) ActiveSegment() string {
	if w.active == nil {
		return ""
	}

	return w.active.ID()
}

// ActiveSize returns the number of bytes appended to the active segment
func (w *Service) ActiveSize() uint64 {
	if w.active == nil {
		return 0
	}

	return w.active.Size()
}

// Close releases the active segment and the metadata file
func (w *Service) Close() error {
	if w.closed {
		return ErrWALClosed
	}
	w.closed = true

	var result *multierror.Error

	if w.active != nil {
		if err := w.active.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close active segment: %w", err))
		}
		w.active = nil
	}

	if err := w.metadata.close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("failed to close metadata file: %w", err))
	}

	return result.ErrorOrNil()
}
