package wal

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/8thgencore/ledgerkv/internal/config"
	"github.com/8thgencore/ledgerkv/internal/wal/segment"
	"github.com/8thgencore/ledgerkv/internal/wal/segment/mocks"
)

// testWAL represents test helper struct
type testWAL struct {
	wal *Service
	cfg config.WALConfig
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// setupWAL creates a new WAL instance with temporary directory for testing
func setupWAL(t *testing.T) *testWAL {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "wal_test_*")
	require.NoError(t, err)

	cfg := config.WALConfig{
		DataDirectory: tempDir,
		SyncMetadata:  true,
	}

	w, err := New(testLogger(), cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = w.Close()
		os.RemoveAll(tempDir)
	})

	return &testWAL{
		wal: w,
		cfg: cfg,
	}
}

func readMetadata(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, segment.MetadataName))
	require.NoError(t, err)
	return string(data)
}

func TestNew(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "wal")

		w, err := New(testLogger(), config.WALConfig{DataDirectory: dir})
		require.NoError(t, err)
		defer w.Close()

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, "", readMetadata(t, dir))
		assert.Empty(t, w.ActiveSegment())
	})

	t.Run("reopen keeps metadata", func(t *testing.T) {
		tw := setupWAL(t)

		id, err := tw.wal.NewLogFile()
		require.NoError(t, err)
		require.NoError(t, tw.wal.Close())

		w, err := New(testLogger(), tw.cfg)
		require.NoError(t, err)
		defer w.Close()

		assert.Equal(t, id+"\n", readMetadata(t, tw.cfg.DataDirectory))
		ids, err := w.Segments()
		require.NoError(t, err)
		assert.Equal(t, []string{id}, ids)
		assert.Empty(t, w.ActiveSegment())
	})

	t.Run("drops partial last line", func(t *testing.T) {
		dir := t.TempDir()
		err := os.WriteFile(filepath.Join(dir, segment.MetadataName), []byte("a.wal\nb.w"), 0o600)
		require.NoError(t, err)

		w, err := New(testLogger(), config.WALConfig{DataDirectory: dir})
		require.NoError(t, err)
		defer w.Close()

		assert.Equal(t, "a.wal\n", readMetadata(t, dir))

		id, err := w.NewLogFile()
		require.NoError(t, err)
		ids, err := w.Segments()
		require.NoError(t, err)
		assert.Equal(t, []string{"a.wal", id}, ids)
	})

	t.Run("invalid directory", func(t *testing.T) {
		w, err := New(testLogger(), config.WALConfig{DataDirectory: "/proc/nonexistent"})
		assert.Error(t, err)
		assert.Nil(t, w)
	})
}

func TestAppendLog(t *testing.T) {
	t.Run("first append creates segment", func(t *testing.T) {
		tw := setupWAL(t)

		id, err := tw.wal.AppendLog([]byte("Testing a log\n"))
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, tw.wal.ActiveSegment())

		for i := 0; i < 3; i++ {
			next, err := tw.wal.AppendLog([]byte("another log\n"))
			require.NoError(t, err)
			assert.Empty(t, next)
		}

		ids, err := tw.wal.Segments()
		require.NoError(t, err)
		assert.Equal(t, []string{id}, ids)
		assert.Equal(t, uint64(14+3*12), tw.wal.ActiveSize())
	})

	t.Run("append after explicit new log file", func(t *testing.T) {
		tw := setupWAL(t)

		id, err := tw.wal.NewLogFile()
		require.NoError(t, err)

		created, err := tw.wal.AppendLog([]byte("entry"))
		require.NoError(t, err)
		assert.Empty(t, created)

		data, err := os.ReadFile(filepath.Join(tw.cfg.DataDirectory, id))
		require.NoError(t, err)
		assert.Equal(t, "entry", string(data))
	})

	t.Run("data is on disk when append returns", func(t *testing.T) {
		tw := setupWAL(t)

		id, err := tw.wal.AppendLog([]byte("durable"))
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(tw.cfg.DataDirectory, id))
		require.NoError(t, err)
		assert.Equal(t, "durable", string(data))
	})

	t.Run("append after close", func(t *testing.T) {
		tw := setupWAL(t)
		require.NoError(t, tw.wal.Close())

		_, err := tw.wal.AppendLog([]byte("late"))
		assert.ErrorIs(t, err, ErrWALClosed)
	})
}

func TestAppendLog_Errors(t *testing.T) {
	t.Run("error on segment write", func(t *testing.T) {
		tw := setupWAL(t)

		writeErr := errors.New("write error")
		mock := &mocks.MockSegment{IDValue: "mock.wal", WriteErr: writeErr}
		tw.wal.active = mock

		id, err := tw.wal.AppendLog([]byte("entry"))
		assert.ErrorIs(t, err, writeErr)
		assert.Empty(t, id)
		assert.Zero(t, mock.Synced)
	})

	t.Run("error on segment sync", func(t *testing.T) {
		tw := setupWAL(t)

		syncErr := errors.New("sync error")
		mock := &mocks.MockSegment{IDValue: "mock.wal", Data: []byte("old"), SyncErr: syncErr}
		tw.wal.active = mock

		_, err := tw.wal.AppendLog([]byte("entry"))
		assert.ErrorIs(t, err, syncErr)
		assert.Equal(t, "old", string(mock.Data))
	})

	t.Run("short write is rolled back", func(t *testing.T) {
		tw := setupWAL(t)

		writeErr := errors.New("no space left")
		mock := &mocks.MockSegment{IDValue: "mock.wal", Data: []byte("old"), WriteErr: writeErr, ShortWrite: 3}
		tw.wal.active = mock

		_, err := tw.wal.AppendLog([]byte("entry"))
		assert.ErrorIs(t, err, writeErr)
		assert.Equal(t, "old", string(mock.Data))

		mock.WriteErr = nil
		_, err = tw.wal.AppendLog([]byte("next"))
		require.NoError(t, err)
		assert.Equal(t, "oldnext", string(mock.Data))
	})

	t.Run("failed rollback stops further writes", func(t *testing.T) {
		tw := setupWAL(t)

		writeErr := errors.New("write error")
		truncateErr := errors.New("truncate error")
		mock := &mocks.MockSegment{IDValue: "mock.wal", WriteErr: writeErr, ShortWrite: 2, TruncateErr: truncateErr}
		tw.wal.active = mock

		_, err := tw.wal.AppendLog([]byte("entry"))
		assert.ErrorIs(t, err, writeErr)
		assert.ErrorIs(t, err, truncateErr)

		mock.WriteErr = nil
		_, err = tw.wal.AppendLog([]byte("next"))
		assert.ErrorIs(t, err, ErrWALFailed)

		_, err = tw.wal.NewLogFile()
		assert.ErrorIs(t, err, ErrWALFailed)
		assert.Equal(t, "mock.wal", tw.wal.ActiveSegment())
	})

	t.Run("every append is synced", func(t *testing.T) {
		tw := setupWAL(t)

		mock := &mocks.MockSegment{IDValue: "mock.wal"}
		tw.wal.active = mock

		for i := 0; i < 3; i++ {
			_, err := tw.wal.AppendLog([]byte("x"))
			require.NoError(t, err)
		}
		assert.Equal(t, 3, mock.Synced)
		assert.Equal(t, "xxx", string(mock.Data))
	})

	t.Run("error creating segment", func(t *testing.T) {
		tw := setupWAL(t)
		require.NoError(t, os.RemoveAll(tw.cfg.DataDirectory))

		_, err := tw.wal.AppendLog([]byte("entry"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.Empty(t, tw.wal.ActiveSegment())
	})
}

// failingSegment fails the next append on a real segment file
type failingSegment struct {
	*segment.File
	writeErr   error
	syncErr    error
	shortWrite int
}

func (f *failingSegment) Write(p []byte) (int, error) {
	if f.writeErr == nil {
		return f.File.Write(p)
	}
	n, err := f.File.Write(p[:f.shortWrite])
	if err != nil {
		return n, err
	}
	return n, f.writeErr
}

func (f *failingSegment) Sync() error {
	if f.syncErr != nil {
		return f.syncErr
	}
	return f.File.Sync()
}

func TestAppendLog_Rollback(t *testing.T) {
	setup := func(t *testing.T) (*testWAL, *failingSegment) {
		tw := setupWAL(t)
		id, err := tw.wal.NewLogFile()
		require.NoError(t, err)

		file, ok := tw.wal.active.(*segment.File)
		require.True(t, ok)
		failing := &failingSegment{File: file}
		tw.wal.active = failing

		_, err = tw.wal.AppendLog([]byte("first;"))
		require.NoError(t, err)
		require.Equal(t, id, tw.wal.ActiveSegment())

		return tw, failing
	}

	readSegment := func(t *testing.T, tw *testWAL) string {
		t.Helper()
		r, err := tw.wal.ReadLog(tw.wal.ActiveSegment())
		require.NoError(t, err)
		defer r.Close()

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		return string(data)
	}

	t.Run("partial write leaves no bytes behind", func(t *testing.T) {
		tw, failing := setup(t)

		failing.writeErr = errors.New("no space left")
		failing.shortWrite = 3
		_, err := tw.wal.AppendLog([]byte("lost;"))
		require.Error(t, err)

		failing.writeErr = nil
		_, err = tw.wal.AppendLog([]byte("second;"))
		require.NoError(t, err)

		assert.Equal(t, "first;second;", readSegment(t, tw))
		assert.Equal(t, uint64(len("first;second;")), tw.wal.ActiveSize())
	})

	t.Run("unsynced write is discarded", func(t *testing.T) {
		tw, failing := setup(t)

		failing.syncErr = errors.New("sync error")
		_, err := tw.wal.AppendLog([]byte("unacknowledged;"))
		require.Error(t, err)

		assert.Equal(t, "first;", readSegment(t, tw))
	})
}

func TestRepairLog(t *testing.T) {
	t.Run("truncates sealed segment", func(t *testing.T) {
		tw := setupWAL(t)

		id, err := tw.wal.AppendLog([]byte("goodtorn"))
		require.NoError(t, err)
		_, err = tw.wal.NewLogFile()
		require.NoError(t, err)

		require.NoError(t, tw.wal.RepairLog(id, 4))

		data, err := os.ReadFile(filepath.Join(tw.cfg.DataDirectory, id))
		require.NoError(t, err)
		assert.Equal(t, "good", string(data))
	})

	t.Run("refuses active segment", func(t *testing.T) {
		tw := setupWAL(t)

		id, err := tw.wal.AppendLog([]byte("data"))
		require.NoError(t, err)

		assert.Error(t, tw.wal.RepairLog(id, 0))
	})

	t.Run("repair after close", func(t *testing.T) {
		tw := setupWAL(t)
		require.NoError(t, tw.wal.Close())

		assert.ErrorIs(t, tw.wal.RepairLog(segment.NewID(), 0), ErrWALClosed)
	})
}

func TestNewLogFile(t *testing.T) {
	t.Run("metadata lists segments in creation order", func(t *testing.T) {
		tw := setupWAL(t)

		var created []string
		for i := 0; i < 4; i++ {
			id, err := tw.wal.NewLogFile()
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(id, segment.Extension))
			created = append(created, id)
		}

		ids, err := tw.wal.Segments()
		require.NoError(t, err)
		assert.Equal(t, created, ids)
		assert.Equal(t, strings.Join(created, "\n")+"\n", readMetadata(t, tw.cfg.DataDirectory))
		assert.Equal(t, created[3], tw.wal.ActiveSegment())
	})

	t.Run("previous segment is closed", func(t *testing.T) {
		tw := setupWAL(t)

		old := &mocks.MockSegment{IDValue: "old.wal"}
		tw.wal.active = old

		id, err := tw.wal.NewLogFile()
		require.NoError(t, err)
		assert.True(t, old.Closed)
		assert.Equal(t, id, tw.wal.ActiveSegment())
	})

	t.Run("close failure of previous segment does not block rotation", func(t *testing.T) {
		tw := setupWAL(t)

		tw.wal.active = &mocks.MockSegment{IDValue: "old.wal", CloseErr: errors.New("close error")}

		id, err := tw.wal.NewLogFile()
		require.NoError(t, err)
		assert.Equal(t, id, tw.wal.ActiveSegment())
	})

	t.Run("metadata failure keeps previous segment active", func(t *testing.T) {
		tw := setupWAL(t)

		old := &mocks.MockSegment{IDValue: "old.wal"}
		tw.wal.active = old
		require.NoError(t, tw.wal.metadata.close())

		_, err := tw.wal.NewLogFile()
		assert.Error(t, err)
		assert.Same(t, old, tw.wal.active)
		assert.False(t, old.Closed)
	})

	t.Run("new log file after close", func(t *testing.T) {
		tw := setupWAL(t)
		require.NoError(t, tw.wal.Close())

		_, err := tw.wal.NewLogFile()
		assert.ErrorIs(t, err, ErrWALClosed)
	})
}

func TestReadLog(t *testing.T) {
	t.Run("read sealed segment after rotation", func(t *testing.T) {
		tw := setupWAL(t)

		lines := []string{
			"Testing a log\n",
			"Testing a log1\n",
			"Testing a log2\n",
			"Testing a log3\n",
			"Testing a log4\n",
		}

		first, err := tw.wal.AppendLog([]byte(lines[0]))
		require.NoError(t, err)
		require.NotEmpty(t, first)
		for _, line := range lines[1:] {
			id, err := tw.wal.AppendLog([]byte(line))
			require.NoError(t, err)
			assert.Empty(t, id)
		}

		second, err := tw.wal.NewLogFile()
		require.NoError(t, err)
		require.NotEqual(t, first, second)

		_, err = tw.wal.AppendLog([]byte("in second segment\n"))
		require.NoError(t, err)

		r, err := tw.wal.ReadLog(first)
		require.NoError(t, err)
		defer r.Close()

		for _, want := range lines {
			got, err := r.ReadString('\n')
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		_, err = r.ReadString('\n')
		assert.ErrorIs(t, err, io.EOF)

		active, err := tw.wal.ReadLog(second)
		require.NoError(t, err)
		defer active.Close()

		got, err := active.ReadString('\n')
		require.NoError(t, err)
		assert.Equal(t, "in second segment\n", got)
	})

	t.Run("read active segment", func(t *testing.T) {
		tw := setupWAL(t)

		id, err := tw.wal.AppendLog([]byte("one\n"))
		require.NoError(t, err)

		r, err := tw.wal.ReadLog(id)
		require.NoError(t, err)
		defer r.Close()

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "one\n", string(data))
		assert.Equal(t, id, tw.wal.ActiveSegment())
	})

	t.Run("unknown segment", func(t *testing.T) {
		tw := setupWAL(t)

		r, err := tw.wal.ReadLog(segment.NewID())
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.Nil(t, r)
	})

	t.Run("invalid segment id", func(t *testing.T) {
		tw := setupWAL(t)

		_, err := tw.wal.ReadLog("../../etc/passwd")
		assert.ErrorIs(t, err, ErrInvalidSegmentID)

		_, err = tw.wal.ReadLog(segment.MetadataName)
		assert.ErrorIs(t, err, ErrInvalidSegmentID)

		// an id that cannot name a segment is also reported as not found
		_, err = tw.wal.ReadLog("id7")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestSegments(t *testing.T) {
	t.Run("empty WAL", func(t *testing.T) {
		tw := setupWAL(t)

		ids, err := tw.wal.Segments()
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("skips blank lines", func(t *testing.T) {
		dir := t.TempDir()
		err := os.WriteFile(filepath.Join(dir, segment.MetadataName), []byte("a.wal\n\nb.wal\n"), 0o600)
		require.NoError(t, err)

		w, err := New(testLogger(), config.WALConfig{DataDirectory: dir})
		require.NoError(t, err)
		defer w.Close()

		ids, err := w.Segments()
		require.NoError(t, err)
		assert.Equal(t, []string{"a.wal", "b.wal"}, ids)
	})
}

func TestClose(t *testing.T) {
	t.Run("multiple close calls", func(t *testing.T) {
		tw := setupWAL(t)

		_, err := tw.wal.AppendLog([]byte("entry"))
		require.NoError(t, err)

		require.NoError(t, tw.wal.Close())
		assert.ErrorIs(t, tw.wal.Close(), ErrWALClosed)
	})

	t.Run("close reports segment error", func(t *testing.T) {
		tw := setupWAL(t)

		closeErr := errors.New("close error")
		tw.wal.active = &mocks.MockSegment{IDValue: "mock.wal", CloseErr: closeErr}

		err := tw.wal.Close()
		assert.ErrorIs(t, err, closeErr)
	})
}
