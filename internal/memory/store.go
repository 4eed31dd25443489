package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Store persists snapshots to a single file.
type Store struct {
	path        string
	compression Compression
	logger      *zap.Logger
	mu          sync.Mutex
}

// NewStore creates a store writing to path. An empty path disables
// persistence: Save discards and Load returns an empty snapshot.
func NewStore(path string, c Compression, logger *zap.Logger) *Store {
	return &Store{
		path:        path,
		compression: c,
		logger:      logger.With(zap.String("component", "memory-store")),
	}
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Compression returns the compression Save applies.
func (s *Store) Compression() Compression {
	return s.compression
}

// Load reads the snapshot file. A missing file yields an empty snapshot.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.path == "" {
		return &Snapshot{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("No snapshot on disk, starting empty", zap.String("path", s.path))
		return &Snapshot{}, nil
	}
	if err != nil {
		return nil, &SnapshotError{Op: "load", Path: s.path, Err: err}
	}

	snap, err := Decode(data)
	if err != nil {
		return nil, &SnapshotError{Op: "load", Path: s.path, Err: err}
	}

	s.logger.Info("Loaded snapshot",
		zap.Uint64("tick", snap.Tick),
		zap.Int("objects", len(snap.Objects)),
		zap.Int("bytes", len(data)))
	return snap, nil
}

// Save writes snap atomically: the file is either the previous snapshot or
// the new one, never a partial write.
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.path == "" {
		return nil
	}

	data, err := Encode(snap, s.compression)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &SnapshotError{Op: "save", Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &SnapshotError{Op: "save", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &SnapshotError{Op: "save", Path: s.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &SnapshotError{Op: "save", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &SnapshotError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &SnapshotError{Op: "save", Path: s.path, Err: err}
	}

	s.logger.Debug("Saved snapshot",
		zap.Uint64("tick", snap.Tick),
		zap.Int("objects", len(snap.Objects)),
		zap.Int("bytes", len(data)),
		zap.Stringer("compression", s.compression))
	return nil
}
