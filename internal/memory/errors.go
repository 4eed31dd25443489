package memory

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic is returned when a blob does not start with the snapshot magic.
	ErrBadMagic = errors.New("not a memory snapshot")
	// ErrChecksum is returned when the payload hash does not match the header.
	ErrChecksum = errors.New("snapshot checksum mismatch")
)

// VersionError reports a snapshot written by an unsupported format version.
type VersionError struct {
	Version uint8
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("unsupported snapshot version %d (want %d)", e.Version, FormatVersion)
}

// SnapshotError wraps a failure while encoding, decoding or persisting a
// snapshot.
type SnapshotError struct {
	Op   string
	Path string
	Err  error
}

func (e *SnapshotError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("snapshot %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("snapshot %s: %v", e.Op, e.Err)
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}
