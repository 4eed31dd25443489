// Package memory persists bot save-state between ticks and restarts.
//
// A snapshot is encoded as deterministic CBOR, optionally compressed, and
// wrapped in a small frame:
//
//	"SCRM" | version | compression | blake3-256(payload) | payload
//
// Positions are stored packed and object ids in their 13-byte binary form, so
// identical snapshots always produce identical bytes.
package memory

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"github.com/woxQAQ/screeps-go/pkg/objectid"
	"github.com/woxQAQ/screeps-go/pkg/position"
)

const (
	// FormatVersion is the frame version written by Encode.
	FormatVersion uint8 = 1

	magic      = "SCRM"
	hashSize   = 32
	headerSize = len(magic) + 2 + hashSize
)

// Entry records one tracked game object.
type Entry struct {
	ID   objectid.RawID
	Pos  position.Position
	Kind string
}

// Snapshot is the persisted state of a host at a given tick.
type Snapshot struct {
	Tick    uint64
	Objects []Entry
}

// Lookup returns the entry with the given id.
func (s *Snapshot) Lookup(id objectid.RawID) (Entry, bool) {
	for _, e := range s.Objects {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Put inserts or replaces the entry with e.ID. It scans Objects; use a
// Recorder to accumulate many entries.
func (s *Snapshot) Put(e Entry) {
	for i := range s.Objects {
		if s.Objects[i].ID == e.ID {
			s.Objects[i] = e
			return
		}
	}
	s.Objects = append(s.Objects, e)
}

type wireEntry struct {
	ID   objectid.RawID `cbor:"1,keyasint"`
	Pos  uint32         `cbor:"2,keyasint"`
	Kind string         `cbor:"3,keyasint,omitempty"`
}

type wireSnapshot struct {
	Tick    uint64      `cbor:"1,keyasint"`
	Objects []wireEntry `cbor:"2,keyasint,omitempty"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("memory: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		MaxArrayElements: 1 << 20,
	}.DecMode()
	if err != nil {
		panic("memory: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encode serializes s. Entries are written in id order regardless of their
// order in s.Objects.
func Encode(s *Snapshot, c Compression) ([]byte, error) {
	w := wireSnapshot{Tick: s.Tick}
	if len(s.Objects) > 0 {
		w.Objects = make([]wireEntry, len(s.Objects))
		for i, e := range s.Objects {
			w.Objects[i] = wireEntry{ID: e.ID, Pos: e.Pos.Packed(), Kind: e.Kind}
		}
		slices.SortStableFunc(w.Objects, func(a, b wireEntry) int {
			return a.ID.Compare(b.ID)
		})
	}

	raw, err := encMode.Marshal(w)
	if err != nil {
		return nil, &SnapshotError{Op: "encode", Err: err}
	}
	payload, err := compress(raw, c)
	if err != nil {
		return nil, &SnapshotError{Op: "encode", Err: err}
	}
	return frame(payload, c), nil
}

func frame(payload []byte, c Compression) []byte {
	sum := blake3.Sum256(payload)
	out := make([]byte, 0, headerSize+len(payload))
	out = append(out, magic...)
	out = append(out, FormatVersion, byte(c))
	out = append(out, sum[:]...)
	out = append(out, payload...)
	return out
}

// Decode parses a blob produced by Encode.
func Decode(data []byte) (*Snapshot, error) {
	if len(data) < headerSize || !bytes.Equal(data[:len(magic)], []byte(magic)) {
		return nil, &SnapshotError{Op: "decode", Err: ErrBadMagic}
	}
	if v := data[len(magic)]; v != FormatVersion {
		return nil, &SnapshotError{Op: "decode", Err: &VersionError{Version: v}}
	}
	c := Compression(data[len(magic)+1])
	want := data[len(magic)+2 : headerSize]
	payload := data[headerSize:]

	sum := blake3.Sum256(payload)
	if !bytes.Equal(sum[:], want) {
		return nil, &SnapshotError{Op: "decode", Err: ErrChecksum}
	}

	raw, err := decompress(payload, c)
	if err != nil {
		return nil, &SnapshotError{Op: "decode", Err: err}
	}

	var w wireSnapshot
	if err := decMode.Unmarshal(raw, &w); err != nil {
		return nil, &SnapshotError{Op: "decode", Err: err}
	}

	s := &Snapshot{Tick: w.Tick}
	if len(w.Objects) > 0 {
		s.Objects = make([]Entry, len(w.Objects))
	}
	for i, e := range w.Objects {
		pos, err := position.FromPacked(e.Pos)
		if err != nil {
			return nil, &SnapshotError{Op: "decode", Err: fmt.Errorf("entry %d: %w", i, err)}
		}
		s.Objects[i] = Entry{ID: e.ID, Pos: pos, Kind: e.Kind}
	}
	return s, nil
}
