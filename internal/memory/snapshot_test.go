package memory

import (
	"bytes"
	"errors"
	"testing"

	"github.com/woxQAQ/screeps-go/pkg/objectid"
	"github.com/woxQAQ/screeps-go/pkg/position"
)

func mustPos(t *testing.T, roomX, roomY, x, y int) position.Position {
	t.Helper()
	p, err := position.FromCoords(roomX, roomY, x, y)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func testSnapshot(t *testing.T) *Snapshot {
	return &Snapshot{
		Tick: 4242,
		Objects: []Entry{
			{ID: objectid.MustParse("5bbcae9f9099fc012e639a22"), Pos: mustPos(t, 1, -2, 25, 25), Kind: "source"},
			{ID: objectid.MustParse("1"), Pos: mustPos(t, 0, 0, 0, 0), Kind: "spawn"},
			{ID: objectid.MustParse("01"), Pos: mustPos(t, -128, 127, 49, 49)},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			in := testSnapshot(t)
			data, err := Encode(in, c)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if Compression(data[5]) != c {
				t.Errorf("compression tag = %d, want %d", data[5], c)
			}

			out, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if out.Tick != in.Tick {
				t.Errorf("Tick = %d, want %d", out.Tick, in.Tick)
			}
			if len(out.Objects) != len(in.Objects) {
				t.Fatalf("len(Objects) = %d, want %d", len(out.Objects), len(in.Objects))
			}
			for _, want := range in.Objects {
				got, ok := out.Lookup(want.ID)
				if !ok {
					t.Errorf("entry %s missing", want.ID)
					continue
				}
				if got != want {
					t.Errorf("entry %s = %+v, want %+v", want.ID, got, want)
				}
			}
		})
	}
}

func TestEncodeSortsByID(t *testing.T) {
	out, err := Decode(mustEncode(t, testSnapshot(t), CompressionNone))
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(out.Objects); i++ {
		if out.Objects[i-1].ID.Compare(out.Objects[i].ID) > 0 {
			t.Errorf("entries not sorted at %d: %s > %s", i, out.Objects[i-1].ID, out.Objects[i].ID)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	a := testSnapshot(t)
	b := testSnapshot(t)
	b.Objects[0], b.Objects[2] = b.Objects[2], b.Objects[0]

	for _, c := range []Compression{CompressionNone, CompressionZstd} {
		if !bytes.Equal(mustEncode(t, a, c), mustEncode(t, b, c)) {
			t.Errorf("%s: entry order changed the encoding", c)
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	out, err := Decode(mustEncode(t, &Snapshot{}, CompressionZstd))
	if err != nil {
		t.Fatal(err)
	}
	if out.Tick != 0 || len(out.Objects) != 0 {
		t.Errorf("empty snapshot decoded as %+v", out)
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	good := mustEncode(t, testSnapshot(t), CompressionZstd)

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		want   error
	}{
		{"short", func(b []byte) []byte { return b[:10] }, ErrBadMagic},
		{"magic", func(b []byte) []byte { b[0] = 'X'; return b }, ErrBadMagic},
		{"payload", func(b []byte) []byte { b[len(b)-1] ^= 0xff; return b }, ErrChecksum},
		{"hash", func(b []byte) []byte { b[6] ^= 0x01; return b }, ErrChecksum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(bytes.Clone(good))
			_, err := Decode(data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeRejectsVersion(t *testing.T) {
	data := mustEncode(t, testSnapshot(t), CompressionNone)
	data[4] = 9

	_, err := Decode(data)
	var verr *VersionError
	if !errors.As(err, &verr) {
		t.Fatalf("expected VersionError, got %v", err)
	}
	if verr.Version != 9 {
		t.Errorf("Version = %d, want 9", verr.Version)
	}
}

func TestDecodeRejectsInvalidPosition(t *testing.T) {
	raw, err := encMode.Marshal(wireSnapshot{
		Tick:    1,
		Objects: []wireEntry{{ID: objectid.MustParse("a"), Pos: 0x80800032}},
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = Decode(frame(raw, CompressionNone))
	if !errors.Is(err, position.ErrOutOfBounds) {
		t.Errorf("Decode error = %v, want ErrOutOfBounds", err)
	}
}

func TestSnapshotPut(t *testing.T) {
	s := &Snapshot{}
	id := objectid.MustParse("abc")
	s.Put(Entry{ID: id, Kind: "creep"})
	s.Put(Entry{ID: id, Kind: "tombstone"})

	if len(s.Objects) != 1 {
		t.Fatalf("len(Objects) = %d, want 1", len(s.Objects))
	}
	if e, _ := s.Lookup(id); e.Kind != "tombstone" {
		t.Errorf("Kind = %q, want tombstone", e.Kind)
	}
	if _, ok := s.Lookup(objectid.MustParse("0abc")); ok {
		t.Error("Lookup matched an id of different length")
	}
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionZstd} {
		got, err := ParseCompression(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCompression(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCompression("lz4"); err == nil {
		t.Error("expected error for lz4")
	}
}

func mustEncode(t *testing.T, s *Snapshot, c Compression) []byte {
	t.Helper()
	data, err := Encode(s, c)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return data
}
