package objectid

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// RawID is an untyped packed object identifier.
//
// RawID is comparable with == and usable as a map key. Two ids are equal only
// if both the packed value and the digit count match, so "1" and "01" are
// distinct ids.
type RawID struct {
	packed [Size]byte
	digits uint8
}

// Parse packs an identifier string, remembering its length.
func Parse(s string) (RawID, error) {
	b, err := Encode(s)
	if err != nil {
		return RawID{}, err
	}
	return RawID{packed: b, digits: uint8(len(s))}, nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// constants and tests.
func MustParse(s string) RawID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// FromBytes builds an id from its packed bytes and digit count.
func FromBytes(b [Size]byte, length int) (RawID, error) {
	if _, err := Decode(b, length); err != nil {
		return RawID{}, err
	}
	return RawID{packed: b, digits: uint8(length)}, nil
}

// FromUint32s builds a full-length id from three big-endian words, the form
// the game's JavaScript object_id_to_packed helper produces.
func FromUint32s(words [3]uint32) RawID {
	var id RawID
	binary.BigEndian.PutUint32(id.packed[0:4], words[0])
	binary.BigEndian.PutUint32(id.packed[4:8], words[1])
	binary.BigEndian.PutUint32(id.packed[8:12], words[2])
	id.digits = MaxDigits
	return id
}

// Bytes returns the canonical 12-byte packed value.
func (id RawID) Bytes() [Size]byte {
	return id.packed
}

// Len returns the digit count of the original string.
func (id RawID) Len() int {
	return int(id.digits)
}

// IsZero reports whether id is the zero value, the empty identifier.
func (id RawID) IsZero() bool {
	return id == RawID{}
}

// Uint32s returns the packed value as three big-endian words.
func (id RawID) Uint32s() [3]uint32 {
	return [3]uint32{
		binary.BigEndian.Uint32(id.packed[0:4]),
		binary.BigEndian.Uint32(id.packed[4:8]),
		binary.BigEndian.Uint32(id.packed[8:12]),
	}
}

// String returns the identifier exactly as it was parsed, in lower case.
func (id RawID) String() string {
	s, err := Decode(id.packed, int(id.digits))
	if err != nil {
		// Only reachable through a hand-built RawID; ids from this package
		// always decode.
		return fmt.Sprintf("%x", id.packed)
	}
	return s
}

// GoString implements fmt.GoStringer.
func (id RawID) GoString() string {
	return fmt.Sprintf("objectid.MustParse(%q)", id.String())
}

// Compare orders ids as unsigned 96-bit big-endian integers. Ids with the
// same value but different digit counts order shorter first.
func (id RawID) Compare(other RawID) int {
	if c := bytes.Compare(id.packed[:], other.packed[:]); c != 0 {
		return c
	}
	switch {
	case id.digits < other.digits:
		return -1
	case id.digits > other.digits:
		return 1
	}
	return 0
}

// Compare is RawID.Compare as a function, suitable for slices.SortFunc.
func Compare(a, b RawID) int {
	return a.Compare(b)
}

// MarshalBinary writes the 12 packed bytes followed by one digit-count byte.
func (id RawID) MarshalBinary() ([]byte, error) {
	out := make([]byte, Size+1)
	copy(out, id.packed[:])
	out[Size] = id.digits
	return out, nil
}

// UnmarshalBinary accepts the 13-byte form written by MarshalBinary, or the
// bare 12-byte canonical value, which is read as a full 24-digit id.
func (id *RawID) UnmarshalBinary(data []byte) error {
	var b [Size]byte
	switch len(data) {
	case Size:
		copy(b[:], data)
		*id = RawID{packed: b, digits: MaxDigits}
		return nil
	case Size + 1:
		copy(b[:], data[:Size])
		parsed, err := FromBytes(b, int(data[Size]))
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	default:
		return lengthError("", len(data))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (id RawID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *RawID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Trimmed returns id with its digit count reduced to the minimum needed to
// print the value, dropping leading zeros.
func (id RawID) Trimmed() RawID {
	return RawID{packed: id.packed, digits: uint8(significantDigits(id.packed))}
}
