// Package position packs world positions into a single uint32.
//
// A position is a room, addressed by signed grid coordinates, plus an in-room
// x/y in [0, 49]. The packed layout, from the most significant byte down, is
//
//	room_y + 128 | room_x + 128 | y | x
//
// so packed values sort by room row, then room column, then y, then x.
// Anything outside those spans is rejected rather than wrapped. The game
// engine's own __packedPos uses a different byte order; see
// Position.HostPacked.
package position

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

// Position is an immutable packed world position. The zero value is (0, 0) in
// W127N127, the top-left room of the world.
type Position struct {
	packed uint32
}

// Pack encodes a room and in-room coordinates.
func Pack(roomX, roomY, x, y int) (uint32, error) {
	if x < 0 || x >= RoomSize {
		return 0, outOfBounds("x", x, 0, RoomSize-1)
	}
	if y < 0 || y >= RoomSize {
		return 0, outOfBounds("y", y, 0, RoomSize-1)
	}
	if _, err := NewRoomName(roomX, roomY); err != nil {
		return 0, err
	}
	return pack(roomX, roomY, x, y), nil
}

func pack(roomX, roomY, x, y int) uint32 {
	return uint32(roomY+HalfWorldSize)<<24 |
		uint32(roomX+HalfWorldSize)<<16 |
		uint32(y)<<8 |
		uint32(x)
}

// Unpack is the inverse of Pack. It never fails; run Validate first on values
// from untrusted sources.
func Unpack(packed uint32) (roomX, roomY, x, y int) {
	roomY = int(packed>>24) - HalfWorldSize
	roomX = int(packed>>16&0xFF) - HalfWorldSize
	y = int(packed >> 8 & 0xFF)
	x = int(packed & 0xFF)
	return roomX, roomY, x, y
}

// Validate reports whether packed could have been produced by Pack.
func Validate(packed uint32) error {
	_, _, x, y := Unpack(packed)
	if x >= RoomSize {
		return outOfBounds("x", x, 0, RoomSize-1)
	}
	if y >= RoomSize {
		return outOfBounds("y", y, 0, RoomSize-1)
	}
	return nil
}

// New builds a position from validated parts. x and y must be below
// RoomSize, as NewCoordinate guarantees; a Coordinate converted from an
// arbitrary integer yields a packed value Validate rejects. Use FromCoords for
// unchecked input.
func New(x, y Coordinate, room RoomName) Position {
	return Position{packed: pack(room.x, room.y, int(x), int(y))}
}

// FromCoords validates and builds a position from plain integers.
func FromCoords(roomX, roomY, x, y int) (Position, error) {
	p, err := Pack(roomX, roomY, x, y)
	if err != nil {
		return Position{}, err
	}
	return Position{packed: p}, nil
}

// FromPacked wraps a packed value after validating it.
func FromPacked(packed uint32) (Position, error) {
	if err := Validate(packed); err != nil {
		return Position{}, err
	}
	return Position{packed: packed}, nil
}

// Packed returns the packed representation.
func (p Position) Packed() uint32 {
	return p.packed
}

// X returns the in-room x coordinate.
func (p Position) X() Coordinate {
	return Coordinate(p.packed & 0xFF)
}

// Y returns the in-room y coordinate.
func (p Position) Y() Coordinate {
	return Coordinate(p.packed >> 8 & 0xFF)
}

// XY returns the in-room coordinate pair.
func (p Position) XY() XY {
	return XY{X: p.X(), Y: p.Y()}
}

// Room returns the room this position is in.
func (p Position) Room() RoomName {
	roomX, roomY, _, _ := Unpack(p.packed)
	return RoomName{x: roomX, y: roomY}
}

// WithX returns p moved to column x of the same room. Like New, it trusts x
// to be below RoomSize.
func (p Position) WithX(x Coordinate) Position {
	return Position{packed: p.packed&^0xFF | uint32(x)}
}

// WithY returns p moved to row y of the same room. Like New, it trusts y
// to be below RoomSize.
func (p Position) WithY(y Coordinate) Position {
	return Position{packed: p.packed&^(0xFF<<8) | uint32(y)<<8}
}

// WithRoom returns p with the same in-room coordinates in another room.
func (p Position) WithRoom(room RoomName) Position {
	return Position{packed: pack(room.x, room.y, int(p.X()), int(p.Y()))}
}

// HostPacked converts to the game engine's __packedPos layout:
// (room_x+128)<<24 | (room_y+128)<<16 | x<<8 | y.
func (p Position) HostPacked() uint32 {
	roomX, roomY, x, y := Unpack(p.packed)
	return uint32(roomX+HalfWorldSize)<<24 |
		uint32(roomY+HalfWorldSize)<<16 |
		uint32(x)<<8 |
		uint32(y)
}

// FromHostPacked converts a __packedPos value read from the game engine.
func FromHostPacked(hostPacked uint32) (Position, error) {
	roomX := int(hostPacked>>24) - HalfWorldSize
	roomY := int(hostPacked>>16&0xFF) - HalfWorldSize
	x := int(hostPacked >> 8 & 0xFF)
	y := int(hostPacked & 0xFF)
	return FromCoords(roomX, roomY, x, y)
}

func (p Position) String() string {
	return fmt.Sprintf("[room %s pos %d,%d]", p.Room(), p.X(), p.Y())
}

// MarshalBinary writes the packed value as 4 big-endian bytes.
func (p Position) MarshalBinary() ([]byte, error) {
	return binary.BigEndian.AppendUint32(nil, p.packed), nil
}

// UnmarshalBinary reads the form written by MarshalBinary.
func (p *Position) UnmarshalBinary(data []byte) error {
	if len(data) != 4 {
		return fmt.Errorf("position: expected 4 bytes, got %d", len(data))
	}
	parsed, err := FromPacked(binary.BigEndian.Uint32(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

type readablePosition struct {
	RoomName RoomName `json:"roomName"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
}

// MarshalJSON writes {"roomName":"E1N1","x":33,"y":44}, the shape the game
// uses for RoomPosition.
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(readablePosition{RoomName: p.Room(), X: int(p.X()), Y: int(p.Y())})
}

// UnmarshalJSON reads the MarshalJSON form. All three fields are required.
func (p *Position) UnmarshalJSON(data []byte) error {
	var r struct {
		RoomName *RoomName `json:"roomName"`
		X        *int      `json:"x"`
		Y        *int      `json:"y"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	switch {
	case r.RoomName == nil:
		return errors.New("position: JSON is missing roomName")
	case r.X == nil:
		return errors.New("position: JSON is missing x")
	case r.Y == nil:
		return errors.New("position: JSON is missing y")
	}
	parsed, err := FromCoords(r.RoomName.x, r.RoomName.y, *r.X, *r.Y)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
