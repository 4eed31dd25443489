package position

import (
	"cmp"
	"slices"
)

// World coordinates extend the in-room coordinates of E0S0 across the map:
// WorldX = 50*room_x + x and WorldY = 50*room_y + y.
const (
	MinWorldCoord = -HalfWorldSize * RoomSize
	MaxWorldCoord = HalfWorldSize*RoomSize - 1
)

// WorldX returns the horizontal world coordinate.
func (p Position) WorldX() int {
	roomX, _, x, _ := Unpack(p.packed)
	return roomX*RoomSize + x
}

// WorldY returns the vertical world coordinate.
func (p Position) WorldY() int {
	_, roomY, _, y := Unpack(p.packed)
	return roomY*RoomSize + y
}

// WorldCoords returns (WorldX, WorldY).
func (p Position) WorldCoords() (int, int) {
	roomX, roomY, x, y := Unpack(p.packed)
	return roomX*RoomSize + x, roomY*RoomSize + y
}

// FromWorld builds a position from world coordinates in
// [MinWorldCoord, MaxWorldCoord].
func FromWorld(wx, wy int) (Position, error) {
	if wx < MinWorldCoord || wx > MaxWorldCoord {
		return Position{}, outOfBounds("world x", wx, MinWorldCoord, MaxWorldCoord)
	}
	if wy < MinWorldCoord || wy > MaxWorldCoord {
		return Position{}, outOfBounds("world y", wy, MinWorldCoord, MaxWorldCoord)
	}
	// Shift into the non-negative range first so division floors.
	ux := wx - MinWorldCoord
	uy := wy - MinWorldCoord
	return Position{packed: pack(ux/RoomSize-HalfWorldSize, uy/RoomSize-HalfWorldSize, ux%RoomSize, uy%RoomSize)}, nil
}

// Delta returns other minus p in world coordinates.
func (p Position) Delta(other Position) (dx, dy int) {
	x1, y1 := p.WorldCoords()
	x2, y2 := other.WorldCoords()
	return x2 - x1, y2 - y1
}

// RangeTo returns the Chebyshev distance to other. Positions in different
// rooms are measured through world coordinates.
func (p Position) RangeTo(other Position) int {
	dx, dy := p.Delta(other)
	return max(abs(dx), abs(dy))
}

// InRangeTo reports whether other is at most r tiles away.
func (p Position) InRangeTo(other Position, r int) bool {
	return p.RangeTo(other) <= r
}

// IsNearTo matches the game's RoomPosition.isNearTo: same room and at most one
// tile away, including the position itself.
func (p Position) IsNearTo(other Position) bool {
	return p.Room() == other.Room() && p.RangeTo(other) <= 1
}

// IsAdjacent reports whether other is exactly one step away, across room
// edges included.
func (p Position) IsAdjacent(other Position) bool {
	return p.RangeTo(other) == 1
}

// Offset returns p moved by (dx, dy) tiles, crossing into neighbouring rooms
// as needed. Leaving the world fails with ErrOutOfBounds.
func (p Position) Offset(dx, dy int) (Position, error) {
	wx, wy := p.WorldCoords()
	return FromWorld(wx+dx, wy+dy)
}

// Step returns the neighbouring position in direction d.
func (p Position) Step(d Direction) (Position, error) {
	if !d.Valid() {
		return Position{}, outOfBounds("direction", int(d), int(Top), int(TopLeft))
	}
	dx, dy := d.Offset()
	return p.Offset(dx, dy)
}

// Neighbors returns the positions one step away in each direction, skipping
// those outside the world.
func (p Position) Neighbors() []Position {
	out := make([]Position, 0, len(Directions))
	for _, d := range Directions {
		if n, err := p.Step(d); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// DirectionTo returns the linear direction towards target using the game's
// rule: a straight direction wins when one axis is more than twice the other.
// It reports false when target is p.
func (p Position) DirectionTo(target Position) (Direction, bool) {
	dx, dy := p.Delta(target)
	adx, ady := abs(dx), abs(dy)
	switch {
	case adx > ady*2:
		if dx > 0 {
			return Right, true
		}
		return Left, true
	case ady > adx*2:
		if dy > 0 {
			return Bottom, true
		}
		return Top, true
	case dx > 0 && dy > 0:
		return BottomRight, true
	case dx > 0 && dy < 0:
		return TopRight, true
	case dx < 0 && dy > 0:
		return BottomLeft, true
	case dx < 0 && dy < 0:
		return TopLeft, true
	}
	return 0, false
}

// Compare orders positions by room row, room column, y, then x. This is the
// order of the packed values.
func Compare(a, b Position) int {
	return cmp.Compare(a.packed, b.packed)
}

// Compare is the method form of Compare.
func (p Position) Compare(other Position) int {
	return Compare(p, other)
}

// Sort sorts positions in place by Compare.
func Sort(ps []Position) {
	slices.SortFunc(ps, Compare)
}
