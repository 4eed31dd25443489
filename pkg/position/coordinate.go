package position

import "fmt"

const (
	// RoomSize is the width and height of a room in tiles.
	RoomSize = 50

	// RoomArea is the number of tiles in a room.
	RoomArea = RoomSize * RoomSize
)

// Coordinate is an in-room x or y value in [0, 49].
type Coordinate uint8

// NewCoordinate validates v as an in-room coordinate.
func NewCoordinate(v int) (Coordinate, error) {
	if v < 0 || v >= RoomSize {
		return 0, outOfBounds("coordinate", v, 0, RoomSize-1)
	}
	return Coordinate(v), nil
}

// Int returns c as an int.
func (c Coordinate) Int() int {
	return int(c)
}

// IsRoomEdge reports whether c lies on the border of the room, where exits are.
func (c Coordinate) IsRoomEdge() bool {
	return c == 0 || c == RoomSize-1
}

// XY is an in-room coordinate pair.
type XY struct {
	X Coordinate
	Y Coordinate
}

// NewXY validates both coordinates.
func NewXY(x, y int) (XY, error) {
	cx, err := NewCoordinate(x)
	if err != nil {
		return XY{}, err
	}
	cy, err := NewCoordinate(y)
	if err != nil {
		return XY{}, err
	}
	return XY{X: cx, Y: cy}, nil
}

func (xy XY) String() string {
	return fmt.Sprintf("(%d, %d)", xy.X, xy.Y)
}

// LinearIndex returns the x-major index used by cost matrices.
func (xy XY) LinearIndex() int {
	return int(xy.X)*RoomSize + int(xy.Y)
}

// XYFromLinearIndex is the inverse of XY.LinearIndex.
func XYFromLinearIndex(i int) (XY, error) {
	if i < 0 || i >= RoomArea {
		return XY{}, outOfBounds("linear index", i, 0, RoomArea-1)
	}
	return XY{X: Coordinate(i / RoomSize), Y: Coordinate(i % RoomSize)}, nil
}

// TerrainIndex returns the y-major index used by room terrain buffers.
func (xy XY) TerrainIndex() int {
	return int(xy.Y)*RoomSize + int(xy.X)
}

// XYFromTerrainIndex is the inverse of XY.TerrainIndex.
func XYFromTerrainIndex(i int) (XY, error) {
	if i < 0 || i >= RoomArea {
		return XY{}, outOfBounds("terrain index", i, 0, RoomArea-1)
	}
	return XY{X: Coordinate(i % RoomSize), Y: Coordinate(i / RoomSize)}, nil
}
