package position

import "fmt"

// Direction is one of the eight compass directions, numbered clockwise from
// Top as the game numbers them.
type Direction uint8

const (
	Top Direction = iota + 1
	TopRight
	Right
	BottomRight
	Bottom
	BottomLeft
	Left
	TopLeft
)

// Directions lists every valid direction in numeric order.
var Directions = [8]Direction{Top, TopRight, Right, BottomRight, Bottom, BottomLeft, Left, TopLeft}

var directionOffsets = [9][2]int{
	{0, 0},
	{0, -1},
	{1, -1},
	{1, 0},
	{1, 1},
	{0, 1},
	{-1, 1},
	{-1, 0},
	{-1, -1},
}

var directionNames = [9]string{"", "Top", "TopRight", "Right", "BottomRight", "Bottom", "BottomLeft", "Left", "TopLeft"}

// ParseDirection validates a direction code received from the host.
func ParseDirection(code int) (Direction, error) {
	if code < int(Top) || code > int(TopLeft) {
		return 0, outOfBounds("direction", code, int(Top), int(TopLeft))
	}
	return Direction(code), nil
}

// Valid reports whether d is one of the eight directions.
func (d Direction) Valid() bool {
	return d >= Top && d <= TopLeft
}

// Offset returns the (dx, dy) step for d. y grows southward. Invalid
// directions step nowhere.
func (d Direction) Offset() (dx, dy int) {
	if !d.Valid() {
		return 0, 0
	}
	o := directionOffsets[d]
	return o[0], o[1]
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if !d.Valid() {
		return d
	}
	return (d+3)%8 + 1
}

// RotateClockwise returns d turned by steps eighths of a turn. Negative steps
// turn counter-clockwise.
func (d Direction) RotateClockwise(steps int) Direction {
	if !d.Valid() {
		return d
	}
	n := (int(d) - 1 + steps) % 8
	if n < 0 {
		n += 8
	}
	return Direction(n + 1)
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return directionNames[d]
}
