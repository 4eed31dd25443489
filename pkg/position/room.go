package position

import (
	"strconv"
	"strings"
)

// HalfWorldSize bounds room coordinates: they lie in
// [-HalfWorldSize, HalfWorldSize-1], i.e. W127N127 to E127S127.
const HalfWorldSize = 128

// RoomName identifies a room by signed grid coordinates.
//
// East and south are non-negative: Exx has x = xx and Syy has y = yy. West and
// north are negative: Wxx has x = -xx-1 and Nyy has y = -yy-1. The zero value
// is E0S0.
type RoomName struct {
	x int
	y int
}

// NewRoomName validates signed room coordinates.
func NewRoomName(x, y int) (RoomName, error) {
	if x < -HalfWorldSize || x >= HalfWorldSize {
		return RoomName{}, outOfBounds("room x", x, -HalfWorldSize, HalfWorldSize-1)
	}
	if y < -HalfWorldSize || y >= HalfWorldSize {
		return RoomName{}, outOfBounds("room y", y, -HalfWorldSize, HalfWorldSize-1)
	}
	return RoomName{x: x, y: y}, nil
}

// ParseRoomName parses names such as "E21N4" or "w6s42". "sim", the
// simulator room, parses as E0S0.
func ParseRoomName(s string) (RoomName, error) {
	if s == "sim" {
		return RoomName{}, nil
	}
	if len(s) < 4 {
		return RoomName{}, &RoomNameError{Name: s}
	}

	var east bool
	switch s[0] {
	case 'E', 'e':
		east = true
	case 'W', 'w':
	default:
		return RoomName{}, &RoomNameError{Name: s}
	}

	split := strings.IndexAny(s, "NSns")
	if split < 2 || split == len(s)-1 {
		return RoomName{}, &RoomNameError{Name: s}
	}
	south := s[split] == 'S' || s[split] == 's'

	xn, ok := parseDigits(s[1:split])
	if !ok {
		return RoomName{}, &RoomNameError{Name: s}
	}
	yn, ok := parseDigits(s[split+1:])
	if !ok {
		return RoomName{}, &RoomNameError{Name: s}
	}

	x, y := xn, yn
	if !east {
		x = -xn - 1
	}
	if !south {
		y = -yn - 1
	}

	room, err := NewRoomName(x, y)
	if err != nil {
		return RoomName{}, &RoomNameError{Name: s, Err: err}
	}
	return room, nil
}

// MustParseRoomName is like ParseRoomName but panics on error.
func MustParseRoomName(s string) RoomName {
	r, err := ParseRoomName(s)
	if err != nil {
		panic(err)
	}
	return r
}

func parseDigits(s string) (int, bool) {
	if s == "" || len(s) > 4 {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// X returns the signed horizontal room coordinate.
func (r RoomName) X() int { return r.x }

// Y returns the signed vertical room coordinate.
func (r RoomName) Y() int { return r.y }

// String formats the room the way the game does, for example "W7N4".
func (r RoomName) String() string {
	var b strings.Builder
	b.Grow(8)
	if r.x >= 0 {
		b.WriteByte('E')
		b.WriteString(strconv.Itoa(r.x))
	} else {
		b.WriteByte('W')
		b.WriteString(strconv.Itoa(-r.x - 1))
	}
	if r.y >= 0 {
		b.WriteByte('S')
		b.WriteString(strconv.Itoa(r.y))
	} else {
		b.WriteByte('N')
		b.WriteString(strconv.Itoa(-r.y - 1))
	}
	return b.String()
}

// Offset returns the room dx rooms east and dy rooms south of r.
func (r RoomName) Offset(dx, dy int) (RoomName, error) {
	return NewRoomName(r.x+dx, r.y+dy)
}

// Distance returns the Chebyshev distance between two rooms in rooms.
func (r RoomName) Distance(other RoomName) int {
	return max(abs(r.x-other.x), abs(r.y-other.y))
}

func (r RoomName) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *RoomName) UnmarshalText(text []byte) error {
	parsed, err := ParseRoomName(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
