package position

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when a coordinate falls outside its span.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrInvalidRoomName is returned when a room name does not match
	// (E|W)<n>(N|S)<n>.
	ErrInvalidRoomName = errors.New("invalid room name")
)

// OutOfBoundsError reports which coordinate was rejected.
type OutOfBoundsError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("%s %d out of bounds [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

func (e *OutOfBoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// RoomNameError reports a room name that failed to parse.
type RoomNameError struct {
	Name string
	Err  error
}

func (e *RoomNameError) Error() string {
	if e.Err != nil && !errors.Is(e.Err, ErrInvalidRoomName) {
		return fmt.Sprintf("room name %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("expected room name formatted (E|W)[0-9]+(N|S)[0-9]+, found %q", e.Name)
}

func (e *RoomNameError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidRoomName
	}
	return e.Err
}

func outOfBounds(field string, value, min, max int) error {
	return &OutOfBoundsError{Field: field, Value: value, Min: min, Max: max}
}
