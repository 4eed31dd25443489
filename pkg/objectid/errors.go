package objectid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLength is returned when an identifier has more than MaxDigits
	// hex digits, or when a length tag does not describe the packed value.
	ErrInvalidLength = errors.New("invalid object id length")

	// ErrInvalidDigit is returned when an identifier contains a character
	// outside [0-9a-fA-F].
	ErrInvalidDigit = errors.New("invalid object id digit")
)

// ParseError describes an identifier that could not be encoded or decoded.
type ParseError struct {
	// Input is the offending string. Empty when decoding from bytes.
	Input string
	// Offset is the index of the bad character for ErrInvalidDigit, -1 otherwise.
	Offset int
	// Length is the digit count involved for ErrInvalidLength.
	Length int
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case errors.Is(e.Err, ErrInvalidDigit):
		return fmt.Sprintf("%v: %q at offset %d", e.Err, e.Input, e.Offset)
	case e.Input != "":
		return fmt.Sprintf("%v: %q has %d digits (max %d)", e.Err, e.Input, e.Length, MaxDigits)
	default:
		return fmt.Sprintf("%v: length tag %d", e.Err, e.Length)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func lengthError(input string, length int) error {
	return &ParseError{Input: input, Offset: -1, Length: length, Err: ErrInvalidLength}
}

func digitError(input string, offset int) error {
	return &ParseError{Input: input, Offset: offset, Length: len(input), Err: ErrInvalidDigit}
}
