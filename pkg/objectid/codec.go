// Package objectid converts game object identifiers between their hex string
// form and a fixed 12-byte binary form.
//
// The host hands out identifiers as strings of up to 24 hex digits. Official
// servers always produce 24 digits; private servers may produce fewer. The
// binary form right-aligns the digits, so identifiers of the same length sort
// the same way as their strings, and the digit count is carried next to the
// bytes so the exact string, leading zeros included, can be rebuilt.
package objectid

import "encoding/hex"

const (
	// Size is the number of bytes in a packed identifier.
	Size = 12

	// MaxDigits is the longest identifier string that fits in Size bytes.
	MaxDigits = Size * 2
)

// Encode packs a hex identifier string into its 12-byte form.
//
// Digits are right-aligned two per byte, most significant byte first. With an
// odd digit count the leading digit sits alone in the low nibble of its byte.
// Upper and lower case digits are accepted.
func Encode(s string) ([Size]byte, error) {
	var out [Size]byte
	if len(s) > MaxDigits {
		return out, lengthError(s, len(s))
	}

	j := Size - 1
	for i := len(s); i > 0; i -= 2 {
		lo, ok := fromHexChar(s[i-1])
		if !ok {
			return [Size]byte{}, digitError(s, i-1)
		}
		var hi byte
		if i >= 2 {
			hi, ok = fromHexChar(s[i-2])
			if !ok {
				return [Size]byte{}, digitError(s, i-2)
			}
		}
		out[j] = hi<<4 | lo
		j--
	}

	return out, nil
}

// Decode rebuilds the lower-case identifier string of exactly length digits
// from its packed form.
//
// A length above MaxDigits, or a buffer holding non-zero digits that length
// would cut off, fails with ErrInvalidLength.
func Decode(b [Size]byte, length int) (string, error) {
	if length < 0 || length > MaxDigits {
		return "", lengthError("", length)
	}

	n := (length + 1) / 2
	for _, c := range b[:Size-n] {
		if c != 0 {
			return "", lengthError("", length)
		}
	}
	if length%2 == 1 && b[Size-n]>>4 != 0 {
		return "", lengthError("", length)
	}

	var buf [MaxDigits]byte
	hex.Encode(buf[:2*n], b[Size-n:])
	return string(buf[2*n-length : 2*n]), nil
}

// significantDigits returns the number of hex digits needed to print b
// without leading zeros.
func significantDigits(b [Size]byte) int {
	for i, c := range b {
		if c == 0 {
			continue
		}
		if c>>4 == 0 {
			return (Size-i)*2 - 1
		}
		return (Size - i) * 2
	}
	return 0
}

func fromHexChar(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
