package memory

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodeString encodes s as a base64 string suitable for string-only storage
// such as the game's raw memory segments.
func EncodeString(s *Snapshot, c Compression) (string, error) {
	b, err := Encode(s, c)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// DecodeString reverses EncodeString.
func DecodeString(str string) (*Snapshot, error) {
	b, err := base64.StdEncoding.DecodeString(str)
	if err != nil {
		return nil, &SnapshotError{Op: "decode", Err: err}
	}
	return Decode(b)
}

// Segments splits an encoded string into chunks of at most limit bytes.
// An empty string yields no segments.
func Segments(encoded string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("segment limit must be positive, got %d", limit)
	}
	var out []string
	for len(encoded) > limit {
		out = append(out, encoded[:limit])
		encoded = encoded[limit:]
	}
	if encoded != "" {
		out = append(out, encoded)
	}
	return out, nil
}

// Join reassembles segments produced by Segments.
func Join(segments []string) string {
	return strings.Join(segments, "")
}
