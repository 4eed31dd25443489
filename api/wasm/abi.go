// Package wasm describes the contract between the screeps host and bot
// modules: the names of the host imports, the exports a bot provides and the
// layout of the buffers they exchange.
//
// The host side lives in internal/wasm. Guests built with GOARCH=wasm get
// typed wrappers over the imports from this package.
package wasm

import "fmt"

// HostModule is the import module name of every host function.
const HostModule = "screeps"

// Host imports.
const (
	ImportLogMessage         = "log_message"
	ImportObjectIDToPacked   = "object_id_to_packed"
	ImportObjectIDFromPacked = "object_id_from_packed"
	ImportObjectIDToString   = "object_id_to_string"
	ImportPosPack            = "pos_pack"
	ImportPosUnpack          = "pos_unpack"
	ImportPosToHost          = "pos_to_host"
	ImportPosFromHost        = "pos_from_host"
	ImportPosStep            = "pos_step"
	ImportPosRange           = "pos_range"
	ImportObjectTrack        = "object_track"
)

// Guest exports. Only ExportLoop is required.
const (
	ExportLoop   = "loop"
	ExportMalloc = "malloc"
	ExportFree   = "free"
)

// Buffer sizes.
const (
	// PackedIDSize is 12 packed id bytes followed by the digit count.
	PackedIDSize = 13
	// MaxIDDigits is the longest id string object_id_from_packed writes.
	MaxIDDigits = 24
	// UnpackedPosSize is four little-endian int32s: room_x, room_y, x, y.
	UnpackedPosSize = 16
	// MaxKindLen bounds the kind string passed to object_track.
	MaxKindLen = 64
)

// Log levels accepted by log_message.
const (
	LogDebug uint32 = iota
	LogInfo
	LogWarn
	LogError
)

// Status codes. A host function returns a non-negative value on success and
// the negated status on failure.
const (
	StatusInvalidLength = 1
	StatusInvalidDigit  = 2
	StatusOutOfBounds   = 3
	StatusMemoryFault   = 4
	StatusInternal      = 5
)

// StatusError is a failure status returned by a host import.
type StatusError int32

func (e StatusError) Error() string {
	switch e {
	case StatusInvalidLength:
		return "screeps: invalid length"
	case StatusInvalidDigit:
		return "screeps: invalid digit"
	case StatusOutOfBounds:
		return "screeps: out of bounds"
	case StatusMemoryFault:
		return "screeps: memory fault"
	case StatusInternal:
		return "screeps: internal error"
	default:
		return fmt.Sprintf("screeps: status %d", int32(e))
	}
}

// Result splits a host function return value into its payload and error.
func Result(v int64) (uint32, error) {
	if v < 0 {
		return 0, StatusError(-v)
	}
	return uint32(v), nil
}
